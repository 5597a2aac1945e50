package notify

import (
	"context"
	"time"

	"atlas/internal/model"
	"atlas/pkg/log"

	"go.uber.org/zap"
)

// Outcome 任务结束时产出的通知记录，由各个 Sink 渲染
type Outcome struct {
	Title       string                       `json:"title"`
	Success     bool                         `json:"success"`
	Environment string                       `json:"environment"`
	Actor       string                       `json:"actor,omitempty"`
	Job         string                       `json:"job,omitempty"`
	JobID       string                       `json:"job_id,omitempty"`
	Entity      string                       `json:"entity,omitempty"`
	EntityID    string                       `json:"entity_id,omitempty"`
	Fields      map[string]string            `json:"fields,omitempty"`
	Error       string                       `json:"error,omitempty"`
	Hosts       map[string]model.HostOutcome `json:"hosts,omitempty"`
	Time        time.Time                    `json:"time"`
}

// Sink 一个通知出口，失败只记录日志
type Sink interface {
	Name() string
	Send(ctx context.Context, o *Outcome) error
}

// Notifier 把 Outcome 分发到所有启用的 Sink
type Notifier struct {
	env    string
	logger *log.Logger
	sinks  []Sink
}

func NewNotifier(env string, logger *log.Logger, sinks ...Sink) *Notifier {
	return &Notifier{env: env, logger: logger, sinks: sinks}
}

func (n *Notifier) Environment() string {
	return n.env
}

// Notify 同步发送，单个 Sink 失败不影响其它 Sink
func (n *Notifier) Notify(ctx context.Context, o *Outcome) {
	if o.Environment == "" {
		o.Environment = n.env
	}
	if o.Time.IsZero() {
		o.Time = time.Now()
	}
	for _, s := range n.sinks {
		if err := s.Send(ctx, o); err != nil {
			n.logger.WithContext(ctx).Warn("notify sink failed",
				zap.String("sink", s.Name()), zap.String("title", o.Title), zap.Error(err))
		}
	}
}

// LogSink 总是启用
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, o *Outcome) error {
	fields := []zap.Field{
		zap.String("title", o.Title),
		zap.Bool("success", o.Success),
		zap.String("environment", o.Environment),
		zap.String("actor", o.Actor),
		zap.String("entity", o.Entity),
		zap.String("entity_id", o.EntityID),
	}
	if len(o.Fields) > 0 {
		fields = append(fields, zap.Any("fields", o.Fields))
	}
	if len(o.Hosts) > 0 {
		fields = append(fields, zap.Any("hosts", o.Hosts))
	}
	logger := s.logger.WithContext(ctx)
	if o.Success {
		logger.Info("outcome", fields...)
		return nil
	}
	logger.Error("outcome", append(fields, zap.String("error", o.Error))...)
	return nil
}
