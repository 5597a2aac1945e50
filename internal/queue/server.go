package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"atlas/internal/metrics"
	"atlas/internal/model"
	"atlas/pkg/log"

	"github.com/sourcegraph/conc"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Report 任务成功时附带的摘要，写入通知
type Report struct {
	Title    string
	Entity   string
	EntityID string
	Fields   map[string]string
	Hosts    map[string]model.HostOutcome
}

type HandlerFunc func(ctx context.Context, job *Job) (*Report, error)

// Completion 每个任务结束后交给 CompletionHook，无论成功与否
type Completion struct {
	Job        *Job
	Status     string
	Report     *Report
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type CompletionHook func(ctx context.Context, c *Completion)

type handlerEntry struct {
	fn        HandlerFunc
	timeLimit time.Duration
}

// Server 从 broker 拉取任务执行，任务超时即判定失败，不重试
type Server struct {
	broker       Broker
	logger       *log.Logger
	metrics      *metrics.Metrics
	queues       []string
	concurrency  int
	defaultLimit time.Duration
	poll         time.Duration

	mu       sync.RWMutex
	handlers map[string]handlerEntry
	hooks    []CompletionHook

	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func NewServer(conf *viper.Viper, broker Broker, logger *log.Logger, m *metrics.Metrics) *Server {
	queues := conf.GetStringSlice("queue.queues")
	if len(queues) == 0 {
		queues = []string{DefaultQueue}
	}
	concurrency := conf.GetInt("queue.concurrency")
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Server{
		broker:       broker,
		logger:       logger,
		metrics:      m,
		queues:       queues,
		concurrency:  concurrency,
		defaultLimit: conf.GetDuration("queue.default_time_limit"),
		poll:         time.Second,
		handlers:     make(map[string]handlerEntry),
	}
}

// Handle 注册任务处理函数，timeLimit 为 0 时使用 queue.default_time_limit
func (s *Server) Handle(name string, fn HandlerFunc, timeLimit time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = handlerEntry{fn: fn, timeLimit: timeLimit}
}

func (s *Server) OnComplete(hook CompletionHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Names 已注册的任务名
func (s *Server) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

func (s *Server) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("starting job server",
		zap.Strings("queues", s.queues), zap.Int("concurrency", s.concurrency))
	for i := 0; i < s.concurrency; i++ {
		queue := s.queues[i%len(s.queues)]
		s.wg.Go(func() {
			s.loop(ctx, queue)
		})
	}
	<-ctx.Done()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping job server")
	if s.cancel != nil {
		s.cancel()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) loop(ctx context.Context, queue string) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := s.broker.Dequeue(ctx, queue, s.poll)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("dequeue failed", zap.String("queue", queue), zap.Error(err))
			select {
			case <-time.After(s.poll):
			case <-ctx.Done():
				return
			}
			continue
		}
		if job == nil {
			continue
		}
		s.Process(context.WithoutCancel(ctx), job)
	}
}

// Process 同步执行一个任务并触发完成回调
func (s *Server) Process(ctx context.Context, job *Job) *Completion {
	s.mu.RLock()
	entry, ok := s.handlers[job.Name]
	hooks := append([]CompletionHook(nil), s.hooks...)
	s.mu.RUnlock()

	ctx = ContextWithActor(ctx, job.Actor)
	ctx = s.logger.WithValue(ctx, zap.String("job", job.Name), zap.String("job_id", job.ID))
	c := &Completion{Job: job, StartedAt: time.Now()}

	if !ok {
		c.Err = fmt.Errorf("no handler registered for job %q", job.Name)
	} else {
		limit := job.TimeLimit
		if limit <= 0 {
			limit = entry.timeLimit
		}
		if limit <= 0 {
			limit = s.defaultLimit
		}
		c.Report, c.Err = s.run(ctx, job, entry.fn, limit)
	}
	c.FinishedAt = time.Now()
	c.Status = statusOf(c.Err)

	logger := s.logger.WithContext(ctx)
	if c.Err != nil {
		logger.Error("job failed", zap.String("status", c.Status), zap.Error(c.Err),
			zap.Duration("duration", c.FinishedAt.Sub(c.StartedAt)))
	} else {
		logger.Info("job done", zap.Duration("duration", c.FinishedAt.Sub(c.StartedAt)))
	}
	s.metrics.ObserveJob(job.Name, c.Status, c.FinishedAt.Sub(c.StartedAt))

	for _, hook := range hooks {
		hook(ctx, c)
	}
	return c
}

type runResult struct {
	report *Report
	err    error
}

// run 超时后立即返回 TimeoutError，handler 通过 ctx 取消自行退出
func (s *Server) run(ctx context.Context, job *Job, fn HandlerFunc, limit time.Duration) (*Report, error) {
	var cancel context.CancelFunc
	if limit > 0 {
		ctx, cancel = context.WithTimeout(ctx, limit)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan runResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runResult{err: fmt.Errorf("job %s panic: %v\n%s", job.Name, r, debug.Stack())}
			}
		}()
		report, err := fn(ctx, job)
		done <- runResult{report: report, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return r.report, &TimeoutError{Job: job.Name, Limit: limit}
		}
		return r.report, r.err
	case <-ctx.Done():
		return nil, &TimeoutError{Job: job.Name, Limit: limit}
	}
}

func statusOf(err error) string {
	if err == nil {
		return model.JobStatusSuccess
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return model.JobStatusTimeout
	}
	return model.JobStatusFailed
}
