package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultQueue = "default"

// Job 一次提交，最多执行一次，不自动重试
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Queue      string          `json:"queue"`
	Args       json.RawMessage `json:"args"`
	Actor      string          `json:"actor,omitempty"`
	TimeLimit  time.Duration   `json:"time_limit,omitempty"`
	ETA        time.Time       `json:"eta"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Bind 把参数解码到 v
func (j *Job) Bind(v interface{}) error {
	if len(j.Args) == 0 {
		return nil
	}
	if err := json.Unmarshal(j.Args, v); err != nil {
		return fmt.Errorf("job %s (%s): decode args: %w", j.Name, j.ID, err)
	}
	return nil
}

type Option func(*Job)

// WithDelay 延迟 d 后才可被消费
func WithDelay(d time.Duration) Option {
	return func(j *Job) {
		if d > 0 {
			j.ETA = j.EnqueuedAt.Add(d)
		}
	}
}

func WithTimeLimit(d time.Duration) Option {
	return func(j *Job) {
		j.TimeLimit = d
	}
}

func WithQueue(name string) Option {
	return func(j *Job) {
		if name != "" {
			j.Queue = name
		}
	}
}

func WithActor(actor string) Option {
	return func(j *Job) {
		j.Actor = actor
	}
}

// NewJob 生成带 uuid 的任务
func NewJob(name string, args interface{}, now time.Time, opts ...Option) (*Job, error) {
	if name == "" {
		return nil, errors.New("job name is required")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("job %s: encode args: %w", name, err)
	}
	j := &Job{
		ID:         uuid.NewString(),
		Name:       name,
		Queue:      DefaultQueue,
		Args:       raw,
		ETA:        now,
		EnqueuedAt: now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// TimeoutError 任务超过时间限制被终止
type TimeoutError struct {
	Job   string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s exceeded time limit %s", e.Job, e.Limit)
}

type actorKey struct{}

// ContextWithActor 任务内再提交的任务沿用同一个 actor
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}
