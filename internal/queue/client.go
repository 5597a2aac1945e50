package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atlas/internal/repository"
	"atlas/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Client 提交任务
//
//go:generate mockgen -source=client.go -destination=../mocks/queue.go -package=mocks
type Client interface {
	Submit(ctx context.Context, name string, args interface{}, opts ...Option) (string, error)
}

// ErrUnavailable broker 写入失败
var ErrUnavailable = errors.New("task queue unavailable")

type client struct {
	broker Broker
	logger *log.Logger
	now    func() time.Time
}

func NewClient(broker Broker, logger *log.Logger) Client {
	return &client{broker: broker, logger: logger, now: time.Now}
}

func (c *client) Submit(ctx context.Context, name string, args interface{}, opts ...Option) (string, error) {
	actor := ActorFromContext(ctx)
	opts = append([]Option{WithActor(actor)}, opts...)
	job, err := NewJob(name, args, c.now(), opts...)
	if err != nil {
		return "", err
	}
	if err := c.broker.Enqueue(ctx, job); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.logger.WithContext(ctx).Info("job submitted",
		zap.String("job", job.Name),
		zap.String("job_id", job.ID),
		zap.String("queue", job.Queue),
		zap.Time("eta", job.ETA),
	)
	return job.ID, nil
}

// NewBroker 按 queue.driver 选择 redis 或进程内队列
func NewBroker(conf *viper.Viper) (Broker, func(), error) {
	switch driver := conf.GetString("queue.driver"); driver {
	case "", "redis":
		b := NewRedisBroker(repository.NewRedis(conf))
		return b, func() { _ = b.Close() }, nil
	case "local":
		return NewLocalBroker(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported queue driver %q", driver)
	}
}
