package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	// 连续失败次数达到该值后熔断
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerRunner 为每台主机维护一个熔断器，不可达的主机快速失败
type BreakerRunner struct {
	next     Runner
	conf     BreakerConfig
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewBreakerRunner(next Runner, conf BreakerConfig) *BreakerRunner {
	if conf.MaxFailures == 0 {
		conf.MaxFailures = 5
	}
	if conf.OpenTimeout == 0 {
		conf.OpenTimeout = time.Minute
	}
	return &BreakerRunner{
		next:     next,
		conf:     conf,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (b *BreakerRunner) Run(ctx context.Context, host, command string) (*Result, error) {
	var res *Result
	_, err := b.breaker(host).Execute(func() (interface{}, error) {
		var err error
		res, err = b.next.Run(ctx, host, command)
		return res, err
	})
	return res, err
}

// State 返回主机熔断器状态，未调用过的主机视为 closed
func (b *BreakerRunner) State(host string) gobreaker.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.breakers[host]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

func (b *BreakerRunner) breaker(host string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.breakers[host]; ok {
		return cb
	}
	maxFailures := b.conf.MaxFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    host,
		Timeout: b.conf.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// 非零退出码说明主机可达
			var exitErr *ExitError
			return err == nil || errors.As(err, &exitErr)
		},
	})
	b.breakers[host] = cb
	return cb
}
