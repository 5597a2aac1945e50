package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"atlas/internal/metrics"
	"atlas/internal/model"
	"atlas/pkg/log"
	"atlas/pkg/remote"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultMaxParallel = 16

// Executor 把 Primitive 并发下发到选中的主机并汇总结果
type Executor struct {
	runner      remote.Runner
	inventory   *Inventory
	logger      *log.Logger
	metrics     *metrics.Metrics
	maxParallel int
	hostTimeout time.Duration
}

func NewExecutor(conf *viper.Viper, runner remote.Runner, inventory *Inventory, logger *log.Logger, m *metrics.Metrics) *Executor {
	maxParallel := conf.GetInt("fleet.max_parallel")
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}
	return &Executor{
		runner:      runner,
		inventory:   inventory,
		logger:      logger,
		metrics:     m,
		maxParallel: maxParallel,
		hostTimeout: conf.GetDuration("fleet.host_timeout"),
	}
}

func (e *Executor) Inventory() *Inventory {
	return e.inventory
}

// Run 按 scope 解析主机后执行，任一主机失败时返回 *RemoteError，Result 始终非空
func (e *Executor) Run(ctx context.Context, scope Scope, poolName string, p Primitive) (*Result, error) {
	hosts, err := e.inventory.Hosts(scope, poolName)
	if err != nil {
		return &Result{Primitive: p.Name, Hosts: map[string]model.HostOutcome{}}, err
	}
	res := e.Execute(ctx, p, hosts)
	return res, res.Err()
}

// Execute 所有主机同时执行，单台失败不会取消其它主机，全部返回后才结束
func (e *Executor) Execute(ctx context.Context, p Primitive, hosts []string) *Result {
	res := &Result{Primitive: p.Name, Hosts: make(map[string]model.HostOutcome, len(hosts))}
	var mu sync.Mutex

	workers := pool.New().WithMaxGoroutines(e.maxParallel)
	for _, host := range hosts {
		host := host
		workers.Go(func() {
			outcome := e.call(ctx, host, p)
			mu.Lock()
			res.Hosts[host] = outcome
			mu.Unlock()
		})
	}
	workers.Wait()
	return res
}

func (e *Executor) call(ctx context.Context, host string, p Primitive) model.HostOutcome {
	if e.hostTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.hostTimeout)
		defer cancel()
	}
	r, err := e.runner.Run(ctx, host, p.Command)

	outcome := model.HostOutcome{Success: err == nil}
	if r != nil {
		outcome.ExitStatus = r.ExitStatus
		outcome.Output = r.Stdout
	}
	if err != nil {
		outcome.Error = err.Error()
		var exitErr *remote.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitStatus = exitErr.ExitStatus
		} else if outcome.ExitStatus == 0 {
			outcome.ExitStatus = -1
		}
		e.logger.WithContext(ctx).Warn("fleet primitive failed",
			zap.String("primitive", p.Name), zap.String("host", host),
			zap.Int("exit_status", outcome.ExitStatus), zap.Error(err))
	} else {
		e.logger.WithContext(ctx).Debug("fleet primitive done",
			zap.String("primitive", p.Name), zap.String("host", host))
	}
	e.metrics.ObserveHostCall(p.Name, outcome.Success)
	return outcome
}
