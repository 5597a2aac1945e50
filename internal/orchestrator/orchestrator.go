package orchestrator

import (
	"context"
	"fmt"
	"time"

	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/pkg/log"
	"atlas/pkg/sid"

	"github.com/duke-git/lancet/v2/random"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Orchestrator 在实体写入路径上做同步校验，写入成功后发布事件并提交任务
// 自身不保存状态，每次决策都重新读取记录
type Orchestrator struct {
	logger     *log.Logger
	tm         repository.Transaction
	codes      repository.CodeRepository
	instances  repository.InstanceRepository
	routes     repository.RouteRepository
	sites      repository.SiteRepository
	statistics repository.StatisticsRepository
	queue      queue.Client
	resolver   *Resolver
	dispatcher *Dispatcher
	sid        *sid.Sid

	defaultCore    string
	defaultProfile string
	now            func() time.Time
	intn           func(n int) int
}

func NewOrchestrator(
	conf *viper.Viper,
	logger *log.Logger,
	tm repository.Transaction,
	codes repository.CodeRepository,
	instances repository.InstanceRepository,
	routes repository.RouteRepository,
	sites repository.SiteRepository,
	statistics repository.StatisticsRepository,
	q queue.Client,
	sid *sid.Sid,
) *Orchestrator {
	o := &Orchestrator{
		logger:         logger,
		tm:             tm,
		codes:          codes,
		instances:      instances,
		routes:         routes,
		sites:          sites,
		statistics:     statistics,
		queue:          q,
		resolver:       NewResolver(codes),
		dispatcher:     NewDispatcher(),
		sid:            sid,
		defaultCore:    conf.GetString("platform.default_core"),
		defaultProfile: conf.GetString("platform.default_profile"),
		now:            time.Now,
		intn:           func(n int) int { return random.RandInt(0, n) },
	}
	o.register()
	return o
}

func (o *Orchestrator) Resolver() *Resolver {
	return o.resolver
}

func (o *Orchestrator) Dispatcher() *Dispatcher {
	return o.dispatcher
}

// register 事件分发表
func (o *Orchestrator) register() {
	d := o.dispatcher
	d.On(EventKey{EntityCode, ActionCreated}, o.onCodeCreated)
	d.On(EventKey{EntityCode, ActionUpdated}, o.onCodeUpdated)
	d.On(EventKey{EntityCode, ActionDeleted}, o.onCodeDeleted)
	d.On(EventKey{EntityInstance, ActionCreated}, o.onInstanceCreated)
	d.On(EventKey{EntityInstance, ActionUpdated}, o.onInstanceUpdated)
	d.On(EventKey{EntityInstance, ActionDeleted}, o.onInstanceDeleted)
	d.On(EventKey{EntityRoute, ActionCreated}, o.onRouteBound)
	d.On(EventKey{EntityRoute, ActionUpdated}, o.onRouteBound)
	d.On(EventKey{EntityRoute, ActionDeleted}, o.onRouteDeleted)
	d.On(EventKey{EntitySite, ActionDeleted}, o.onSiteDeleted)
}

func (o *Orchestrator) publish(ctx context.Context, e Event) error {
	if err := o.dispatcher.Publish(ctx, e); err != nil {
		key := e.Key()
		o.logger.WithContext(ctx).Error("event dispatch failed",
			zap.String("entity", string(key.Entity)), zap.String("action", string(key.Action)), zap.Error(err))
		return err
	}
	return nil
}

func (o *Orchestrator) submit(ctx context.Context, name string, args interface{}, opts ...queue.Option) error {
	if _, err := o.queue.Submit(ctx, name, args, opts...); err != nil {
		return fmt.Errorf("submit %s: %w", name, err)
	}
	return nil
}

func (o *Orchestrator) onCodeCreated(ctx context.Context, e Event) error {
	ev := e.(*CodeEvent)
	return o.submit(ctx, JobCodeDeploy, CodeArgs{CodeID: ev.Code.Id})
}

// onCodeUpdated 只有影响检出内容或 current 链接的字段变化才重新部署
func (o *Orchestrator) onCodeUpdated(ctx context.Context, e Event) error {
	ev := e.(*CodeEvent)
	c, orig := ev.Code, ev.Original
	if orig != nil && c.GitURL == orig.GitURL && c.CommitHash == orig.CommitHash &&
		c.Name == orig.Name && c.Version == orig.Version && c.CodeType == orig.CodeType &&
		c.IsCurrent == orig.IsCurrent {
		return nil
	}
	args := CodeUpdateArgs{CodeID: c.Id}
	if orig != nil {
		args.Original = *orig
	}
	return o.submit(ctx, JobCodeUpdate, args)
}

func (o *Orchestrator) onCodeDeleted(ctx context.Context, e Event) error {
	ev := e.(*CodeEvent)
	return o.submit(ctx, JobCodeRemove, CodeRemoveArgs{Code: *ev.Code})
}

func (o *Orchestrator) onInstanceCreated(ctx context.Context, e Event) error {
	ev := e.(*InstanceEvent)
	return o.submit(ctx, JobInstanceProvision, InstanceArgs{InstanceID: ev.Instance.Id})
}

func (o *Orchestrator) onInstanceUpdated(ctx context.Context, e Event) error {
	ev := e.(*InstanceEvent)
	if ev.Changes.Empty() {
		return nil
	}
	return o.submit(ctx, JobInstanceUpdate, InstanceUpdateArgs{InstanceID: ev.Instance.Id, Changes: ev.Changes})
}

func (o *Orchestrator) onInstanceDeleted(ctx context.Context, e Event) error {
	ev := e.(*InstanceEvent)
	return o.submit(ctx, JobInstanceRemove, InstanceRemoveArgs{Instance: *ev.Instance})
}

// onSiteDeleted 站点删除后，其实例的统计记录随之软删除
func (o *Orchestrator) onSiteDeleted(ctx context.Context, e Event) error {
	ev := e.(*SiteEvent)
	insts, err := o.instances.ListBySite(ctx, ev.Site.Id)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(insts)+len(ev.Site.Instances))
	for _, inst := range insts {
		ids = append(ids, inst.Id)
	}
	ids = append(ids, ev.Site.Instances...)
	if len(ids) == 0 {
		return nil
	}
	n, err := o.statistics.DeleteByInstance(ctx, uniq(ids)...)
	if err != nil {
		return err
	}
	o.logger.WithContext(ctx).Info("site statistics removed", zap.Int64("site_id", ev.Site.Id), zap.Int64("count", n))
	return nil
}

// DeleteSite 删除站点并清理统计
func (o *Orchestrator) DeleteSite(ctx context.Context, id int64) error {
	site, err := o.sites.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if site == nil {
		return ErrNotFound
	}
	if err := o.sites.Delete(ctx, id); err != nil {
		return err
	}
	return o.publish(ctx, &SiteEvent{Action: ActionDeleted, Site: site})
}

func actorOf(ctx context.Context) string {
	return queue.ActorFromContext(ctx)
}
