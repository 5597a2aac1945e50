package orchestrator

import (
	"context"
	"regexp"
	"strings"

	"atlas/internal/model"

	"go.uber.org/zap"
)

// source 会成为实例 path，在主机上拼进 web root，每段只允许字母数字开头，不允许 "." 和 ".."
var sourceRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~-]*(/[A-Za-z0-9][A-Za-z0-9._~-]*)*$`)

func validateRoute(r *model.Route) error {
	if !r.RouteType.Valid() {
		return invalid("route_type %q", r.RouteType)
	}
	if r.RouteStatus == "" {
		r.RouteStatus = model.RouteStatusInactive
	}
	if r.RouteStatus != model.RouteStatusActive && r.RouteStatus != model.RouteStatusInactive {
		return invalid("route_status %q", r.RouteStatus)
	}
	r.Source = strings.Trim(strings.TrimSpace(r.Source), "/")
	if r.Source == "" {
		return invalid("source is required")
	}
	if !sourceRe.MatchString(r.Source) {
		return invalid("source %q is not a valid path", r.Source)
	}
	if r.ResponseCode == 0 {
		r.ResponseCode = 301
	}
	if !model.ValidResponseCode(r.ResponseCode) {
		return invalid("response_code %d", r.ResponseCode)
	}
	if r.RouteType == model.RouteTypeRedirect && r.Destination == "" {
		return invalid("redirect route requires destination")
	}
	return nil
}

// CreateRoute 创建路由；激活的 pool-express 路由会把 installed 实例绑定为主路由并进入 launching
func (o *Orchestrator) CreateRoute(ctx context.Context, r *model.Route) error {
	if err := validateRoute(r); err != nil {
		return err
	}
	existing, err := o.routes.GetBySource(ctx, r.Source)
	if err != nil {
		return err
	}
	if existing != nil {
		return conflict("route", r.Source, "source already routed by route %d", existing.Id)
	}
	r.Creator = actorOf(ctx)
	r.Modifier = r.Creator

	var launched *model.Instance
	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := o.routes.Create(ctx, r); err != nil {
			return err
		}
		inst, err := o.bind(ctx, r)
		if err != nil {
			return err
		}
		launched = inst
		if r.SiteID != nil {
			return o.sites.AppendRoute(ctx, *r.SiteID, r.Id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return o.publish(ctx, &RouteEvent{Action: ActionCreated, Route: r, Launched: launched})
}

// UpdateRoute source 不可修改；激活时尝试绑定，停用时只清除主路由，不改变实例状态
func (o *Orchestrator) UpdateRoute(ctx context.Context, r *model.Route) error {
	orig, err := o.routes.GetByID(ctx, r.Id)
	if err != nil {
		return err
	}
	if orig == nil {
		return ErrNotFound
	}
	if err := validateRoute(r); err != nil {
		return err
	}
	if r.Source != orig.Source {
		return invalid("source is immutable")
	}
	r.Creator = orig.Creator
	r.CreateTime = orig.CreateTime
	r.Modifier = actorOf(ctx)

	activated := r.Binds() && (!orig.Binds() || !sameInstance(orig.InstanceID, r.InstanceID))
	unbound := orig.Binds() && !activated && !r.Binds()

	var launched *model.Instance
	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		if unbound || (orig.Binds() && activated) {
			n, err := o.instances.ClearPrimaryRoute(ctx, r.Id)
			if err != nil {
				return err
			}
			if n > 0 {
				o.logger.WithContext(ctx).Info("primary route cleared", zap.Int64("route_id", r.Id))
			}
		}
		if err := o.routes.Update(ctx, r); err != nil {
			return err
		}
		if activated {
			inst, err := o.bind(ctx, r)
			if err != nil {
				return err
			}
			launched = inst
		}
		if r.SiteID != nil {
			return o.sites.AppendRoute(ctx, *r.SiteID, r.Id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return o.publish(ctx, &RouteEvent{Action: ActionUpdated, Route: r, Original: orig, Launched: launched})
}

// bind 返回被切换为 launching 的实例；实例不是 installed 时只记录路由
func (o *Orchestrator) bind(ctx context.Context, r *model.Route) (*model.Instance, error) {
	if !r.Binds() {
		return nil, nil
	}
	inst, err := o.instances.GetByID(ctx, *r.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, invalid("instance %d does not exist", *r.InstanceID)
	}
	if inst.Routes.PrimaryRoute != nil && *inst.Routes.PrimaryRoute != r.Id {
		return nil, conflict("route", r.Source, "instance %s already has primary route %d", inst.Sid, *inst.Routes.PrimaryRoute)
	}
	if inst.Status != model.InstanceStatusInstalled {
		return nil, nil
	}
	if other, err := o.instances.GetByPath(ctx, r.Source); err != nil {
		return nil, err
	} else if other != nil && other.Id != inst.Id {
		return nil, conflict("route", r.Source, "path is used by instance %s", other.Sid)
	}
	ok, err := o.instances.BindPrimaryRoute(ctx, inst.Id, r.Id, r.Source)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflict("route", r.Source, "instance %s changed concurrently", inst.Sid)
	}
	path := r.Source
	inst.Status = model.InstanceStatusLaunching
	inst.Path = &path
	inst.Routes.PrimaryRoute = &r.Id
	return inst, nil
}

func (o *Orchestrator) publishLaunch(ctx context.Context, inst *model.Instance) error {
	if inst == nil {
		return nil
	}
	return o.publish(ctx, &InstanceEvent{
		Action:   ActionUpdated,
		Instance: inst,
		Changes:  InstanceChanges{From: model.InstanceStatusInstalled, To: model.InstanceStatusLaunching},
	})
}

// DeleteRoute launched/launching 实例的主路由不允许删除
func (o *Orchestrator) DeleteRoute(ctx context.Context, id int64) error {
	r, err := o.routes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return ErrNotFound
	}
	if r.InstanceID != nil {
		inst, err := o.instances.GetByID(ctx, *r.InstanceID)
		if err != nil {
			return err
		}
		if inst != nil && inst.Routes.PrimaryRoute != nil && *inst.Routes.PrimaryRoute == r.Id &&
			(inst.Status == model.InstanceStatusLaunched || inst.Status == model.InstanceStatusLaunching) {
			return conflict("route", r.Source, "primary route of %s instance %s", inst.Status, inst.Sid)
		}
	}
	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		if _, err := o.instances.ClearPrimaryRoute(ctx, id); err != nil {
			return err
		}
		if err := o.routes.Delete(ctx, id); err != nil {
			return err
		}
		if r.SiteID != nil {
			return o.sites.RemoveRoute(ctx, *r.SiteID, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return o.publish(ctx, &RouteEvent{Action: ActionDeleted, Route: r})
}

// onRouteBound 路由绑定了 installed 实例时发布实例的 launching 变更
func (o *Orchestrator) onRouteBound(ctx context.Context, e Event) error {
	return o.publishLaunch(ctx, e.(*RouteEvent).Launched)
}

func (o *Orchestrator) onRouteDeleted(ctx context.Context, e Event) error {
	ev := e.(*RouteEvent)
	o.logger.WithContext(ctx).Info("route deleted", zap.Int64("route_id", ev.Route.Id), zap.String("source", ev.Route.Source))
	return nil
}

func sameInstance(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
