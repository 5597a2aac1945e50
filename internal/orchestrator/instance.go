package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"atlas/internal/model"
)

// InstancePatch 部分更新，nil 字段不修改
type InstancePatch struct {
	Status      *model.InstanceStatus
	Core        *int64
	Profile     *int64
	Package     *[]int64
	Settings    *model.InstanceSettings
	SiteID      *int64
	UpdateGroup *int
	Tag         *[]string
}

// CreateInstance 生成 sid，补齐默认 core/profile，并创建配套的统计记录
func (o *Orchestrator) CreateInstance(ctx context.Context, inst *model.Instance) error {
	if inst.Type == "" {
		inst.Type = model.InstanceTypeExpress
	}
	if !inst.Type.Valid() {
		return invalid("type %q", inst.Type)
	}
	if inst.Pool == "" {
		inst.Pool = model.PoolExpress
	}
	if !model.ValidPool(inst.Pool) {
		return invalid("pool %q", inst.Pool)
	}
	if inst.Sid == "" {
		s, err := o.sid.GenString()
		if err != nil {
			return err
		}
		inst.Sid = s
	}
	if len(inst.Sid) < 9 || len(inst.Sid) > 14 {
		return invalid("sid must be 9-14 characters")
	}
	inst.Status = model.InstanceStatusPending
	inst.Path = nil
	inst.Routes = model.InstanceRoutes{}
	inst.DBKey = ""
	if inst.Settings.PageCacheMaximumAge == 0 {
		inst.Settings.PageCacheMaximumAge = 3600
	}

	if inst.Code.Core == 0 {
		id, err := o.currentID(ctx, o.defaultCore, model.CodeTypeCore)
		if err != nil {
			return err
		}
		inst.Code.Core = id
	}
	if inst.Code.Profile == 0 && o.defaultProfile != "" {
		id, err := o.currentID(ctx, o.defaultProfile, model.CodeTypeProfile)
		if err != nil {
			return err
		}
		inst.Code.Profile = id
	}
	if err := o.checkCodeType(ctx, inst.Code.Core, model.CodeTypeCore); err != nil {
		return err
	}
	if inst.Code.Profile != 0 {
		if err := o.checkCodeType(ctx, inst.Code.Profile, model.CodeTypeProfile); err != nil {
			return err
		}
	}
	packages, err := o.resolvePackages(ctx, inst.Code.Package)
	if err != nil {
		return err
	}
	inst.Code.Package = packages

	now := o.now()
	inst.Dates = model.InstanceDates{Created: &now}
	inst.Creator = actorOf(ctx)
	inst.Modifier = inst.Creator

	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := o.instances.Create(ctx, inst); err != nil {
			return err
		}
		stats := &model.Statistics{InstanceID: inst.Id, Creator: inst.Creator, Modifier: inst.Creator}
		if err := o.statistics.Create(ctx, stats); err != nil {
			return err
		}
		inst.StatisticsID = &stats.Id
		return o.instances.Updates(ctx, inst.Id, map[string]interface{}{"statistics_id": stats.Id})
	})
	if err != nil {
		return err
	}
	return o.publish(ctx, &InstanceEvent{Action: ActionCreated, Instance: inst})
}

func (o *Orchestrator) currentID(ctx context.Context, name string, t model.CodeType) (int64, error) {
	if name == "" {
		return 0, invalid("code.%s is required", t)
	}
	current, err := o.codes.ListCurrent(ctx, name, t)
	if err != nil {
		return 0, err
	}
	if len(current) == 0 {
		return 0, invalid("no current %s named %s", t, name)
	}
	return current[0].Id, nil
}

func (o *Orchestrator) checkCodeType(ctx context.Context, id int64, t model.CodeType) error {
	c, err := o.codes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return &DependencyError{Missing: []int64{id}}
	}
	if c.CodeType != t {
		return invalid("code %d is a %s, not a %s", id, c.CodeType, t)
	}
	return nil
}

// resolvePackages 返回依赖闭包，闭包中只能是 module/theme/library
func (o *Orchestrator) resolvePackages(ctx context.Context, packages []int64) ([]int64, error) {
	if len(packages) == 0 {
		return []int64{}, nil
	}
	closure, err := o.resolver.Resolve(ctx, packages)
	if err != nil {
		return nil, err
	}
	codes, err := o.codes.GetByIDs(ctx, closure)
	if err != nil {
		return nil, err
	}
	for _, id := range closure {
		if c := codes[id]; c != nil && !c.CodeType.IsPackage() {
			return nil, invalid("code %d is a %s and cannot be a package", id, c.CodeType)
		}
	}
	return closure, nil
}

// UpdateInstance 校验状态变更和 code 引用，写入后按变化内容提交 instance_update
func (o *Orchestrator) UpdateInstance(ctx context.Context, id int64, patch InstancePatch) (*model.Instance, error) {
	inst, err := o.instances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrNotFound
	}
	ch, err := o.applyPatch(ctx, inst, patch)
	if err != nil {
		return nil, err
	}
	inst.Modifier = actorOf(ctx)

	err = o.tm.Transaction(ctx, func(ctx context.Context) error {
		if ch.StatusChanged() {
			ok, err := o.instances.TransitionStatus(ctx, inst.Id, ch.From, ch.To, nil)
			if err != nil {
				return err
			}
			if !ok {
				return conflict("instance", inst.Sid, "status is no longer %s", ch.From)
			}
		}
		return o.instances.Update(ctx, inst)
	})
	if err != nil {
		return nil, err
	}
	if err := o.publish(ctx, &InstanceEvent{Action: ActionUpdated, Instance: inst, Changes: ch}); err != nil {
		return inst, err
	}
	return inst, nil
}

func (o *Orchestrator) applyPatch(ctx context.Context, inst *model.Instance, p InstancePatch) (InstanceChanges, error) {
	var ch InstanceChanges
	now := o.now()

	if p.Status != nil && *p.Status != inst.Status {
		if err := ValidateTransition(inst.Status, *p.Status); err != nil {
			return ch, err
		}
		ch.From, ch.To = inst.Status, *p.Status
		if ch.To == model.InstanceStatusLaunching && inst.Routes.PrimaryRoute == nil && !inst.IsHomepage() {
			return ch, conflict("instance", inst.Sid, "launching requires a primary route")
		}
		inst.Status = ch.To
		switch ch.To {
		case model.InstanceStatusInstalling:
			inst.Dates.Assigned = &now
		case model.InstanceStatusLocked:
			inst.Dates.Locked = &now
		}
	}
	if p.Core != nil && *p.Core != inst.Code.Core {
		if err := o.checkCodeType(ctx, *p.Core, model.CodeTypeCore); err != nil {
			return ch, err
		}
		inst.Code.Core = *p.Core
		ch.Core = true
		ch.CodeIDs = append(ch.CodeIDs, *p.Core)
	}
	if p.Profile != nil && *p.Profile != inst.Code.Profile {
		if *p.Profile != 0 {
			if err := o.checkCodeType(ctx, *p.Profile, model.CodeTypeProfile); err != nil {
				return ch, err
			}
			ch.CodeIDs = append(ch.CodeIDs, *p.Profile)
		}
		inst.Code.Profile = *p.Profile
		ch.Profile = true
	}
	if p.Package != nil {
		closure, err := o.resolvePackages(ctx, *p.Package)
		if err != nil {
			return ch, err
		}
		old := append([]int64(nil), inst.Code.Package...)
		slices.Sort(old)
		if !slices.Equal(old, closure) {
			for _, id := range closure {
				if !slices.Contains(old, id) {
					ch.CodeIDs = append(ch.CodeIDs, id)
				}
			}
			inst.Code.Package = closure
			ch.Package = true
		}
	}
	if p.Settings != nil && *p.Settings != inst.Settings {
		inst.Settings = *p.Settings
		ch.Settings = true
	}
	if p.SiteID != nil {
		inst.SiteID = p.SiteID
	}
	if p.UpdateGroup != nil {
		if *p.UpdateGroup < 0 || *p.UpdateGroup > HomepageUpdateGroup {
			return ch, invalid("update_group must be within 0-%d", HomepageUpdateGroup)
		}
		inst.UpdateGroup = *p.UpdateGroup
	}
	if p.Tag != nil {
		inst.Tag = *p.Tag
	}
	return ch, nil
}

// DeleteInstance 软删除实例，并以快照提交 instance_remove
func (o *Orchestrator) DeleteInstance(ctx context.Context, id int64) error {
	inst, err := o.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inst == nil {
		return ErrNotFound
	}
	if inst.Routes.PrimaryRoute != nil &&
		(inst.Status == model.InstanceStatusLaunched || inst.Status == model.InstanceStatusLaunching) {
		return conflict("instance", inst.Sid, "launched instance must be taken down before removal")
	}
	return o.remove(ctx, inst)
}

// RetireInstance 不检查状态直接删除，用于非生产环境清理旧实例
func (o *Orchestrator) RetireInstance(ctx context.Context, id int64) error {
	inst, err := o.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inst == nil {
		return ErrNotFound
	}
	return o.remove(ctx, inst)
}

func (o *Orchestrator) remove(ctx context.Context, inst *model.Instance) error {
	if err := o.instances.Delete(ctx, inst.Id); err != nil {
		return fmt.Errorf("delete instance %s: %w", inst.Sid, err)
	}
	return o.publish(ctx, &InstanceEvent{Action: ActionDeleted, Instance: inst})
}
