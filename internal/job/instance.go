package job

import (
	"context"
	"fmt"
	"strings"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/provision"
	"atlas/internal/queue"
	"atlas/pkg/hash"

	"go.uber.org/zap"
)

// settings 渲染实例在 status 下的 settings.php
func (j *Jobs) settings(inst *model.Instance, codes map[int64]*model.Code, status model.InstanceStatus) ([]byte, error) {
	password, err := j.database.Password(inst.DBKey)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", inst.Sid, err)
	}
	var profile string
	if c := codes[inst.Code.Profile]; c != nil {
		profile = c.Name
	}
	return fleet.RenderSettings(fleet.SettingsData{
		Sid:                 inst.Sid,
		Path:                inst.PathString(),
		Status:              status,
		Pool:                inst.Pool,
		BaseURL:             j.layout.BaseURL,
		Environment:         j.env,
		DBHost:              j.database.Host(),
		DBPort:              j.database.Port(),
		DBName:              inst.Sid,
		DBUser:              inst.Sid,
		DBPassword:          password,
		Profile:             profile,
		PageCacheMaximumAge: inst.Settings.PageCacheMaximumAge,
		SiteimproveSite:     inst.Settings.SiteimproveSite,
		SiteimproveGroup:    inst.Settings.SiteimproveGroup,
		Homepage:            inst.IsHomepage(),
	})
}

// InstanceProvision 创建数据库、目录和链接，安装 profile，完成后置为 available
func (j *Jobs) InstanceProvision(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.InstanceArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Instance provisioned: "+inst.Sid, inst)
	logger := j.jobLogger(ctx, job, zap.String("sid", inst.Sid))
	if inst.Status != model.InstanceStatusPending {
		logger.Info("instance already provisioned", zap.String("status", string(inst.Status)))
		report.Fields["skipped"] = string(inst.Status)
		return report, nil
	}
	if err := j.provision(ctx, report, inst, model.InstanceStatusAvailable); err != nil {
		return report, err
	}
	var profile string
	if inst.Code.Profile != 0 {
		c, err := j.loadCode(ctx, inst.Code.Profile)
		if err != nil {
			return report, err
		}
		profile = c.Name
	}
	if profile != "" {
		if err := j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.Install(inst, profile)); err != nil {
			return report, err
		}
	}
	ok, err := j.instances.TransitionStatus(ctx, inst.Id, model.InstanceStatusPending, model.InstanceStatusAvailable, nil)
	if err != nil {
		return report, err
	}
	if !ok {
		logger.Warn("instance left pending before provisioning finished")
	}
	return report, nil
}

// provision 数据库和主机目录，重复执行结果不变
func (j *Jobs) provision(ctx context.Context, report *queue.Report, inst *model.Instance, status model.InstanceStatus) error {
	codes, err := j.instanceCodes(ctx, inst)
	if err != nil {
		return err
	}
	// 先持久化 db_key，中途失败重跑时沿用同一密码
	if inst.DBKey == "" {
		inst.DBKey = j.crypter.Encrypt(provision.NewPassword())
		if err := j.instances.Updates(ctx, inst.Id, map[string]interface{}{"db_key": inst.DBKey}); err != nil {
			return err
		}
	}
	if err := j.database.Create(ctx, inst.Sid, inst.DBKey); err != nil {
		return err
	}
	settings, err := j.settings(inst, codes, status)
	if err != nil {
		return err
	}
	p, err := j.layout.Provision(inst, codes, settings)
	if err != nil {
		return &orchestrator.DependencyError{Missing: inst.CodeIDs()}
	}
	return j.run(ctx, report, fleet.ScopePool, inst.Pool, p)
}

// InstanceHeal 重新创建数据库和主机目录，不修改状态
func (j *Jobs) InstanceHeal(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.InstanceArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Instance healed: "+inst.Sid, inst)
	return report, j.provision(ctx, report, inst, inst.Status)
}

// InstanceUpdate 按变化内容执行计划，全部成功后才写回最终状态
func (j *Jobs) InstanceUpdate(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.InstanceUpdateArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	ch := args.Changes
	logger := j.jobLogger(ctx, job, zap.String("sid", inst.Sid))
	report := instanceReport("Instance updated: "+inst.Sid, inst)
	if ch.StatusChanged() && inst.Status != ch.To {
		return report, fmt.Errorf("instance %s is %s, expected %s", inst.Sid, inst.Status, ch.To)
	}

	codes, err := j.instanceCodes(ctx, inst)
	if err != nil {
		return report, err
	}
	changed := make([]*model.Code, 0, len(ch.CodeIDs))
	for _, id := range ch.CodeIDs {
		if c := codes[id]; c != nil {
			changed = append(changed, c)
		}
	}
	plan := orchestrator.PlanTransition(inst, ch, changed)
	if ch.StatusChanged() {
		report.Title = fmt.Sprintf("Instance %s: %s", inst.Sid, ch.To)
	}

	for _, step := range plan.Steps {
		logger.Info("instance step", zap.String("step", string(step)))
		if err := j.step(ctx, report, inst, codes, plan, step); err != nil {
			report.Fields["failed_step"] = string(step)
			return report, err
		}
	}

	if err := j.finish(ctx, inst, plan); err != nil {
		return report, err
	}
	if plan.FinalStatus != "" {
		report.Fields["status"] = string(plan.FinalStatus)
	}
	if sum, err := hash.CalculateResourceHash(inst); err == nil {
		report.Fields["config_hash"] = sum
	}
	if plan.NotifyPackages {
		names := deployedCodes(ch.CodeIDs, codes)
		report.Fields["email_subject"] = fmt.Sprintf("[%s] packages changed on %s", j.env, j.layout.URI(inst))
		report.Fields["email_body"] = fmt.Sprintf("Instance %s now includes:\n%s\n", inst.Sid,
			strings.Join(deployedCodes(inst.Code.Package, codes), "\n"))
		report.Fields["packages_added"] = strings.Join(names, ", ")
	}
	return report, nil
}

func (j *Jobs) step(ctx context.Context, report *queue.Report, inst *model.Instance, codes map[int64]*model.Code, plan *orchestrator.Plan, step orchestrator.Step) error {
	switch step {
	case orchestrator.StepCodeLinks:
		p, err := j.layout.CodeLinks(inst, codes)
		if err != nil {
			return &orchestrator.DependencyError{Missing: inst.CodeIDs()}
		}
		return j.run(ctx, report, fleet.ScopePool, inst.Pool, p)
	case orchestrator.StepWriteSettings:
		settings, err := j.settings(inst, codes, plan.SettingsStatus)
		if err != nil {
			return err
		}
		return j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.WriteSettings(inst, settings))
	case orchestrator.StepLaunch:
		return j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.Launch(inst))
	case orchestrator.StepTakeDown:
		return j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.TakeDown(inst))
	case orchestrator.StepRestore:
		return j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.Restore(inst))
	case orchestrator.StepHomepageFiles:
		return j.updateHomepageFiles(ctx, report)
	case orchestrator.StepPHPCacheClear:
		return j.run(ctx, report, fleet.ScopeFleet, "", j.layout.PHPCacheClear())
	case orchestrator.StepRegistryRebuild:
		return j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.RegistryRebuild(inst))
	case orchestrator.StepUpdateDatabase:
		return j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.UpdateDatabase(inst))
	case orchestrator.StepCacheClear:
		return j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.CacheClear(inst))
	}
	return fmt.Errorf("unknown step %q", step)
}

// finish 最终状态按当前的过渡状态做 CAS，期间被改动则失败
func (j *Jobs) finish(ctx context.Context, inst *model.Instance, plan *orchestrator.Plan) error {
	return j.tm.Transaction(ctx, func(ctx context.Context) error {
		if plan.FinalStatus != "" {
			now := j.now()
			fields := map[string]interface{}{}
			switch plan.FinalStatus {
			case model.InstanceStatusLaunched:
				fields["dates_launched"] = now
			case model.InstanceStatusDown:
				fields["dates_taken_down"] = now
			}
			if plan.AssignUpdateGroup {
				group := orchestrator.UpdateGroup(inst, j.intn)
				fields["update_group"] = group
				inst.UpdateGroup = group
			}
			ok, err := j.instances.TransitionStatus(ctx, inst.Id, inst.Status, plan.FinalStatus, fields)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("instance %s left %s while updating", inst.Sid, inst.Status)
			}
			inst.Status = plan.FinalStatus
		}
		if plan.DeleteStatistics {
			if _, err := j.statistics.DeleteByInstance(ctx, inst.Id); err != nil {
				return err
			}
		}
		return nil
	})
}

// InstanceRemove 数据库删除失败只记录日志，继续清理主机
func (j *Jobs) InstanceRemove(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.InstanceRemoveArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst := &args.Instance
	report := instanceReport("Instance removed: "+inst.Sid, inst)
	logger := j.jobLogger(ctx, job, zap.String("sid", inst.Sid))
	if _, err := j.statistics.DeleteByInstance(ctx, inst.Id); err != nil {
		return report, err
	}
	if err := j.database.Drop(ctx, inst.Sid); err != nil {
		logger.Error("drop instance database failed", zap.Error(err))
		report.Fields["database"] = err.Error()
	}
	return report, j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.Remove(inst))
}
