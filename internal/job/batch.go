package job

import (
	"context"
	"fmt"
	"slices"
	"time"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/internal/repository"

	"go.uber.org/zap"
)

// cron 默认跳过的状态
var cronSkipped = []string{
	string(model.InstanceStatusPending),
	string(model.InstanceStatusTakeDown),
	string(model.InstanceStatusDown),
	string(model.InstanceStatusRestore),
}

// listAll 翻页读取全部匹配的实例
func (j *Jobs) listAll(ctx context.Context, q repository.Query) ([]*model.Instance, error) {
	q.PageSize = repository.MaxPageSize
	var all []*model.Instance
	for page := 1; ; page++ {
		q.Page = page
		items, total, err := j.instances.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < q.PageSize || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// Cron 为选中的实例逐个提交 cron_run，按 update_group 错开执行时间
func (j *Jobs) Cron(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CronArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	q := repository.Query{}
	if args.Status != "" {
		q = q.Where("status", model.OpEq, string(args.Status))
	} else {
		q = q.Where("status", model.OpNin, cronSkipped)
	}
	if args.Type != "" {
		q = q.Where("type", model.OpEq, string(args.Type))
	}
	for _, id := range args.IncludePackages {
		q = q.Where("code.package", model.OpContains, id)
	}
	insts, err := j.listAll(ctx, q)
	if err != nil {
		return nil, err
	}
	insts = slices.DeleteFunc(insts, func(inst *model.Instance) bool {
		for _, id := range args.ExcludePackages {
			if slices.Contains(inst.Code.Package, id) {
				return true
			}
		}
		return false
	})

	for i, inst := range insts {
		delay := time.Duration(inst.UpdateGroup) * j.cronStagger
		_, err := j.queue.Submit(ctx, orchestrator.JobCronRun, orchestrator.CronRunArgs{
			InstanceID: inst.Id,
			BatchArgs:  orchestrator.BatchArgs{BatchID: job.ID, Count: i + 1, Total: len(insts)},
		}, queue.WithDelay(delay))
		if err != nil {
			return nil, err
		}
	}
	j.jobLogger(ctx, job).Info("cron batch submitted", zap.Int("instances", len(insts)))
	return &queue.Report{
		Title:  fmt.Sprintf("Cron batch: %d instances", len(insts)),
		Fields: map[string]string{"batch_id": job.ID, "total": fmt.Sprint(len(insts))},
	}, nil
}

func (j *Jobs) CronRun(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CronRunArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Cron: "+inst.Sid, inst)
	report.Fields["batch"] = fmt.Sprintf("%d of %d", args.Count, args.Total)
	return report, j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.Cron(inst))
}

// CommandPrepare 用保存的查询条件选出实例，逐个提交 command_run
func (j *Jobs) CommandPrepare(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CommandPrepareArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	cmd, err := j.commands.GetByID(ctx, args.CommandID)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, fmt.Errorf("command %d: %w", args.CommandID, orchestrator.ErrNotFound)
	}
	insts, err := j.listAll(ctx, repository.Query{Filters: cmd.Query})
	if err != nil {
		return nil, err
	}
	for i, inst := range insts {
		_, err := j.queue.Submit(ctx, orchestrator.JobCommandRun, orchestrator.CommandRunArgs{
			InstanceID:   inst.Id,
			Commands:     cmd.Commands,
			SingleServer: cmd.SingleServer,
			BatchArgs:    orchestrator.BatchArgs{BatchID: job.ID, Count: i + 1, Total: len(insts)},
		})
		if err != nil {
			return nil, err
		}
	}
	j.jobLogger(ctx, job).Info("command batch submitted",
		zap.String("command", cmd.Name), zap.Int("instances", len(insts)))
	return &queue.Report{
		Title:    fmt.Sprintf("Command %s: %d instances", cmd.Name, len(insts)),
		Entity:   "command",
		EntityID: fmt.Sprint(cmd.Id),
		Fields:   map[string]string{"batch_id": job.ID, "total": fmt.Sprint(len(insts))},
	}, nil
}

func (j *Jobs) CommandRun(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CommandRunArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Command: "+inst.Sid, inst)
	if args.Total > 0 {
		report.Fields["batch"] = fmt.Sprintf("%d of %d", args.Count, args.Total)
	}
	scope := fleet.ScopePool
	if args.SingleServer {
		scope = fleet.ScopeSingle
	}
	return report, j.run(ctx, report, scope, inst.Pool, j.layout.Command(inst, args.Commands))
}

func (j *Jobs) ClearPHPCache(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	report := &queue.Report{Title: "PHP cache cleared", Fields: map[string]string{}}
	return report, j.run(ctx, report, fleet.ScopeFleet, "", j.layout.PHPCacheClear())
}

func (j *Jobs) UpdateHomepageFiles(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	report := &queue.Report{Title: "Homepage files updated", Fields: map[string]string{}}
	return report, j.updateHomepageFiles(ctx, report)
}

// updateHomepageFiles 首页文件只部署在 homepage pool，与实例所在 pool 无关
func (j *Jobs) updateHomepageFiles(ctx context.Context, report *queue.Report) error {
	return j.run(ctx, report, fleet.ScopePool, model.PoolHomepage, j.layout.UpdateHomepageFiles())
}

// UpdateSettingsFile 未指定实例时为所有已安装的实例各提交一个任务
func (j *Jobs) UpdateSettingsFile(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.UpdateSettingsArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	if args.InstanceID == 0 {
		insts, err := j.instances.ListByStatus(ctx, model.InstanceStatusInstalled,
			model.InstanceStatusLaunched, model.InstanceStatusLocked)
		if err != nil {
			return nil, err
		}
		for i, inst := range insts {
			_, err := j.queue.Submit(ctx, orchestrator.JobUpdateSettingsFile, orchestrator.UpdateSettingsArgs{
				InstanceID: inst.Id,
				BatchArgs:  orchestrator.BatchArgs{BatchID: job.ID, Count: i + 1, Total: len(insts)},
			})
			if err != nil {
				return nil, err
			}
		}
		return &queue.Report{
			Title:  fmt.Sprintf("Settings batch: %d instances", len(insts)),
			Fields: map[string]string{"batch_id": job.ID},
		}, nil
	}

	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Settings updated: "+inst.Sid, inst)
	codes, err := j.instanceCodes(ctx, inst)
	if err != nil {
		return report, err
	}
	settings, err := j.settings(inst, codes, inst.Status)
	if err != nil {
		return report, err
	}
	if err := j.run(ctx, report, fleet.ScopePool, inst.Pool, j.layout.WriteSettings(inst, settings)); err != nil {
		return report, err
	}
	return report, j.run(ctx, report, fleet.ScopeFleet, "", j.layout.PHPCacheClear())
}
