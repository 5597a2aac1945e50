package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"go.uber.org/zap"
)

const (
	StuckPendingAge     = 20 * time.Minute
	BackupRetention     = 90 * 24 * time.Hour
	MaxBackupsPerSite   = 5
	OldInstanceAge      = 35 * 24 * time.Hour
	UnusedCodeAge       = 90 * 24 * time.Hour
	StatisticsStaleness = 36 * time.Hour
)

// SweepFunc 返回处理的记录数，重复执行结果不变
type SweepFunc func(ctx context.Context) (int, error)

func (j *Jobs) Sweepers() map[string]SweepFunc {
	return map[string]SweepFunc{
		orchestrator.JobDeleteStuckPending:      j.DeleteStuckPending,
		orchestrator.JobAvailableInstancesCheck: j.AvailableInstancesCheck,
		orchestrator.JobDeleteAllAvailable:      j.DeleteAllAvailable,
		orchestrator.JobRemoveUnusedCode:        j.RemoveUnusedCode,
		orchestrator.JobRemoveOrphanStatistics:  j.RemoveOrphanStatistics,
		orchestrator.JobTakeDownOldInstances:    j.TakeDownOldInstances,
		orchestrator.JobVerifyStatistics:        j.VerifyStatistics,
		orchestrator.JobRemoveOldBackups:        j.RemoveOldBackups,
		orchestrator.JobRemoveExtraBackups:      j.RemoveExtraBackups,
		orchestrator.JobRebalanceUpdateGroups:   j.RebalanceUpdateGroups,
	}
}

func sweeperHandler(name string, fn SweepFunc) queue.HandlerFunc {
	return func(ctx context.Context, job *queue.Job) (*queue.Report, error) {
		n, err := fn(ctx)
		return &queue.Report{
			Title:  fmt.Sprintf("Sweeper %s: %d items", name, n),
			Fields: map[string]string{"items": fmt.Sprint(n)},
		}, err
	}
}

func (j *Jobs) swept(ctx context.Context, name string, n int) {
	j.metrics.AddSweeperItems(name, n)
	if n > 0 {
		j.logger.WithContext(ctx).Info("sweeper finished", zap.String("sweeper", name), zap.Int("items", n))
	}
}

// deleteInstances 单个失败不影响其余实例
func (j *Jobs) deleteInstances(ctx context.Context, insts []*model.Instance, del func(context.Context, int64) error) (int, error) {
	var (
		n    int
		errs []error
	)
	for _, inst := range insts {
		if err := del(ctx, inst.Id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inst.Sid, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// DeleteStuckPending pending 超过 20 分钟的实例视为初始化失败
func (j *Jobs) DeleteStuckPending(ctx context.Context) (int, error) {
	insts, err := j.instances.ListCreatedBefore(ctx, j.now().Add(-StuckPendingAge), model.InstanceStatusPending)
	if err != nil {
		return 0, err
	}
	n, err := j.deleteInstances(ctx, insts, j.orch.DeleteInstance)
	j.swept(ctx, orchestrator.JobDeleteStuckPending, n)
	return n, err
}

// AvailableInstancesCheck available 和 pending 合计不足时补齐
func (j *Jobs) AvailableInstancesCheck(ctx context.Context) (int, error) {
	count, err := j.instances.CountByStatus(ctx, model.InstanceStatusAvailable, model.InstanceStatusPending)
	if err != nil {
		return 0, err
	}
	var n int
	for i := count; i < int64(j.desiredAvailable); i++ {
		if err := j.orch.CreateInstance(ctx, &model.Instance{}); err != nil {
			return n, err
		}
		n++
	}
	j.swept(ctx, orchestrator.JobAvailableInstancesCheck, n)
	return n, nil
}

func (j *Jobs) DeleteAllAvailable(ctx context.Context) (int, error) {
	insts, err := j.instances.ListByStatus(ctx, model.InstanceStatusAvailable)
	if err != nil {
		return 0, err
	}
	n, err := j.deleteInstances(ctx, insts, j.orch.DeleteInstance)
	j.swept(ctx, orchestrator.JobDeleteAllAvailable, n)
	return n, err
}

// RemoveUnusedCode 仍被引用的 code 由删除校验拒绝，跳过即可
func (j *Jobs) RemoveUnusedCode(ctx context.Context) (int, error) {
	codes, err := j.codes.ListNotCurrentBefore(ctx, j.now().Add(-UnusedCodeAge))
	if err != nil {
		return 0, err
	}
	var n int
	for _, c := range codes {
		err := j.orch.DeleteCode(ctx, c.Id)
		var conflictErr *orchestrator.ConflictError
		if errors.As(err, &conflictErr) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	j.swept(ctx, orchestrator.JobRemoveUnusedCode, n)
	return n, nil
}

func (j *Jobs) RemoveOrphanStatistics(ctx context.Context) (int, error) {
	orphans, err := j.statistics.ListOrphans(ctx)
	if err != nil {
		return 0, err
	}
	for i, s := range orphans {
		if err := j.statistics.Delete(ctx, s.Id); err != nil {
			return i, err
		}
	}
	j.swept(ctx, orchestrator.JobRemoveOrphanStatistics, len(orphans))
	return len(orphans), nil
}

// TakeDownOldInstances 仅非生产环境，超过 35 天的实例不论状态一律删除
func (j *Jobs) TakeDownOldInstances(ctx context.Context) (int, error) {
	if j.env == "prod" {
		return 0, nil
	}
	insts, err := j.instances.ListCreatedBefore(ctx, j.now().Add(-OldInstanceAge))
	if err != nil {
		return 0, err
	}
	n, err := j.deleteInstances(ctx, insts, j.orch.RetireInstance)
	j.swept(ctx, orchestrator.JobTakeDownOldInstances, n)
	return n, err
}

// VerifyStatistics 超过 36 小时未更新的统计发一条汇总通知
func (j *Jobs) VerifyStatistics(ctx context.Context) (int, error) {
	stale, err := j.statistics.ListUpdatedBefore(ctx, j.now().Add(-StatisticsStaleness))
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(stale))
	for _, s := range stale {
		ids = append(ids, s.InstanceID)
	}
	insts, err := j.instances.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	sids := make([]string, 0, len(insts))
	for _, inst := range insts {
		sids = append(sids, inst.Sid)
	}
	sort.Strings(sids)
	j.notifier.Notify(ctx, &notify.Outcome{
		Title:   "Statistics not updated",
		Success: false,
		Job:     orchestrator.JobVerifyStatistics,
		Entity:  "statistics",
		Fields:  map[string]string{"sids": strings.Join(sids, ", ")},
		Error:   fmt.Sprintf("%d statistics records older than %s", len(stale), StatisticsStaleness),
		Time:    j.now(),
	})
	j.swept(ctx, orchestrator.JobVerifyStatistics, len(stale))
	return len(stale), nil
}

// RemoveOldBackups 严格早于 90 天的备份
func (j *Jobs) RemoveOldBackups(ctx context.Context) (int, error) {
	old, err := j.backups.ListCreatedBefore(ctx, j.now().Add(-BackupRetention))
	if err != nil {
		return 0, err
	}
	for i, b := range old {
		if err := j.removeBackup(ctx, b); err != nil {
			return i, err
		}
	}
	j.swept(ctx, orchestrator.JobRemoveOldBackups, len(old))
	return len(old), nil
}

// RemoveExtraBackups 每个实例只保留最新的 5 个
func (j *Jobs) RemoveExtraBackups(ctx context.Context) (int, error) {
	counts, err := j.backups.CountPerInstance(ctx)
	if err != nil {
		return 0, err
	}
	instanceIDs := make([]int64, 0, len(counts))
	for id, c := range counts {
		if c > MaxBackupsPerSite {
			instanceIDs = append(instanceIDs, id)
		}
	}
	sort.Slice(instanceIDs, func(a, b int) bool { return instanceIDs[a] < instanceIDs[b] })

	var n int
	for _, id := range instanceIDs {
		list, err := j.backups.ListByInstance(ctx, id)
		if err != nil {
			return n, err
		}
		if len(list) <= MaxBackupsPerSite {
			continue
		}
		for _, b := range list[MaxBackupsPerSite:] {
			if err := j.removeBackup(ctx, b); err != nil {
				return n, err
			}
			n++
		}
	}
	j.swept(ctx, orchestrator.JobRemoveExtraBackups, n)
	return n, nil
}

// removeBackup 先删记录，文件清理失败只记录日志
func (j *Jobs) removeBackup(ctx context.Context, b *model.Backup) error {
	if err := j.backups.Delete(ctx, b.Id); err != nil {
		return err
	}
	var steps []fleet.Primitive
	for _, f := range []string{b.Database, b.Files} {
		if f != "" {
			steps = append(steps, fleet.RemovePath(f))
		}
	}
	if len(steps) == 0 {
		return nil
	}
	if _, err := j.executor.Run(ctx, fleet.ScopeSingle, "", fleet.Sequence("backup_remove", steps...)); err != nil {
		j.logger.WithContext(ctx).Warn("backup files not removed", zap.Int64("backup_id", b.Id), zap.Error(err))
	}
	return nil
}

// RebalanceUpdateGroups 按 id 轮转分配到 0..MaxUpdateGroup，首页固定在保留组
func (j *Jobs) RebalanceUpdateGroups(ctx context.Context) (int, error) {
	insts, err := j.instances.ListByStatus(ctx, model.InstanceStatusInstalled, model.InstanceStatusLaunched)
	if err != nil {
		return 0, err
	}
	var n, slot int
	for _, inst := range insts {
		group := orchestrator.HomepageUpdateGroup
		if !inst.IsHomepage() {
			group = slot % (orchestrator.MaxUpdateGroup + 1)
			slot++
		}
		if inst.UpdateGroup == group {
			continue
		}
		if err := j.instances.Updates(ctx, inst.Id, map[string]interface{}{"update_group": group}); err != nil {
			return n, err
		}
		n++
	}
	j.swept(ctx, orchestrator.JobRebalanceUpdateGroups, n)
	return n, nil
}
