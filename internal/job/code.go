package job

import (
	"context"
	"fmt"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"go.uber.org/zap"
)

// CodeDeploy 在所有 web 主机检出 code，current 时更新 -current 链接
func (j *Jobs) CodeDeploy(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CodeArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	c, err := j.loadCode(ctx, args.CodeID)
	if err != nil {
		return nil, err
	}
	report := codeReport(fmt.Sprintf("Code deployed: %s", c.DisplayName()), c)
	j.jobLogger(ctx, job, zap.Int64("code_id", c.Id)).Info("deploying code", zap.String("dir", j.layout.CodeDir(c)))
	return report, j.run(ctx, report, fleet.ScopeFleet, "", j.layout.CodeDeploy(c))
}

// CodeHeal 与部署相同，原语幂等
func (j *Jobs) CodeHeal(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	report, err := j.CodeDeploy(ctx, job)
	if report != nil {
		report.Title = "Code healed: " + report.Fields["code"]
	}
	return report, err
}

// CodeUpdate 检出内容或身份变化时先移除旧目录再重新检出
func (j *Jobs) CodeUpdate(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CodeUpdateArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	c, err := j.loadCode(ctx, args.CodeID)
	if err != nil {
		return nil, err
	}
	report := codeReport(fmt.Sprintf("Code updated: %s", c.DisplayName()), c)
	orig := &args.Original
	if orig.Id != 0 && j.layout.CodeDir(orig) != j.layout.CodeDir(c) {
		if err := j.run(ctx, report, fleet.ScopeFleet, "", j.layout.CodeRemove(orig)); err != nil {
			return report, err
		}
	}
	if err := j.run(ctx, report, fleet.ScopeFleet, "", j.layout.CodeDeploy(c)); err != nil {
		return report, err
	}
	j.jobLogger(ctx, job, zap.Int64("code_id", c.Id)).Info("code updated",
		zap.String("commit_hash", c.CommitHash), zap.Bool("is_current", c.IsCurrent))
	return report, nil
}

// CodeRemove 参数为删除前的快照
func (j *Jobs) CodeRemove(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.CodeRemoveArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	c := &args.Code
	report := codeReport(fmt.Sprintf("Code removed: %s", c.DisplayName()), c)
	return report, j.run(ctx, report, fleet.ScopeFleet, "", j.layout.CodeRemove(c))
}

// deployedCodes 用于通知的 code 名称列表
func deployedCodes(ids []int64, codes map[int64]*model.Code) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := codes[id]; c != nil {
			names = append(names, c.DisplayName())
		}
	}
	return names
}
