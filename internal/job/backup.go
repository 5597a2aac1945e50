package job

import (
	"context"
	"fmt"
	"path"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"

	"go.uber.org/zap"
)

// BackupCreate 导出数据库和文件，记录状态随结果更新
func (j *Jobs) BackupCreate(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.BackupCreateArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	inst, err := j.loadInstance(ctx, args.InstanceID)
	if err != nil {
		return nil, err
	}
	if args.BackupType == "" {
		args.BackupType = model.BackupTypeOnDemand
	}
	stamp := j.now().UTC().Format("20060102T150405")
	dir := j.layout.BackupDir(inst)
	b := &model.Backup{
		InstanceID: inst.Id,
		BackupType: args.BackupType,
		State:      model.BackupStatePending,
		Database:   path.Join(dir, stamp+".sql.gz"),
		Files:      path.Join(dir, stamp+"-files.tar.gz"),
		Creator:    job.Actor,
	}
	if err := j.backups.Create(ctx, b); err != nil {
		return nil, err
	}
	report := instanceReport("Backup created: "+inst.Sid, inst)
	report.Fields["backup_id"] = fmt.Sprint(b.Id)

	runErr := j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.BackupCreate(inst, b.Database, b.Files))
	b.State = model.BackupStateComplete
	if runErr != nil {
		b.State = model.BackupStateFailed
	}
	if err := j.backups.Update(ctx, b); err != nil {
		j.jobLogger(ctx, job, zap.String("sid", inst.Sid)).Error("save backup state failed", zap.Error(err))
	}
	return report, runErr
}

// BackupRestore 目标实例为空时恢复到备份所属实例
func (j *Jobs) BackupRestore(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.BackupRestoreArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	b, err := j.backups.GetByID(ctx, args.BackupID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("backup %d: %w", args.BackupID, orchestrator.ErrNotFound)
	}
	if b.State != model.BackupStateComplete {
		return nil, fmt.Errorf("backup %d is %s", b.Id, b.State)
	}
	target := args.TargetInstanceID
	if target == 0 {
		target = b.InstanceID
	}
	inst, err := j.loadInstance(ctx, target)
	if err != nil {
		return nil, err
	}
	report := instanceReport("Backup restored: "+inst.Sid, inst)
	report.Fields["backup_id"] = fmt.Sprint(b.Id)
	return report, j.restore(ctx, report, inst, b.Database, b.Files)
}

func (j *Jobs) restore(ctx context.Context, report *queue.Report, inst *model.Instance, dbFile, files string) error {
	if err := j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.BackupRestore(inst, dbFile, files)); err != nil {
		return err
	}
	if err := j.run(ctx, report, fleet.ScopeFleet, "", j.layout.PHPCacheClear()); err != nil {
		return err
	}
	return j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.CacheClear(inst))
}

// ImportBackup 从对端环境下载备份并恢复到本地实例
func (j *Jobs) ImportBackup(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.ImportBackupArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	client, err := j.peers.Client(args.Env)
	if err != nil {
		return nil, err
	}
	remote, err := client.GetBackup(ctx, args.BackupID)
	if err != nil {
		return nil, fmt.Errorf("fetch backup %d from %s: %w", args.BackupID, args.Env, err)
	}
	if remote.State != model.BackupStateComplete {
		return nil, fmt.Errorf("backup %d on %s is %s", remote.ID, args.Env, remote.State)
	}
	inst, err := j.loadInstance(ctx, args.TargetInstanceID)
	if err != nil {
		return nil, err
	}
	report := instanceReport(fmt.Sprintf("Backup imported from %s: %s", args.Env, inst.Sid), inst)
	report.Fields["source_backup"] = fmt.Sprint(remote.ID)

	dir := path.Join(j.layout.BackupDir(inst), fmt.Sprintf("import-%s-%d", args.Env, remote.ID))
	dbFile, files := path.Join(dir, path.Base(remote.Database)), path.Join(dir, path.Base(remote.Files))
	for _, f := range [][2]string{{remote.Database, dbFile}, {remote.Files, files}} {
		src, dest := f[0], f[1]
		u, err := j.peers.FileURL(args.Env, src)
		if err != nil {
			return report, err
		}
		if err := j.run(ctx, report, fleet.ScopeSingle, inst.Pool, j.layout.Fetch(u, dest)); err != nil {
			return report, err
		}
	}
	return report, j.restore(ctx, report, inst, dbFile, files)
}

// ImportCode 复制对端的 code 记录，已存在的 (name, version, type) 跳过
func (j *Jobs) ImportCode(ctx context.Context, job *queue.Job) (*queue.Report, error) {
	var args orchestrator.ImportCodeArgs
	if err := job.Bind(&args); err != nil {
		return nil, err
	}
	client, err := j.peers.Client(args.Env)
	if err != nil {
		return nil, err
	}
	remote, err := client.ListCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("list code from %s: %w", args.Env, err)
	}
	logger := j.jobLogger(ctx, job)
	var created, skipped, failed int
	for _, rc := range remote {
		existing, err := j.codes.GetByIdentity(ctx, rc.Name, rc.Version, model.CodeType(rc.CodeType))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			skipped++
			continue
		}
		c := &model.Code{
			Name:       rc.Name,
			Version:    rc.Version,
			CodeType:   model.CodeType(rc.CodeType),
			Label:      rc.Label,
			IsCurrent:  rc.IsCurrent,
			Tag:        rc.Tag,
			GitURL:     rc.GitURL,
			CommitHash: rc.CommitHash,
			Deploy:     model.CodeDeploy{CacheClear: true},
		}
		if err := j.orch.CreateCode(ctx, c); err != nil {
			failed++
			logger.Warn("import code failed", zap.String("code", c.DisplayName()), zap.Error(err))
			continue
		}
		created++
	}
	report := &queue.Report{
		Title: fmt.Sprintf("Code imported from %s", args.Env),
		Fields: map[string]string{
			"created": fmt.Sprint(created),
			"skipped": fmt.Sprint(skipped),
			"failed":  fmt.Sprint(failed),
		},
	}
	if failed > 0 {
		return report, fmt.Errorf("%d of %d code records failed to import", failed, len(remote))
	}
	return report, nil
}
