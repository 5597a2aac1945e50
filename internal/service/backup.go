package service

import (
	"context"
	"fmt"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/repository"
)

type BackupService interface {
	CreateBackup(ctx context.Context, req *v1.CreateBackupRequest) (*v1.JobSubmittedData, error)
	RestoreBackup(ctx context.Context, id int64, req *v1.RestoreBackupRequest) (*v1.JobSubmittedData, error)
	GetBackup(ctx context.Context, id int64) (*model.Backup, error)
	ListBackups(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewBackupService(
	service *Service,
	backupRepo repository.BackupRepository,
	instanceRepo repository.InstanceRepository,
) BackupService {
	return &backupService{
		Service:      service,
		backupRepo:   backupRepo,
		instanceRepo: instanceRepo,
	}
}

type backupService struct {
	*Service
	backupRepo   repository.BackupRepository
	instanceRepo repository.InstanceRepository
}

// CreateBackup 备份在任务中创建记录并导出
func (s *backupService) CreateBackup(ctx context.Context, req *v1.CreateBackupRequest) (*v1.JobSubmittedData, error) {
	inst, err := s.instanceRepo.GetByID(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, notFound("instance", req.InstanceID)
	}
	if inst.Status == model.InstanceStatusPending {
		return nil, &orchestrator.ConflictError{Entity: "instance", ID: inst.Sid, Reason: "pending instance has nothing to back up"}
	}
	backupType := req.BackupType
	if backupType == "" {
		backupType = model.BackupTypeOnDemand
	}
	return s.submit(ctx, orchestrator.JobBackupCreate, orchestrator.BackupCreateArgs{
		InstanceID: inst.Id,
		BackupType: backupType,
	})
}

func (s *backupService) RestoreBackup(ctx context.Context, id int64, req *v1.RestoreBackupRequest) (*v1.JobSubmittedData, error) {
	b, err := s.GetBackup(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.State != model.BackupStateComplete {
		return nil, &orchestrator.ConflictError{Entity: "backup", ID: fmt.Sprint(b.Id), Reason: "backup is " + b.State}
	}
	return s.submit(ctx, orchestrator.JobBackupRestore, orchestrator.BackupRestoreArgs{
		BackupID:         b.Id,
		TargetInstanceID: req.TargetInstanceID,
	})
}

func (s *backupService) GetBackup(ctx context.Context, id int64) (*model.Backup, error) {
	b, err := s.backupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("backup", id)
	}
	return b, nil
}

func (s *backupService) ListBackups(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.backupRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
