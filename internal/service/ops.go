package service

import (
	"context"
	"fmt"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/internal/repository"

	"github.com/spf13/viper"
)

// OpsService 运维入口：提交批量任务、跨环境导入、手动触发维护任务
type OpsService interface {
	GetJob(ctx context.Context, jobID string) (*model.JobResult, error)
	ImportCode(ctx context.Context, req *v1.ImportCodeRequest) (*v1.JobSubmittedData, error)
	ImportBackup(ctx context.Context, req *v1.ImportBackupRequest) (*v1.JobSubmittedData, error)
	ClearPHPCache(ctx context.Context) (*v1.JobSubmittedData, error)
	UpdateHomepageFiles(ctx context.Context) (*v1.JobSubmittedData, error)
	UpdateSettingsFile(ctx context.Context, req *v1.SettingsFileRequest) (*v1.JobSubmittedData, error)
	Cron(ctx context.Context, req *v1.CronRequest) (*v1.JobSubmittedData, error)
	Sweep(ctx context.Context, name string) (*v1.JobSubmittedData, error)
}

func NewOpsService(
	service *Service,
	conf *viper.Viper,
	resultRepo repository.JobResultRepository,
	instanceRepo repository.InstanceRepository,
) OpsService {
	return &opsService{
		Service:      service,
		conf:         conf,
		resultRepo:   resultRepo,
		instanceRepo: instanceRepo,
	}
}

type opsService struct {
	*Service
	conf         *viper.Viper
	resultRepo   repository.JobResultRepository
	instanceRepo repository.InstanceRepository
}

func (s *opsService) GetJob(ctx context.Context, jobID string) (*model.JobResult, error) {
	result, err := s.resultRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, notFound("job", jobID)
	}
	return result, nil
}

func (s *opsService) checkPeer(env string) error {
	if s.conf.GetString("platform.peers."+env+".url") == "" {
		return v1.ErrUnknownPeer
	}
	return nil
}

func (s *opsService) ImportCode(ctx context.Context, req *v1.ImportCodeRequest) (*v1.JobSubmittedData, error) {
	if err := s.checkPeer(req.Env); err != nil {
		return nil, err
	}
	return s.submit(ctx, orchestrator.JobImportCode, orchestrator.ImportCodeArgs{Env: req.Env})
}

func (s *opsService) ImportBackup(ctx context.Context, req *v1.ImportBackupRequest) (*v1.JobSubmittedData, error) {
	if err := s.checkPeer(req.Env); err != nil {
		return nil, err
	}
	inst, err := s.instanceRepo.GetByID(ctx, req.TargetInstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, notFound("instance", req.TargetInstanceID)
	}
	return s.submit(ctx, orchestrator.JobImportBackup, orchestrator.ImportBackupArgs{
		Env:              req.Env,
		BackupID:         req.BackupID,
		TargetInstanceID: inst.Id,
	}, queue.WithTimeLimit(orchestrator.ImportBackupTimeLimit))
}

func (s *opsService) ClearPHPCache(ctx context.Context) (*v1.JobSubmittedData, error) {
	return s.submit(ctx, orchestrator.JobClearPHPCache, nil)
}

func (s *opsService) UpdateHomepageFiles(ctx context.Context) (*v1.JobSubmittedData, error) {
	return s.submit(ctx, orchestrator.JobUpdateHomepageFiles, nil)
}

func (s *opsService) UpdateSettingsFile(ctx context.Context, req *v1.SettingsFileRequest) (*v1.JobSubmittedData, error) {
	return s.submit(ctx, orchestrator.JobUpdateSettingsFile, orchestrator.UpdateSettingsArgs{InstanceID: req.InstanceID})
}

func (s *opsService) Cron(ctx context.Context, req *v1.CronRequest) (*v1.JobSubmittedData, error) {
	args := orchestrator.CronArgs{
		Status:          model.InstanceStatus(req.Status),
		Type:            model.InstanceType(req.Type),
		IncludePackages: req.IncludePackages,
		ExcludePackages: req.ExcludePackages,
	}
	if args.Status != "" && !args.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", orchestrator.ErrValidation, req.Status)
	}
	if args.Type != "" && !args.Type.Valid() {
		return nil, fmt.Errorf("%w: type %q", orchestrator.ErrValidation, req.Type)
	}
	return s.submit(ctx, orchestrator.JobCron, args)
}

func (s *opsService) Sweep(ctx context.Context, name string) (*v1.JobSubmittedData, error) {
	if !orchestrator.IsSweeper(name) {
		return nil, v1.ErrUnknownSweeper
	}
	return s.submit(ctx, name, nil)
}
