package service

import (
	"context"
	"strconv"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/repository"
)

type InstanceService interface {
	CreateInstance(ctx context.Context, req *v1.CreateInstanceRequest) (*model.Instance, error)
	UpdateInstance(ctx context.Context, key string, req *v1.UpdateInstanceRequest) (*model.Instance, error)
	DeleteInstance(ctx context.Context, key string) error
	GetInstance(ctx context.Context, key string) (*model.Instance, error)
	ListInstances(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewInstanceService(service *Service, instanceRepo repository.InstanceRepository) InstanceService {
	return &instanceService{
		Service:      service,
		instanceRepo: instanceRepo,
	}
}

type instanceService struct {
	*Service
	instanceRepo repository.InstanceRepository
}

func settingsFrom(req *v1.InstanceSettingsRequest) model.InstanceSettings {
	return model.InstanceSettings{
		PageCacheMaximumAge: req.PageCacheMaximumAge,
		SiteimproveSite:     req.SiteimproveSite,
		SiteimproveGroup:    req.SiteimproveGroup,
	}
}

func (s *instanceService) CreateInstance(ctx context.Context, req *v1.CreateInstanceRequest) (*model.Instance, error) {
	inst := &model.Instance{
		Type:   model.InstanceType(req.Type),
		Pool:   req.Pool,
		Code:   model.InstanceCode{Core: req.Core, Profile: req.Profile, Package: req.Package},
		SiteID: req.SiteID,
		Tag:    req.Tag,
	}
	if req.Settings != nil {
		inst.Settings = settingsFrom(req.Settings)
	}
	if err := s.orch.CreateInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *instanceService) UpdateInstance(ctx context.Context, key string, req *v1.UpdateInstanceRequest) (*model.Instance, error) {
	inst, err := s.GetInstance(ctx, key)
	if err != nil {
		return nil, err
	}
	patch := orchestrator.InstancePatch{
		Core:        req.Core,
		Profile:     req.Profile,
		Package:     req.Package,
		SiteID:      req.SiteID,
		UpdateGroup: req.UpdateGroup,
		Tag:         req.Tag,
	}
	if req.Status != nil {
		status := model.InstanceStatus(*req.Status)
		patch.Status = &status
	}
	if req.Settings != nil {
		settings := settingsFrom(req.Settings)
		patch.Settings = &settings
	}
	return s.orch.UpdateInstance(ctx, inst.Id, patch)
}

func (s *instanceService) DeleteInstance(ctx context.Context, key string) error {
	inst, err := s.GetInstance(ctx, key)
	if err != nil {
		return err
	}
	return s.orch.DeleteInstance(ctx, inst.Id)
}

// GetInstance key 为数字时按 id 查找，否则按 sid
func (s *instanceService) GetInstance(ctx context.Context, key string) (*model.Instance, error) {
	var (
		inst *model.Instance
		err  error
	)
	if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
		inst, err = s.instanceRepo.GetByID(ctx, id)
	} else {
		inst, err = s.instanceRepo.GetBySid(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, notFound("instance", key)
	}
	return inst, nil
}

func (s *instanceService) ListInstances(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.instanceRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
