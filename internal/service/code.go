package service

import (
	"context"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/repository"
)

type CodeService interface {
	CreateCode(ctx context.Context, req *v1.CreateCodeRequest) (*model.Code, error)
	UpdateCode(ctx context.Context, id int64, req *v1.UpdateCodeRequest) (*model.Code, error)
	DeleteCode(ctx context.Context, id int64) error
	GetCode(ctx context.Context, id int64) (*model.Code, error)
	ListCode(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewCodeService(service *Service, codeRepo repository.CodeRepository) CodeService {
	return &codeService{
		Service:  service,
		codeRepo: codeRepo,
	}
}

type codeService struct {
	*Service
	codeRepo repository.CodeRepository
}

func (s *codeService) CreateCode(ctx context.Context, req *v1.CreateCodeRequest) (*model.Code, error) {
	c := &model.Code{
		Name:         req.Name,
		Version:      req.Version,
		CodeType:     model.CodeType(req.CodeType),
		Label:        req.Label,
		IsCurrent:    req.IsCurrent,
		Tag:          req.Tag,
		GitURL:       req.GitURL,
		CommitHash:   req.CommitHash,
		Dependencies: req.Dependencies,
		Deploy:       model.CodeDeploy{CacheClear: true},
	}
	if req.Deploy != nil {
		c.Deploy = model.CodeDeploy{
			RegistryRebuild: req.Deploy.RegistryRebuild,
			UpdateDatabase:  req.Deploy.UpdateDatabase,
			CacheClear:      req.Deploy.CacheClear,
		}
	}
	if err := s.orch.CreateCode(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *codeService) UpdateCode(ctx context.Context, id int64, req *v1.UpdateCodeRequest) (*model.Code, error) {
	c, err := s.GetCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Version != nil {
		c.Version = *req.Version
	}
	if req.CodeType != nil {
		c.CodeType = model.CodeType(*req.CodeType)
	}
	if req.Label != nil {
		c.Label = *req.Label
	}
	if req.IsCurrent != nil {
		c.IsCurrent = *req.IsCurrent
	}
	if req.Tag != nil {
		c.Tag = *req.Tag
	}
	if req.GitURL != nil {
		c.GitURL = *req.GitURL
	}
	if req.CommitHash != nil {
		c.CommitHash = *req.CommitHash
	}
	if req.Dependencies != nil {
		c.Dependencies = *req.Dependencies
	}
	if req.Deploy != nil {
		c.Deploy = model.CodeDeploy{
			RegistryRebuild: req.Deploy.RegistryRebuild,
			UpdateDatabase:  req.Deploy.UpdateDatabase,
			CacheClear:      req.Deploy.CacheClear,
		}
	}
	if err := s.orch.UpdateCode(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *codeService) DeleteCode(ctx context.Context, id int64) error {
	return s.orch.DeleteCode(ctx, id)
}

func (s *codeService) GetCode(ctx context.Context, id int64) (*model.Code, error) {
	c, err := s.codeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("code", id)
	}
	return c, nil
}

func (s *codeService) ListCode(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.codeRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
