package service

import (
	"context"
	"fmt"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/repository"
)

type SiteService interface {
	CreateSite(ctx context.Context, req *v1.CreateSiteRequest) (*model.Site, error)
	UpdateSite(ctx context.Context, id int64, req *v1.UpdateSiteRequest) (*model.Site, error)
	DeleteSite(ctx context.Context, id int64) error
	GetSite(ctx context.Context, id int64) (*model.Site, error)
	ListSites(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewSiteService(service *Service, siteRepo repository.SiteRepository) SiteService {
	return &siteService{
		Service:  service,
		siteRepo: siteRepo,
	}
}

type siteService struct {
	*Service
	siteRepo repository.SiteRepository
}

func (s *siteService) CreateSite(ctx context.Context, req *v1.CreateSiteRequest) (*model.Site, error) {
	if !validSiteType(req.SiteType) {
		return nil, fmt.Errorf("%w: site_type %q", orchestrator.ErrValidation, req.SiteType)
	}
	site := &model.Site{
		Name:      req.Name,
		SiteType:  req.SiteType,
		Routes:    []int64{},
		Instances: req.Instances,
		Creator:   actorOf(ctx),
		Modifier:  actorOf(ctx),
	}
	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// UpdateSite routes 由路由写入维护，这里不接受修改
func (s *siteService) UpdateSite(ctx context.Context, id int64, req *v1.UpdateSiteRequest) (*model.Site, error) {
	site, err := s.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.SiteType != nil {
		if !validSiteType(*req.SiteType) {
			return nil, fmt.Errorf("%w: site_type %q", orchestrator.ErrValidation, *req.SiteType)
		}
		site.SiteType = *req.SiteType
	}
	if req.Instances != nil {
		site.Instances = *req.Instances
	}
	site.Modifier = actorOf(ctx)
	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) DeleteSite(ctx context.Context, id int64) error {
	return s.orch.DeleteSite(ctx, id)
}

func (s *siteService) GetSite(ctx context.Context, id int64) (*model.Site, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, notFound("site", id)
	}
	return site, nil
}

func (s *siteService) ListSites(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.siteRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
