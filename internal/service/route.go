package service

import (
	"context"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/repository"
)

type RouteService interface {
	CreateRoute(ctx context.Context, req *v1.CreateRouteRequest) (*model.Route, error)
	UpdateRoute(ctx context.Context, id int64, req *v1.UpdateRouteRequest) (*model.Route, error)
	DeleteRoute(ctx context.Context, id int64) error
	GetRoute(ctx context.Context, id int64) (*model.Route, error)
	ListRoutes(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewRouteService(service *Service, routeRepo repository.RouteRepository) RouteService {
	return &routeService{
		Service:   service,
		routeRepo: routeRepo,
	}
}

type routeService struct {
	*Service
	routeRepo repository.RouteRepository
}

func (s *routeService) CreateRoute(ctx context.Context, req *v1.CreateRouteRequest) (*model.Route, error) {
	r := &model.Route{
		RouteType:      model.RouteType(req.RouteType),
		RouteStatus:    model.RouteStatus(req.RouteStatus),
		ActiveOnLaunch: req.ActiveOnLaunch,
		Source:         req.Source,
		Destination:    req.Destination,
		Regex:          req.Regex,
		PathPreserving: req.PathPreserving,
		ResponseCode:   req.ResponseCode,
		InstanceID:     req.InstanceID,
		SiteID:         req.SiteID,
		Tag:            req.Tag,
	}
	if err := s.orch.CreateRoute(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *routeService) UpdateRoute(ctx context.Context, id int64, req *v1.UpdateRouteRequest) (*model.Route, error) {
	r, err := s.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RouteType != nil {
		r.RouteType = model.RouteType(*req.RouteType)
	}
	if req.RouteStatus != nil {
		r.RouteStatus = model.RouteStatus(*req.RouteStatus)
	}
	if req.ActiveOnLaunch != nil {
		r.ActiveOnLaunch = *req.ActiveOnLaunch
	}
	if req.Source != nil {
		r.Source = *req.Source
	}
	if req.Destination != nil {
		r.Destination = *req.Destination
	}
	if req.Regex != nil {
		r.Regex = *req.Regex
	}
	if req.PathPreserving != nil {
		r.PathPreserving = *req.PathPreserving
	}
	if req.ResponseCode != nil {
		r.ResponseCode = *req.ResponseCode
	}
	if req.InstanceID != nil {
		// 0 表示解除关联
		r.InstanceID = req.InstanceID
		if *req.InstanceID == 0 {
			r.InstanceID = nil
		}
	}
	if req.SiteID != nil {
		r.SiteID = req.SiteID
	}
	if req.Tag != nil {
		r.Tag = *req.Tag
	}
	if err := s.orch.UpdateRoute(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *routeService) DeleteRoute(ctx context.Context, id int64) error {
	return s.orch.DeleteRoute(ctx, id)
}

func (s *routeService) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	r, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound("route", id)
	}
	return r, nil
}

func (s *routeService) ListRoutes(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.routeRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
