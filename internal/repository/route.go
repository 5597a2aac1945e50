package repository

import (
	"context"
	"errors"

	"atlas/internal/model"

	"gorm.io/gorm"
)

type RouteRepository interface {
	Create(ctx context.Context, route *model.Route) error
	Update(ctx context.Context, route *model.Route) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Route, error)
	GetBySource(ctx context.Context, source string) (*model.Route, error)
	List(ctx context.Context, q Query) ([]*model.Route, int64, error)
	ListByInstance(ctx context.Context, instanceID int64) ([]*model.Route, error)
}

func NewRouteRepository(r *Repository) RouteRepository {
	return &routeRepository{Repository: r}
}

type routeRepository struct {
	*Repository
}

func (r *routeRepository) Create(ctx context.Context, route *model.Route) error {
	return r.DB(ctx).Create(route).Error
}

// Update source 不可修改，Omit 保证即使调用方改了也不会落库
func (r *routeRepository) Update(ctx context.Context, route *model.Route) error {
	return r.DB(ctx).Omit("source").Save(route).Error
}

func (r *routeRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Route{}).Error
}

func (r *routeRepository) GetByID(ctx context.Context, id int64) (*model.Route, error) {
	var route model.Route
	if err := r.DB(ctx).Where("id = ?", id).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) GetBySource(ctx context.Context, source string) (*model.Route, error) {
	var route model.Route
	if err := r.DB(ctx).Where("source = ?", source).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) List(ctx context.Context, q Query) ([]*model.Route, int64, error) {
	return list[model.Route](r.DB(ctx), routeFields, q)
}

func (r *routeRepository) ListByInstance(ctx context.Context, instanceID int64) ([]*model.Route, error) {
	var routes []*model.Route
	if err := r.DB(ctx).Where("instance_id = ?", instanceID).Order("id").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}
