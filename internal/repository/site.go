package repository

import (
	"context"
	"errors"

	"atlas/internal/model"

	"github.com/duke-git/lancet/v2/slice"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	Update(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Site, error)
	List(ctx context.Context, q Query) ([]*model.Site, int64, error)
	AppendRoute(ctx context.Context, siteID, routeID int64) error
	RemoveRoute(ctx context.Context, siteID, routeID int64) error
}

func NewSiteRepository(r *Repository) SiteRepository {
	return &siteRepository{Repository: r}
}

type siteRepository struct {
	*Repository
}

func (r *siteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.DB(ctx).Create(site).Error
}

func (r *siteRepository) Update(ctx context.Context, site *model.Site) error {
	return r.DB(ctx).Save(site).Error
}

func (r *siteRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Site{}).Error
}

func (r *siteRepository) GetByID(ctx context.Context, id int64) (*model.Site, error) {
	var site model.Site
	if err := r.DB(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) List(ctx context.Context, q Query) ([]*model.Site, int64, error) {
	return list[model.Site](r.DB(ctx), siteFields, q)
}

// AppendRoute 追加路由 id，已存在时不重复追加
func (r *siteRepository) AppendRoute(ctx context.Context, siteID, routeID int64) error {
	return r.modifyRoutes(ctx, siteID, func(routes []int64) []int64 {
		if slice.Contain(routes, routeID) {
			return routes
		}
		return append(routes, routeID)
	})
}

func (r *siteRepository) RemoveRoute(ctx context.Context, siteID, routeID int64) error {
	return r.modifyRoutes(ctx, siteID, func(routes []int64) []int64 {
		return slice.Filter(routes, func(_ int, id int64) bool { return id != routeID })
	})
}

func (r *siteRepository) modifyRoutes(ctx context.Context, siteID int64, fn func([]int64) []int64) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		var site model.Site
		// 行锁，sqlite 下 FOR UPDATE 会被忽略
		err := r.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", siteID).First(&site).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		site.Routes = fn(site.Routes)
		return r.DB(ctx).Save(&site).Error
	})
}
