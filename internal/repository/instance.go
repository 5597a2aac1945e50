package repository

import (
	"context"
	"errors"
	"time"

	"atlas/internal/model"

	"gorm.io/gorm"
)

type InstanceRepository interface {
	Create(ctx context.Context, instance *model.Instance) error
	Update(ctx context.Context, instance *model.Instance) error
	Updates(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Instance, error)
	GetBySid(ctx context.Context, sid string) (*model.Instance, error)
	GetByPath(ctx context.Context, path string) (*model.Instance, error)
	List(ctx context.Context, q Query) ([]*model.Instance, int64, error)
	ListByStatus(ctx context.Context, statuses ...model.InstanceStatus) ([]*model.Instance, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*model.Instance, error)
	ListBySite(ctx context.Context, siteID int64) ([]*model.Instance, error)
	ListReferencingCode(ctx context.Context, codeID int64) ([]*model.Instance, error)
	ListCreatedBefore(ctx context.Context, before time.Time, statuses ...model.InstanceStatus) ([]*model.Instance, error)
	CountByStatus(ctx context.Context, statuses ...model.InstanceStatus) (int64, error)
	// TransitionStatus 仅当当前状态为 from 时更新为 to，返回是否更新成功
	TransitionStatus(ctx context.Context, id int64, from, to model.InstanceStatus, fields map[string]interface{}) (bool, error)
	// BindPrimaryRoute 仅当实例为 installed 且没有主路由时绑定并切换为 launching
	BindPrimaryRoute(ctx context.Context, id, routeID int64, path string) (bool, error)
	ClearPrimaryRoute(ctx context.Context, routeID int64) (int64, error)
}

func NewInstanceRepository(r *Repository) InstanceRepository {
	return &instanceRepository{Repository: r}
}

type instanceRepository struct {
	*Repository
}

func (r *instanceRepository) Create(ctx context.Context, instance *model.Instance) error {
	return r.DB(ctx).Create(instance).Error
}

func (r *instanceRepository) Update(ctx context.Context, instance *model.Instance) error {
	return r.DB(ctx).Save(instance).Error
}

func (r *instanceRepository) Updates(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.DB(ctx).Model(&model.Instance{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 软删除前释放 path 和主路由，唯一索引可以被新实例复用
func (r *instanceRepository) Delete(ctx context.Context, id int64) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		if err := r.DB(ctx).Model(&model.Instance{}).Where("id = ?", id).
			Updates(map[string]interface{}{"path": nil, "routes_primary_route": nil}).Error; err != nil {
			return err
		}
		return r.DB(ctx).Where("id = ?", id).Delete(&model.Instance{}).Error
	})
}

func (r *instanceRepository) GetByID(ctx context.Context, id int64) (*model.Instance, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *instanceRepository) GetBySid(ctx context.Context, sid string) (*model.Instance, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *instanceRepository) GetByPath(ctx context.Context, path string) (*model.Instance, error) {
	return r.first(ctx, "path = ?", path)
}

func (r *instanceRepository) first(ctx context.Context, cond string, arg interface{}) (*model.Instance, error) {
	var instance model.Instance
	if err := r.DB(ctx).Where(cond, arg).First(&instance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) List(ctx context.Context, q Query) ([]*model.Instance, int64, error) {
	return list[model.Instance](r.DB(ctx), instanceFields, q)
}

func (r *instanceRepository) ListByStatus(ctx context.Context, statuses ...model.InstanceStatus) ([]*model.Instance, error) {
	var instances []*model.Instance
	if err := r.DB(ctx).Where("status IN ?", statuses).Order("id").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) ListByIDs(ctx context.Context, ids []int64) ([]*model.Instance, error) {
	var instances []*model.Instance
	if len(ids) == 0 {
		return instances, nil
	}
	if err := r.DB(ctx).Where("id IN ?", ids).Order("id").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) ListBySite(ctx context.Context, siteID int64) ([]*model.Instance, error) {
	var instances []*model.Instance
	if err := r.DB(ctx).Where("site_id = ?", siteID).Order("id").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// ListReferencingCode core、profile 或 package 中引用了 codeID 的实例
func (r *instanceRepository) ListReferencingCode(ctx context.Context, codeID int64) ([]*model.Instance, error) {
	var instances []*model.Instance
	sql, args := jsonListContains("code_package", codeID)
	err := r.DB(ctx).
		Where(r.DB(ctx).Where("code_core = ?", codeID).Or("code_profile = ?", codeID).Or(sql, args...)).
		Order("id").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) ListCreatedBefore(ctx context.Context, before time.Time, statuses ...model.InstanceStatus) ([]*model.Instance, error) {
	var instances []*model.Instance
	query := r.DB(ctx).Where("gmt_create < ?", before)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("id").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) CountByStatus(ctx context.Context, statuses ...model.InstanceStatus) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&model.Instance{}).Where("status IN ?", statuses).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *instanceRepository) TransitionStatus(ctx context.Context, id int64, from, to model.InstanceStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	tx := r.DB(ctx).Model(&model.Instance{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *instanceRepository) BindPrimaryRoute(ctx context.Context, id, routeID int64, path string) (bool, error) {
	tx := r.DB(ctx).Model(&model.Instance{}).
		Where("id = ? AND status = ? AND routes_primary_route IS NULL", id, model.InstanceStatusInstalled).
		Updates(map[string]interface{}{
			"status":               model.InstanceStatusLaunching,
			"path":                 path,
			"routes_primary_route": routeID,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *instanceRepository) ClearPrimaryRoute(ctx context.Context, routeID int64) (int64, error) {
	tx := r.DB(ctx).Model(&model.Instance{}).
		Where("routes_primary_route = ?", routeID).
		Update("routes_primary_route", nil)
	return tx.RowsAffected, tx.Error
}
