package repository

import (
	"context"
	"errors"
	"time"

	"atlas/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	Create(ctx context.Context, statistics *model.Statistics) error
	Update(ctx context.Context, statistics *model.Statistics) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Statistics, error)
	GetByInstance(ctx context.Context, instanceID int64) (*model.Statistics, error)
	List(ctx context.Context, q Query) ([]*model.Statistics, int64, error)
	DeleteByInstance(ctx context.Context, instanceIDs ...int64) (int64, error)
	ListOrphans(ctx context.Context) ([]*model.Statistics, error)
	ListUpdatedBefore(ctx context.Context, before time.Time) ([]*model.Statistics, error)
}

func NewStatisticsRepository(r *Repository) StatisticsRepository {
	return &statisticsRepository{Repository: r}
}

type statisticsRepository struct {
	*Repository
}

func (r *statisticsRepository) Create(ctx context.Context, statistics *model.Statistics) error {
	return r.DB(ctx).Create(statistics).Error
}

func (r *statisticsRepository) Update(ctx context.Context, statistics *model.Statistics) error {
	return r.DB(ctx).Save(statistics).Error
}

func (r *statisticsRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Statistics{}).Error
}

func (r *statisticsRepository) GetByID(ctx context.Context, id int64) (*model.Statistics, error) {
	var statistics model.Statistics
	if err := r.DB(ctx).Where("id = ?", id).First(&statistics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &statistics, nil
}

func (r *statisticsRepository) GetByInstance(ctx context.Context, instanceID int64) (*model.Statistics, error) {
	var statistics model.Statistics
	if err := r.DB(ctx).Where("instance_id = ?", instanceID).First(&statistics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &statistics, nil
}

func (r *statisticsRepository) List(ctx context.Context, q Query) ([]*model.Statistics, int64, error) {
	return list[model.Statistics](r.DB(ctx), statisticsFields, q)
}

func (r *statisticsRepository) DeleteByInstance(ctx context.Context, instanceIDs ...int64) (int64, error) {
	if len(instanceIDs) == 0 {
		return 0, nil
	}
	tx := r.DB(ctx).Where("instance_id IN ?", instanceIDs).Delete(&model.Statistics{})
	return tx.RowsAffected, tx.Error
}

// ListOrphans 所属实例不存在或已被软删除的统计记录
func (r *statisticsRepository) ListOrphans(ctx context.Context) ([]*model.Statistics, error) {
	var items []*model.Statistics
	live := r.DB(ctx).Model(&model.Instance{}).Select("id")
	if err := r.DB(ctx).Where("instance_id NOT IN (?)", live).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *statisticsRepository) ListUpdatedBefore(ctx context.Context, before time.Time) ([]*model.Statistics, error) {
	var items []*model.Statistics
	if err := r.DB(ctx).Where("gmt_modified <= ?", before).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
