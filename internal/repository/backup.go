package repository

import (
	"context"
	"errors"
	"time"

	"atlas/internal/model"

	"gorm.io/gorm"
)

type BackupRepository interface {
	Create(ctx context.Context, backup *model.Backup) error
	Update(ctx context.Context, backup *model.Backup) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Backup, error)
	List(ctx context.Context, q Query) ([]*model.Backup, int64, error)
	// ListCreatedBefore 严格早于 before 创建的备份
	ListCreatedBefore(ctx context.Context, before time.Time) ([]*model.Backup, error)
	// ListByInstance 按创建时间倒序，最新的在前
	ListByInstance(ctx context.Context, instanceID int64) ([]*model.Backup, error)
	CountPerInstance(ctx context.Context) (map[int64]int64, error)
}

func NewBackupRepository(r *Repository) BackupRepository {
	return &backupRepository{Repository: r}
}

type backupRepository struct {
	*Repository
}

func (r *backupRepository) Create(ctx context.Context, backup *model.Backup) error {
	return r.DB(ctx).Create(backup).Error
}

func (r *backupRepository) Update(ctx context.Context, backup *model.Backup) error {
	return r.DB(ctx).Save(backup).Error
}

func (r *backupRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Backup{}).Error
}

func (r *backupRepository) GetByID(ctx context.Context, id int64) (*model.Backup, error) {
	var backup model.Backup
	if err := r.DB(ctx).Where("id = ?", id).First(&backup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &backup, nil
}

func (r *backupRepository) List(ctx context.Context, q Query) ([]*model.Backup, int64, error) {
	return list[model.Backup](r.DB(ctx), backupFields, q)
}

func (r *backupRepository) ListCreatedBefore(ctx context.Context, before time.Time) ([]*model.Backup, error) {
	var backups []*model.Backup
	if err := r.DB(ctx).Where("gmt_create < ?", before).Order("id").Find(&backups).Error; err != nil {
		return nil, err
	}
	return backups, nil
}

func (r *backupRepository) ListByInstance(ctx context.Context, instanceID int64) ([]*model.Backup, error) {
	var backups []*model.Backup
	err := r.DB(ctx).
		Where("instance_id = ?", instanceID).
		Order("gmt_create DESC, id DESC").
		Find(&backups).Error
	if err != nil {
		return nil, err
	}
	return backups, nil
}

func (r *backupRepository) CountPerInstance(ctx context.Context) (map[int64]int64, error) {
	var rows []struct {
		InstanceID int64
		Total      int64
	}
	err := r.DB(ctx).Model(&model.Backup{}).
		Select("instance_id, count(*) AS total").
		Group("instance_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.InstanceID] = row.Total
	}
	return counts, nil
}
