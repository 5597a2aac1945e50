package repository

import (
	"context"
	"errors"

	"atlas/internal/model"

	"gorm.io/gorm"
)

type CommandRepository interface {
	Create(ctx context.Context, command *model.Command) error
	Update(ctx context.Context, command *model.Command) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Command, error)
	List(ctx context.Context, q Query) ([]*model.Command, int64, error)
}

func NewCommandRepository(r *Repository) CommandRepository {
	return &commandRepository{Repository: r}
}

type commandRepository struct {
	*Repository
}

func (r *commandRepository) Create(ctx context.Context, command *model.Command) error {
	return r.DB(ctx).Create(command).Error
}

func (r *commandRepository) Update(ctx context.Context, command *model.Command) error {
	return r.DB(ctx).Save(command).Error
}

func (r *commandRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Command{}).Error
}

func (r *commandRepository) GetByID(ctx context.Context, id int64) (*model.Command, error) {
	var command model.Command
	if err := r.DB(ctx).Where("id = ?", id).First(&command).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &command, nil
}

func (r *commandRepository) List(ctx context.Context, q Query) ([]*model.Command, int64, error) {
	return list[model.Command](r.DB(ctx), commandFields, q)
}
