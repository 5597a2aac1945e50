package repository

import (
	"context"
	"errors"
	"time"

	"atlas/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CodeRepository interface {
	Create(ctx context.Context, code *model.Code) error
	Update(ctx context.Context, code *model.Code) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Code, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Code, error)
	GetByIdentity(ctx context.Context, name, version string, codeType model.CodeType) (*model.Code, error)
	List(ctx context.Context, q Query) ([]*model.Code, int64, error)
	ListCurrent(ctx context.Context, name string, codeType model.CodeType) ([]*model.Code, error)
	ListDependents(ctx context.Context, id int64) ([]*model.Code, error)
	ListNotCurrentBefore(ctx context.Context, before time.Time) ([]*model.Code, error)
	// MarkCurrent 在同一事务内把同 (name, code_type) 的其他记录置为非 current，再把 code 置为 current
	// 返回被降级的记录 id
	MarkCurrent(ctx context.Context, code *model.Code) ([]int64, error)
}

func NewCodeRepository(r *Repository) CodeRepository {
	return &codeRepository{Repository: r}
}

type codeRepository struct {
	*Repository
}

func (r *codeRepository) Create(ctx context.Context, code *model.Code) error {
	return r.DB(ctx).Create(code).Error
}

func (r *codeRepository) Update(ctx context.Context, code *model.Code) error {
	return r.DB(ctx).Save(code).Error
}

func (r *codeRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Code{}).Error
}

func (r *codeRepository) GetByID(ctx context.Context, id int64) (*model.Code, error) {
	var code model.Code
	if err := r.DB(ctx).Where("id = ?", id).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByIDs 批量查询，返回 map[id]*code，不存在的 id 不出现在结果中
func (r *codeRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Code, error) {
	result := make(map[int64]*model.Code, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var codes []*model.Code
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&codes).Error; err != nil {
		return nil, err
	}
	for _, c := range codes {
		result[c.Id] = c
	}
	return result, nil
}

func (r *codeRepository) GetByIdentity(ctx context.Context, name, version string, codeType model.CodeType) (*model.Code, error) {
	var code model.Code
	err := r.DB(ctx).
		Where("name = ? AND version = ? AND code_type = ?", name, version, codeType).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) List(ctx context.Context, q Query) ([]*model.Code, int64, error) {
	return list[model.Code](r.DB(ctx), codeFields, q)
}

func (r *codeRepository) ListCurrent(ctx context.Context, name string, codeType model.CodeType) ([]*model.Code, error) {
	var codes []*model.Code
	err := r.DB(ctx).
		Where("name = ? AND code_type = ? AND is_current = ?", name, codeType, true).
		Order("id").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ListDependents 声明依赖了 id 的其他 code
func (r *codeRepository) ListDependents(ctx context.Context, id int64) ([]*model.Code, error) {
	var codes []*model.Code
	sql, args := jsonListContains("dependencies", id)
	if err := r.DB(ctx).Where(sql, args...).Where("id <> ?", id).Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *codeRepository) ListNotCurrentBefore(ctx context.Context, before time.Time) ([]*model.Code, error) {
	var codes []*model.Code
	err := r.DB(ctx).
		Where("is_current = ? AND gmt_create <= ?", false, before).
		Order("id").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *codeRepository) MarkCurrent(ctx context.Context, code *model.Code) ([]int64, error) {
	var demoted []int64
	err := r.Transaction(ctx, func(ctx context.Context) error {
		db := r.DB(ctx)
		// 锁住同 (name, code_type) 的全部记录，并发的 MarkCurrent 在此串行
		var family []struct {
			Id        int64
			IsCurrent bool
		}
		if err := db.Model(&model.Code{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "is_current").
			Where("name = ? AND code_type = ?", code.Name, code.CodeType).
			Order("id").
			Find(&family).Error; err != nil {
			return err
		}
		for _, c := range family {
			if c.IsCurrent && c.Id != code.Id {
				demoted = append(demoted, c.Id)
			}
		}
		if err := db.Model(&model.Code{}).
			Where("name = ? AND code_type = ? AND is_current = ? AND id <> ?", code.Name, code.CodeType, true, code.Id).
			Update("is_current", false).Error; err != nil {
			return err
		}
		if err := db.Model(&model.Code{}).Where("id = ?", code.Id).Update("is_current", true).Error; err != nil {
			return err
		}
		code.IsCurrent = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return demoted, nil
}
