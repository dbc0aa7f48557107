package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
)

// TARepository 助教数据访问接口
type TARepository interface {
	Create(ctx context.Context, ta *model.TA) error
	GetByName(ctx context.Context, name string) (*model.TA, error)
	List(ctx context.Context) ([]model.TA, error)
	ListByNames(ctx context.Context, names []string) ([]model.TA, error)
}

type taRepo struct {
	db *gorm.DB
}

func NewTARepo(db *gorm.DB) TARepository {
	return &taRepo{db: db}
}

func (r *taRepo) Create(ctx context.Context, ta *model.TA) error {
	return r.db.WithContext(ctx).Create(ta).Error
}

func (r *taRepo) GetByName(ctx context.Context, name string) (*model.TA, error) {
	var ta model.TA
	err := r.db.WithContext(ctx).
		Preload("PreferredProfessors").
		Preload("CourseInterests").Preload("CourseInterests.Course").
		Where("name = ?", name).
		First(&ta).Error
	if err != nil {
		return nil, err
	}
	return &ta, nil
}

func (r *taRepo) List(ctx context.Context) ([]model.TA, error) {
	var tas []model.TA
	err := r.db.WithContext(ctx).
		Preload("PreferredProfessors").
		Preload("CourseInterests").Preload("CourseInterests.Course").
		Order("ta_id ASC").
		Find(&tas).Error
	return tas, err
}

func (r *taRepo) ListByNames(ctx context.Context, names []string) ([]model.TA, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var tas []model.TA
	err := r.db.WithContext(ctx).
		Preload("PreferredProfessors").
		Where("name IN ?", names).
		Find(&tas).Error
	return tas, err
}
