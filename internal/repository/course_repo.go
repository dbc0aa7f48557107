package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
)

// CourseRepository 课程数据访问接口
// 课程目录由外部协作方（导入、录入界面）写入，引擎侧只读消费
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByCode(ctx context.Context, termID, code string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	ListByTerm(ctx context.Context, termID string) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// GetByCode 按学期内课程代码查询，跨学期的同名课程互不可见
func (r *courseRepo) GetByCode(ctx context.Context, termID, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Professors").
		Where("term_id = ? AND code = ?", termID, code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Professors").
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByTerm(ctx context.Context, termID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Professors").
		Where("term_id = ?", termID).
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}
