package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
)

// OverrideRecordRepository 覆盖审计数据访问接口（只追加）
type OverrideRecordRepository interface {
	Create(ctx context.Context, record *model.OverrideRecord) error
	ListByAssignment(ctx context.Context, assignmentID string, offset, limit int) ([]model.OverrideRecord, int64, error)
}

type overrideRecordRepo struct {
	db *gorm.DB
}

func NewOverrideRecordRepo(db *gorm.DB) OverrideRecordRepository {
	return &overrideRecordRepo{db: db}
}

func (r *overrideRecordRepo) Create(ctx context.Context, record *model.OverrideRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *overrideRecordRepo) ListByAssignment(ctx context.Context, assignmentID string, offset, limit int) ([]model.OverrideRecord, int64, error) {
	var records []model.OverrideRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.OverrideRecord{}).
		Where("assignment_id = ?", assignmentID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Course").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&records).Error
	return records, total, err
}
