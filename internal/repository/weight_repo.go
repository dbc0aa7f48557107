package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
)

// WeightRepository 权重向量数据访问接口（单行表，last-write-wins）
type WeightRepository interface {
	Get(ctx context.Context) (*model.Weight, error)
	Save(ctx context.Context, weight *model.Weight) error
}

type weightRepo struct {
	db *gorm.DB
}

func NewWeightRepo(db *gorm.DB) WeightRepository {
	return &weightRepo{db: db}
}

func (r *weightRepo) Get(ctx context.Context) (*model.Weight, error) {
	var weight model.Weight
	err := r.db.WithContext(ctx).
		Where("weight_id = ?", 1).
		First(&weight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 迁移默认会插入单行；缺行时回落到均等权重
		return &model.Weight{WeightID: 1, Skill: 0.25, FacultyPref: 0.25, TAPref: 0.25, WorkloadBalance: 0.25}, nil
	}
	if err != nil {
		return nil, err
	}
	return &weight, nil
}

func (r *weightRepo) Save(ctx context.Context, weight *model.Weight) error {
	weight.WeightID = 1
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "weight_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"skill", "faculty_pref", "ta_pref", "workload_balance", "updated_at", "updated_by"}),
		}).
		Create(weight).Error
}
