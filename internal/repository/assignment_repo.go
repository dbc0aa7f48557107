package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
	pkgerrors "github.com/umutkutlutr/CompGradToolbox/pkg/errors"
)

// AssignmentRepository 分配结果数据访问接口。
// 求解器与覆盖管理器是唯二写入方：求解全量替换（Replace），
// 覆盖按课程打补丁（PatchItems）；两者均在单事务内提交。
type AssignmentRepository interface {
	GetCurrentByTerm(ctx context.Context, termID string) (*model.Assignment, error)
	Replace(ctx context.Context, assignment *model.Assignment, items []model.AssignmentItem) error
	PatchItems(ctx context.Context, assignment *model.Assignment, courseID string, removeTAIDs []string, addItems []model.AssignmentItem) error
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) GetCurrentByTerm(ctx context.Context, termID string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Term").
		Preload("Items").
		Preload("Items.Course").Preload("Items.Course.Professors").
		Preload("Items.TA").
		Where("term_id = ? AND status = ?", termID, "current").
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Replace 原子替换某学期的当前分配结果：
// 旧的 current 记录归档，新表头与全部明细在同一事务内落库
func (r *assignmentRepo) Replace(ctx context.Context, assignment *model.Assignment, items []model.AssignmentItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Assignment{}).
			Where("term_id = ? AND status = ?", assignment.TermID, "current").
			Update("status", "archived").Error; err != nil {
			return err
		}

		assignment.Status = "current"
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			for i := range items {
				items[i].AssignmentID = assignment.AssignmentID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PatchItems 对单门课程的 TA 集合打补丁（覆盖操作）。
// 表头版本号乐观锁递增，与 Replace 串行化时防止丢失更新。
func (r *assignmentRepo) PatchItems(ctx context.Context, assignment *model.Assignment, courseID string, removeTAIDs []string, addItems []model.AssignmentItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := assignment.Version
		result := tx.Model(&model.Assignment{}).
			Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
			Updates(map[string]interface{}{
				"updated_by": assignment.UpdatedBy,
				"version":    oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		if len(removeTAIDs) > 0 {
			if err := tx.
				Where("assignment_id = ? AND course_id = ? AND ta_id IN ?", assignment.AssignmentID, courseID, removeTAIDs).
				Delete(&model.AssignmentItem{}).Error; err != nil {
				return err
			}
		}

		if len(addItems) > 0 {
			for i := range addItems {
				addItems[i].AssignmentID = assignment.AssignmentID
				addItems[i].CourseID = courseID
			}
			if err := tx.Create(&addItems).Error; err != nil {
				return err
			}
		}

		assignment.Version = oldVersion + 1
		return nil
	})
}
