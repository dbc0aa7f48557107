package engine

// Validator 硬约束校验器。
// 两条硬约束：课程 TA 容量、TA 工时上限。每个 TA-课程配对按固定
// HoursPerCourse 小时计入工时账目。
type Validator struct {
	// HoursPerCourse 每个配对计入工时账目的固定小时数
	HoursPerCourse int
}

// NewValidator 创建校验器
func NewValidator(hoursPerCourse int) *Validator {
	return &Validator{HoursPerCourse: hoursPerCourse}
}

// CheckCapacity 校验课程再接收一名 TA 是否超出申请数量
func (v *Validator) CheckCapacity(course *Course, assignedCount int) error {
	if assignedCount+1 > course.RequestedTAs {
		return &ConstraintError{Reason: ReasonCapacityExceeded, CourseCode: course.Code}
	}
	return nil
}

// CheckWorkload 校验 TA 再承接一门课程是否超出工时上限
func (v *Validator) CheckWorkload(ta *TA, currentHours int) error {
	if currentHours+v.HoursPerCourse > ta.MaxHours {
		return &ConstraintError{Reason: ReasonWorkloadExceeded, TAName: ta.Name}
	}
	return nil
}

// CheckAdd 校验向课程追加一名 TA 的完整可行性（容量 + 工时）
func (v *Validator) CheckAdd(course *Course, ta *TA, assignedCount, currentHours int) error {
	if err := v.CheckCapacity(course, assignedCount); err != nil {
		return err
	}
	return v.CheckWorkload(ta, currentHours)
}
