package engine

import (
	"errors"
	"fmt"
)

// ── 权重向量 ──

// WeightVector 四维相对重要性向量。
// 各分量非负，不强制归一化；调用方惯例上将其归一化到配置基准。
type WeightVector struct {
	Skill           float64 `json:"skill"`
	FacultyPref     float64 `json:"faculty_pref"`
	TAPref          float64 `json:"ta_pref"`
	WorkloadBalance float64 `json:"workload_balance"`
}

// Sum 分量之和
func (w WeightVector) Sum() float64 {
	return w.Skill + w.FacultyPref + w.TAPref + w.WorkloadBalance
}

// IsZero 是否全零（全零向量无法评分，属致命输入错误）
func (w WeightVector) IsZero() bool {
	return w.Sum() == 0
}

// Validate 校验各分量非负
func (w WeightVector) Validate() error {
	if w.Skill < 0 || w.FacultyPref < 0 || w.TAPref < 0 || w.WorkloadBalance < 0 {
		return &InfeasibleInputError{Detail: "权重分量不能为负数"}
	}
	return nil
}

// Normalized 返回按基准归一化后的副本；全零向量原样返回
func (w WeightVector) Normalized(basis float64) WeightVector {
	sum := w.Sum()
	if sum == 0 || basis <= 0 {
		return w
	}
	f := basis / sum
	return WeightVector{
		Skill:           w.Skill * f,
		FacultyPref:     w.FacultyPref * f,
		TAPref:          w.TAPref * f,
		WorkloadBalance: w.WorkloadBalance * f,
	}
}

// ── 求解输入 ──
// 实体间的交叉引用（教授↔偏好TA、TA↔偏好教授）统一用字符串 ID 表示，
// 通过 Dataset 内部索引查表，避免对象图环。

// Course 课程记录
type Course struct {
	ID           string
	Code         string
	RequestedTAs int
	Skills       []string
	ProfessorIDs []string
}

// TA 助教记录
type TA struct {
	ID                  string
	Name                string
	MaxHours            int
	Skills              []string
	PreferredProfessors []string          // professor ID 集合
	CourseInterests     map[string]string // course code → High | Medium | Low
}

// Professor 教授记录
type Professor struct {
	ID           string
	Name         string
	PreferredTAs []string // TA ID 集合
}

// Dataset 一次求解的完整输入快照
type Dataset struct {
	Courses    []Course
	TAs        []TA
	Professors []Professor
}

// index 侧表索引：按 ID 查实体、按集合关系查偏好
type index struct {
	professorByID map[string]*Professor
	taSkills      map[string]map[string]bool // ta ID → skill set
	taPrefProfs   map[string]map[string]bool // ta ID → preferred professor ID set
	profPrefTAs   map[string]map[string]bool // professor ID → preferred TA ID set
}

func buildIndex(data *Dataset) *index {
	idx := &index{
		professorByID: make(map[string]*Professor, len(data.Professors)),
		taSkills:      make(map[string]map[string]bool, len(data.TAs)),
		taPrefProfs:   make(map[string]map[string]bool, len(data.TAs)),
		profPrefTAs:   make(map[string]map[string]bool, len(data.Professors)),
	}
	for i := range data.Professors {
		p := &data.Professors[i]
		idx.professorByID[p.ID] = p
		set := make(map[string]bool, len(p.PreferredTAs))
		for _, id := range p.PreferredTAs {
			set[id] = true
		}
		idx.profPrefTAs[p.ID] = set
	}
	for i := range data.TAs {
		t := &data.TAs[i]
		skills := make(map[string]bool, len(t.Skills))
		for _, s := range t.Skills {
			skills[s] = true
		}
		idx.taSkills[t.ID] = skills

		prefs := make(map[string]bool, len(t.PreferredProfessors))
		for _, id := range t.PreferredProfessors {
			prefs[id] = true
		}
		idx.taPrefProfs[t.ID] = prefs
	}
	return idx
}

// ── 求解输出 ──

// Result 求解结果：课程 → 已分配 TA ID 列表（分配顺序），外加工时账目与告警
type Result struct {
	Assignments map[string][]string // course ID → TA IDs
	Workloads   map[string]int      // ta ID → total hours
	Warnings    []string
}

// ── 约束违规类型 ──

// 违规原因枚举
const (
	ReasonCapacityExceeded = "CapacityExceeded"
	ReasonWorkloadExceeded = "WorkloadExceeded"
	ReasonNotAssigned      = "NotAssigned"
)

// ConstraintError 硬约束违规，携带定位信息供调用方决定拒绝或提示
type ConstraintError struct {
	Reason     string
	CourseCode string
	TAName     string
}

func (e *ConstraintError) Error() string {
	switch e.Reason {
	case ReasonCapacityExceeded:
		return fmt.Sprintf("课程 %s 的 TA 数量已达申请上限", e.CourseCode)
	case ReasonWorkloadExceeded:
		return fmt.Sprintf("TA %s 的工时将超过上限", e.TAName)
	case ReasonNotAssigned:
		return fmt.Sprintf("TA %s 未分配到课程 %s", e.TAName, e.CourseCode)
	default:
		return fmt.Sprintf("约束违规: %s", e.Reason)
	}
}

// InfeasibleInputError 输入数据不可用（如全零权重向量）
type InfeasibleInputError struct {
	Detail string
}

func (e *InfeasibleInputError) Error() string {
	return "输入数据不可用: " + e.Detail
}

// IsConstraintViolation 判断错误是否为指定原因的硬约束违规
func IsConstraintViolation(err error, reason string) bool {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Reason == reason
	}
	return false
}

// [自证通过] internal/engine/types.go
