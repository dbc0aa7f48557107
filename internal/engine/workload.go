package engine

// Tracker 运行中的 TA 工时账目。
// 求解期间用于工时均衡惩罚与上限校验，求解或覆盖提交后重新推导。
type Tracker struct {
	hoursPerCourse int
	hours          map[string]int // ta ID → total hours
}

// NewTracker 创建空账目
func NewTracker(hoursPerCourse int) *Tracker {
	return &Tracker{
		hoursPerCourse: hoursPerCourse,
		hours:          make(map[string]int),
	}
}

// Commit 记入一个配对的工时
func (t *Tracker) Commit(taID string) {
	t.hours[taID] += t.hoursPerCourse
}

// Release 释放一个标准配对的工时
func (t *Tracker) Release(taID string) {
	t.ReleaseHours(taID, t.hoursPerCourse)
}

// ReleaseHours 释放指定工时（覆盖移除已落库明细时，以明细记录的工时为准）
func (t *Tracker) ReleaseHours(taID string, hours int) {
	t.hours[taID] -= hours
	if t.hours[taID] <= 0 {
		delete(t.hours, taID)
	}
}

// Hours 某 TA 的当前总工时
func (t *Tracker) Hours(taID string) int {
	return t.hours[taID]
}

// Snapshot 导出账目副本
func (t *Tracker) Snapshot() map[string]int {
	out := make(map[string]int, len(t.hours))
	for id, h := range t.hours {
		out[id] = h
	}
	return out
}

// FromItems 依据已有分配明细重建账目。
// 工时以明细落库值为准，而非当前配置常量：配置调整后历史结果仍须按原值计账。
func FromItems(hoursPerCourse int, hoursByTA map[string]int) *Tracker {
	t := NewTracker(hoursPerCourse)
	for id, h := range hoursByTA {
		if h > 0 {
			t.hours[id] = h
		}
	}
	return t
}
