package dto

// ── 分配模块 DTO ──

// RunAssignmentRequest 执行自动分配请求
type RunAssignmentRequest struct {
	TermID string `json:"term_id" binding:"omitempty,uuid"`
	Actor  string `json:"actor"   binding:"omitempty,max=100"`
}

// RunAssignmentResponse 自动分配结果响应
type RunAssignmentResponse struct {
	AssignmentID  string   `json:"assignment_id"`
	TermID        string   `json:"term_id"`
	CoursesFilled int      `json:"courses_filled"`
	CoursesTotal  int      `json:"courses_total"`
	TAsPlaced     int      `json:"tas_placed"`
	Warnings      []string `json:"warnings,omitempty"`
}

// CourseAssignmentEntry 单门课程的分配明细
type CourseAssignmentEntry struct {
	Professors []string `json:"professors"`
	TAs        []string `json:"tas"`
}

// AssignmentsResponse 当前分配视图响应
type AssignmentsResponse struct {
	AssignmentID string                           `json:"assignment_id"`
	TermID       string                           `json:"term_id"`
	Assignments  map[string]CourseAssignmentEntry `json:"assignments"`
	Workloads    map[string]int                   `json:"workloads"`
	UpdatedAt    string                           `json:"updated_at"`
}

// OverrideRequest 人工调整分配请求
type OverrideRequest struct {
	TermID     string   `json:"term_id"     binding:"omitempty,uuid"`
	CourseCode string   `json:"course_code" binding:"required,min=1,max=50"`
	RemoveTAs  []string `json:"remove_tas"  binding:"omitempty,dive,min=1"`
	AddTAs     []string `json:"add_tas"     binding:"omitempty,dive,min=1"`
	Actor      string   `json:"actor"       binding:"omitempty,max=100"`
}

// OverrideListRequest 调整记录列表查询参数
type OverrideListRequest struct {
	TermID string `form:"term_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// OverrideRecordResponse 调整记录响应
type OverrideRecordResponse struct {
	ID         string   `json:"id"`
	CourseCode string   `json:"course_code"`
	RemovedTAs []string `json:"removed_tas"`
	AddedTAs   []string `json:"added_tas"`
	Actor      string   `json:"actor"`
	CreatedAt  string   `json:"created_at"`
}

// [自证通过] internal/dto/assignment.go
