package model

// Term 学期表 — 对应 terms
// 引擎每学期只持有一份当前分配结果
type Term struct {
	TermID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Name     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	IsActive bool   `gorm:"not null;default:false"                         json:"is_active"`
	BaseModel
}

func (Term) TableName() string { return "terms" }

// [自证通过] internal/model/term.go
