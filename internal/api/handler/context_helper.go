package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// defaultActor 未提供操作人时的兜底标识
const defaultActor = "system"

// ResolveActor 解析操作人标识：请求体 actor 字段优先，
// 其次 X-Actor 请求头，均缺失时落到 system。
func ResolveActor(c *gin.Context, bodyActor string) string {
	if a := strings.TrimSpace(bodyActor); a != "" {
		return a
	}
	if a := strings.TrimSpace(c.GetHeader("X-Actor")); a != "" {
		return a
	}
	return defaultActor
}
