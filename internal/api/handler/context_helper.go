package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Relapt23/Refferal-system/pkg/response"
)

// MustGetEmail 从 Gin 上下文中安全提取当前用户邮箱。
// JWT 中间件未正确注入时返回 false 并写入 401 响应，
// 调用方应在 ok=false 时直接 return。
func MustGetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get("email")
	if !exists {
		response.Unauthorized(c, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "unauthenticated")
		return "", false
	}
	return s, true
}
