package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应结构
// detail 为机器可读的错误码（如 existing_user / invalid_referral_code）
type ErrorBody struct {
	Detail string `json:"detail"`
}

// OK 200 成功响应，直接序列化业务 DTO
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, ErrorBody{Detail: detail})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, detail string) {
	Error(c, http.StatusUnauthorized, detail)
}

// NotFound 404
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal_server_error")
}
