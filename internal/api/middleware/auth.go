package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Relapt23/Refferal-system/pkg/jwt"
	"github.com/Relapt23/Refferal-system/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token，
// 将主体邮箱注入 gin.Context
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing_authorization_header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid_authorization_header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid_token")
			c.Abort()
			return
		}

		c.Set("email", claims.Email)

		c.Next()
	}
}
