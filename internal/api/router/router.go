package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Relapt23/Refferal-system/config"
	"github.com/Relapt23/Refferal-system/internal/api/handler"
	"github.com/Relapt23/Refferal-system/internal/api/middleware"
	"github.com/Relapt23/Refferal-system/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 公开接口 ──
	r.POST("/sign_up", h.Auth.SignUp)
	r.POST("/login", h.Auth.Login)
	r.GET("/referral_code/:email", h.Referral.GetCode)
	r.GET("/user_info/:id", h.Referral.GetUserInfo)
	r.GET("/user_info/:id/export", h.Referral.ExportInvitedUsers)

	// ── 需要认证的接口 ──
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr))
	{
		authorized.POST("/referral_code", h.Referral.CreateCode)
		authorized.DELETE("/referral_code", h.Referral.DeleteCode)
	}

	return r
}
