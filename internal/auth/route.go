package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/middleware"
)

// RegisterRoutes 设置认证相关路由
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB) {
	h := &AuthHandler{
		service: NewAuthService(db),
	}

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	// 退出登录只是清除 Cookie，不需要认证中间件
	r.POST("/logout", h.Logout)
	// 可选认证：没带 token 时由 handler 返回 401
	r.GET("/me", middleware.OptionalJWTAuth(), h.Me)
}
