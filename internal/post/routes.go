package post

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/aiwriter"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/database"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/middleware"
)

// SetupPostRoutes 设置文章相关路由
func SetupPostRoutes(r *gin.RouterGroup, db *gorm.DB, redis *database.RedisClient) {
	service := NewPostService(
		NewPostRepository(db),
		NewTagRepository(db),
		NewCache(redis),
	)
	h := NewPostHandler(service, aiwriter.NewClient())

	// 公开读接口
	posts := r.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.Detail)
	}

	// 写接口 - 需要 admin 角色
	postsAdmin := r.Group("/posts")
	postsAdmin.Use(middleware.JWTAuth(), middleware.RequireRole("admin"))
	{
		postsAdmin.POST("", h.Create)
		postsAdmin.PUT("/:id", h.Update)
		postsAdmin.DELETE("/:id", h.Delete)
		postsAdmin.DELETE("", h.BatchDelete)
	}

	// AI 写作助手 - 登录即可
	postsAuth := r.Group("/posts")
	postsAuth.Use(middleware.JWTAuth())
	{
		postsAuth.POST("/ai-generate", h.AIGenerate)
	}
}
