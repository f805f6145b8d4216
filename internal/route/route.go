package route

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/auth"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/database"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/post"
)

func initRoute(r *gin.Engine) {
	// 健康检查接口
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth.RegisterRoutes(api.Group("/auth"), database.PostgresDB)
		post.SetupPostRoutes(api, database.PostgresDB, database.RedisDB)
	}
}

func SetupRouter() *gin.Engine {
	if config.Conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Conf.Frontend.URL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// 静态资源强缓存：7 天且内容不变
	static := r.Group("/static", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=604800, immutable")
		c.Next()
	})
	static.Static("/", "./public")

	initRoute(r)

	return r
}
