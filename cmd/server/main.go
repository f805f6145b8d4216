package main

import (
	"fmt"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/database"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/route"
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")

	// 2. 初始化数据库和缓存
	database.InitDatabase()

	// 3. 设置路由
	r := route.SetupRouter()

	// 4. 启动服务
	r.Run(fmt.Sprintf(":%d", config.Conf.Server.Port))
}
