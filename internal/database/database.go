package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model"
)

var (
	PostgresDB *gorm.DB
	RedisDB    *RedisClient
)

func InitDatabase() {
	initPostgres()
	initRedis()
}

func initPostgres() {
	databaseConf := config.Conf.Database

	var err error
	PostgresDB, err = InitPostgres(
		&PostgresConfig{
			ServiceName:     "blog-service",
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        databaseConf.LogLevel,
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
		},
	)

	if err != nil {
		panic(err)
	}

	// 初始化数据库表
	err = model.InitTable(PostgresDB)
	if err != nil {
		panic(err)
	}
}

// initRedis Redis 连接失败不中断启动：缓存不可用时按透传处理
func initRedis() {
	redisConf := config.Conf.Redis

	client, err := InitRedis(&RedisConfig{
		ServiceName: "blog-service",
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	if err != nil {
		log.Printf("[blog-service] Redis 初始化失败，缓存降级为直查数据库: %v", err)
		RedisDB = nil
		return
	}

	RedisDB = client
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return PostgresDB
}
