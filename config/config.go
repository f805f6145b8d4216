// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	AI       AIConfig       `koanf:"ai"`
	Frontend FrontendConfig `koanf:"frontend"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"` // debug, release
}

type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // 小时，默认 168（7天）
}

// AIConfig AI 写作助手的上游大模型配置
type AIConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"key"`
	Model  string `koanf:"model"`
}

type FrontendConfig struct {
	URL string `koanf:"url"` // 允许跨域的前端地址
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if err = godotenv.Load(); err != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", err)
			err = nil
		}

		k = koanf.New(".")

		// 加载配置文件
		if err = k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			err = fmt.Errorf("加载配置文件失败: %w", err)
			return
		}

		// 加载环境变量（会覆盖配置文件）
		if err = k.Load(env.Provider("", ".", func(s string) string {
			return strings.Replace(strings.ToLower(s), "_", ".", -1)
		}), nil); err != nil {
			log.Printf("加载环境变量失败: %v", err)
			err = nil
		}

		// 解析到结构体
		Conf = &AppConfig{}
		if err = k.Unmarshal("", Conf); err != nil {
			err = fmt.Errorf("解析配置失败: %w", err)
			return
		}

		setDefaults(Conf)
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// setDefaults 设置默认值
func setDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.JWT.ExpireTime == 0 {
		// 默认 7 天
		c.JWT.ExpireTime = 168
	}
	if c.AI.Model == "" {
		c.AI.Model = "doubao-seed-1-6-vision-250815"
	}
	if c.Frontend.URL == "" {
		c.Frontend.URL = "http://localhost:5173"
	}
}
