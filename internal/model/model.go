package model

import (
	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/post"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/user"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	err := db.AutoMigrate(
		// 用户模型
		&user.User{},
		// 文章相关模型
		&post.Post{},
		&post.Tag{},
		&post.PostTag{},
	)
	if err != nil {
		return err
	}
	return nil
}
