// Package post 文章相关模型
package post

import "time"

// Post 文章表
// 删除是逻辑删除（is_deleted），列表和详情查询都要排除已删除行
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	AuthorID uint   `gorm:"index" json:"author_id"`
	Summary  string `gorm:"type:text" json:"summary"`
	Content  string `gorm:"type:text" json:"content"`
	// 冗余的逗号拼接标签串，规范化关联见 PostTag
	Tags      string    `gorm:"type:varchar(255)" json:"tags"`
	ViewCount uint      `gorm:"default:0" json:"view_count"`
	Status    string    `gorm:"type:varchar(20);default:'published'" json:"status"`
	IsDeleted bool      `gorm:"default:false;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
