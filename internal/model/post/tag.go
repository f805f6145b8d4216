package post

import "time"

// Tag 标签表
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PostTag 文章-标签关联表
// 注意：不是复合主键。同一次请求里重复的标签名会插入重复关联行，
// 是否去重待产品确认
type PostTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index" json:"post_id"`
	TagID     uint      `gorm:"index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
