package post

import "time"

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	Summary string `json:"summary"`
	// 逗号分隔的标签串，如 "测试,随笔"
	Tags   string `json:"tags"`
	Status string `json:"status" binding:"omitempty,oneof=draft published"`
	// 作者名兜底字段，正常情况下用登录用户名
	Author string `json:"author"`
}

// UpdatePostRequest 更新文章请求，字段与创建一致，全量覆盖
type UpdatePostRequest = CreatePostRequest

// BatchDeleteRequest 批量删除请求
type BatchDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// GenerateRequest AI 写作助手请求
type GenerateRequest struct {
	Title    string `json:"title" binding:"required"`
	Keywords string `json:"keywords"`
}

// ListItem 列表行，不含正文
type ListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Summary   string    `json:"summary"`
	Tags      string    `json:"tags"`
	ViewCount uint      `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// Detail 详情，含正文
type Detail struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	ViewCount uint      `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination 分页信息
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// ListResponse 列表响应体，序列化后整体缓存
type ListResponse struct {
	List       []ListItem `json:"list"`
	Pagination Pagination `json:"pagination"`
}

// ListQuery 列表查询参数，构成缓存 key
type ListQuery struct {
	Page     int
	PageSize int
	Sort     string // time / views
	Tag      string
}
