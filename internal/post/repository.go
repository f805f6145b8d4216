package post

import (
	"strings"

	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/post"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/user"
)

// 作者记录缺失时的占位昵称
const anonymousAuthor = "匿名"

// PostRepository 文章仓储层
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// listBase 列表/计数共用的查询条件：未删除且已发布，可按标签过滤
func (r *PostRepository) listBase(tag string) *gorm.DB {
	query := r.db.Table("posts AS p").
		Where("p.is_deleted = ? AND p.status = ?", false, "published")

	if tag != "" {
		query = query.Where(
			"p.id IN (SELECT pt.post_id FROM post_tags pt JOIN tags t ON pt.tag_id = t.id WHERE t.name = ?)",
			tag,
		)
	}

	return query
}

// List 分页查询文章列表（带作者昵称），返回行和总数
func (r *PostRepository) List(q ListQuery) ([]ListItem, int64, error) {
	orderBy := "p.created_at DESC"
	if q.Sort == "views" {
		orderBy = "p.view_count DESC"
	}

	var total int64
	if err := r.listBase(q.Tag).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.PageSize

	var items []ListItem
	err := r.listBase(q.Tag).
		Select("p.id, p.title, COALESCE(u.nickname, ?) AS author, p.summary, p.tags, p.view_count, p.created_at, p.status", anonymousAuthor).
		Joins("LEFT JOIN users u ON p.author_id = u.id").
		Order(orderBy).
		Limit(q.PageSize).
		Offset(offset).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []ListItem{}
	}

	return items, total, nil
}

// GetDetail 查询单篇文章详情（带作者昵称），不存在返回 gorm.ErrRecordNotFound
func (r *PostRepository) GetDetail(id uint) (*Detail, error) {
	var detail Detail
	err := r.db.Table("posts AS p").
		Select("p.id, p.title, COALESCE(u.nickname, ?) AS author, p.summary, p.content, p.tags, p.view_count, p.created_at, p.updated_at", anonymousAuthor).
		Joins("LEFT JOIN users u ON p.author_id = u.id").
		Where("p.id = ? AND p.is_deleted = ?", id, false).
		Take(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// IncrementViewCount 阅读量 +1，已删除的文章不计
func (r *PostRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&post.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PostRepository) Create(p *post.Post) error {
	return r.db.Create(p).Error
}

// UpdateFields 全量覆盖可变字段，返回影响行数（0 表示不存在或已删除）
func (r *PostRepository) UpdateFields(id uint, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&post.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// SoftDelete 逻辑删除单篇文章，返回影响行数
func (r *PostRepository) SoftDelete(id uint) (int64, error) {
	result := r.db.Model(&post.Post{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

// SoftDeleteMany 批量逻辑删除，返回影响行数
func (r *PostRepository) SoftDeleteMany(ids []uint) (int64, error) {
	result := r.db.Model(&post.Post{}).
		Where("id IN ?", ids).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

// EnsureUser 确保作者用户存在，返回用户ID
// 用户名为空时落到占位作者；隐式创建的用户没有可登录的密码
func (r *PostRepository) EnsureUser(username string) (uint, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		name = anonymousAuthor
	}

	var existing user.User
	err := r.db.Where("username = ?", name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	newUser := user.User{
		Username: name,
		Nickname: name,
		Password: "",
	}
	if err := r.db.Create(&newUser).Error; err != nil {
		return 0, err
	}
	return newUser.ID, nil
}

// TagRepository 标签仓储层
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreateTag 按名称查找标签，不存在则创建
func (r *TagRepository) FindOrCreateTag(name string) (*post.Tag, error) {
	var tag post.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = post.Tag{Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// AddPostTag 插入文章-标签关联
func (r *TagRepository) AddPostTag(postID, tagID uint) error {
	return r.db.Create(&post.PostTag{PostID: postID, TagID: tagID}).Error
}

// DeletePostTags 清空文章的所有标签关联
func (r *TagRepository) DeletePostTags(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&post.PostTag{}).Error
}

// GetPostTags 查询文章关联的标签关联行
func (r *TagRepository) GetPostTags(postID uint) ([]post.PostTag, error) {
	var links []post.PostTag
	err := r.db.Where("post_id = ?", postID).Find(&links).Error
	return links, err
}
