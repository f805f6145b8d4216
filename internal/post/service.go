package post

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/post"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

type PostService struct {
	postRepo *PostRepository
	tagRepo  *TagRepository
	cache    *Cache
}

func NewPostService(postRepo *PostRepository, tagRepo *TagRepository, cache *Cache) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		cache:    cache,
	}
}

// ListPayload 列表读路径：先查缓存，未命中再查库并回填
// 返回序列化好的响应体，ETag 在 handler 层基于这份字节算
func (s *PostService) ListPayload(ctx context.Context, q ListQuery) ([]byte, *response.BusinessError) {
	cacheKey := ListKey(q)

	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		return payload, nil
	}

	items, total, err := s.postRepo.List(q)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取文章列表失败"),
			response.WithError(err),
		)
	}

	payload, err := json.Marshal(ListResponse{
		List: items,
		Pagination: Pagination{
			Page:     q.Page,
			PageSize: q.PageSize,
			Total:    total,
		},
	})
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取文章列表失败"),
			response.WithError(err),
		)
	}

	s.cache.Set(ctx, cacheKey, payload, listCacheTTL)

	return payload, nil
}

// DetailPayload 详情读路径
// 缓存命中：后台异步 +1 阅读量，立即返回缓存内容；
// 未命中：先同步 +1，再查库、回填缓存
func (s *PostService) DetailPayload(ctx context.Context, id uint) ([]byte, *response.BusinessError) {
	cacheKey := DetailKey(id)

	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		// 命中缓存时阅读量在后台异步 +1，失败只记日志
		go func() {
			if err := s.postRepo.IncrementViewCount(id); err != nil {
				log.Printf("[blog-service] 异步更新阅读量失败 id=%d: %v", id, err)
			}
		}()
		return payload, nil
	}

	// 没有缓存：同步 +1 阅读量，再查数据库
	if err := s.postRepo.IncrementViewCount(id); err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取文章详情失败"),
			response.WithError(err),
		)
	}

	detail, err := s.postRepo.GetDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.NotFound),
				response.WithErrorMessage("文章不存在"),
			)
		}
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取文章详情失败"),
			response.WithError(err),
		)
	}

	payload, marshalErr := json.Marshal(detail)
	if marshalErr != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取文章详情失败"),
			response.WithError(marshalErr),
		)
	}

	s.cache.Set(ctx, cacheKey, payload, detailCacheTTL)

	return payload, nil
}

// Create 创建文章，返回新文章ID
func (s *PostService) Create(ctx context.Context, req CreatePostRequest, authorName string) (uint, *response.BusinessError) {
	if err := validateWriteRequest(req); err != nil {
		return 0, err
	}

	authorID, err := s.postRepo.EnsureUser(authorName)
	if err != nil {
		return 0, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("新增文章失败"),
			response.WithError(err),
		)
	}

	status := req.Status
	if status == "" {
		status = "published"
	}

	newPost := &post.Post{
		Title:    req.Title,
		AuthorID: authorID,
		Summary:  req.Summary,
		Content:  req.Content,
		Tags:     req.Tags,
		Status:   status,
	}
	if err := s.postRepo.Create(newPost); err != nil {
		return 0, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("新增文章失败"),
			response.WithError(err),
		)
	}

	s.reassociateTags(newPost.ID, req.Tags)

	s.cache.FlushAll(ctx)

	return newPost.ID, nil
}

// Update 全量覆盖更新（last-write-wins，无并发版本检查）
func (s *PostService) Update(ctx context.Context, id uint, req UpdatePostRequest, authorName string) *response.BusinessError {
	if err := validateWriteRequest(req); err != nil {
		return err
	}

	authorID, err := s.postRepo.EnsureUser(authorName)
	if err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("更新文章失败"),
			response.WithError(err),
		)
	}

	status := req.Status
	if status == "" {
		status = "published"
	}

	affected, err := s.postRepo.UpdateFields(id, map[string]interface{}{
		"title":     req.Title,
		"author_id": authorID,
		"summary":   req.Summary,
		"content":   req.Content,
		"tags":      req.Tags,
		"status":    status,
	})
	if err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("更新文章失败"),
			response.WithError(err),
		)
	}
	if affected == 0 {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("文章不存在或已删除"),
		)
	}

	s.reassociateTags(id, req.Tags)

	s.cache.FlushAll(ctx)

	return nil
}

// Delete 逻辑删除单篇文章
func (s *PostService) Delete(ctx context.Context, id uint) *response.BusinessError {
	affected, err := s.postRepo.SoftDelete(id)
	if err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("删除文章失败"),
			response.WithError(err),
		)
	}
	if affected == 0 {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("文章不存在"),
		)
	}

	s.cache.FlushAll(ctx)

	return nil
}

// DeleteMany 批量逻辑删除
func (s *PostService) DeleteMany(ctx context.Context, ids []uint) *response.BusinessError {
	if len(ids) == 0 {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("ids 必须是非空数组"),
		)
	}

	affected, err := s.postRepo.SoftDeleteMany(ids)
	if err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("批量删除文章失败"),
			response.WithError(err),
		)
	}
	if affected == 0 {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("没有匹配到文章"),
		)
	}

	s.cache.FlushAll(ctx)

	return nil
}

// reassociateTags 重建文章的标签关联：先清空旧关联，再按标签串逐个建立
// 非事务的尽力而为：中途失败只记日志，不回滚也不重试；
// 重复标签名会插入重复关联行（未去重，待产品确认）
func (s *PostService) reassociateTags(postID uint, tagsCsv string) {
	if err := s.tagRepo.DeletePostTags(postID); err != nil {
		log.Printf("[blog-service] 清空文章标签关联失败 post_id=%d: %v", postID, err)
		return
	}

	if tagsCsv == "" {
		return
	}

	for _, name := range strings.Split(tagsCsv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := s.tagRepo.FindOrCreateTag(name)
		if err != nil {
			log.Printf("[blog-service] 创建标签失败 name=%s: %v", name, err)
			continue
		}

		if err := s.tagRepo.AddPostTag(postID, tag.ID); err != nil {
			log.Printf("[blog-service] 关联标签失败 post_id=%d tag_id=%d: %v", postID, tag.ID, err)
		}
	}
}

// validateWriteRequest 写操作公共校验：标题和正文必填
func validateWriteRequest(req CreatePostRequest) *response.BusinessError {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("title 和 content 必填"),
		)
	}
	return nil
}
