package post

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/database"
)

const (
	// 列表缓存 60 秒，详情缓存 30 秒
	listCacheTTL   = 60 * time.Second
	detailCacheTTL = 30 * time.Second

	listKeyFormat   = "posts:list:%d:%d:%s:%s"
	detailKeyFormat = "posts:detail:%d"
)

// Cache 文章读路径的读穿缓存
// Redis 不可用时全部降级：读当未命中，写和失效当空操作，错误只记日志，
// 绝不让缓存故障影响请求本身
type Cache struct {
	redis *database.RedisClient
}

func NewCache(redis *database.RedisClient) *Cache {
	return &Cache{redis: redis}
}

// ListKey 列表缓存 key，由全部查询参数确定
func ListKey(q ListQuery) string {
	return fmt.Sprintf(listKeyFormat, q.Page, q.PageSize, q.Sort, q.Tag)
}

// DetailKey 详情缓存 key
func DetailKey(id uint) string {
	return fmt.Sprintf(detailKeyFormat, id)
}

// Get 读取缓存，返回 payload 和是否命中
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}

	payload, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		// key 不存在按未命中处理；真实错误记日志后同样降级为未命中
		if !errors.Is(err, redis.Nil) {
			log.Printf("[blog-service] 读取缓存失败 key=%s: %v", key, err)
		}
		return nil, false
	}
	return payload, true
}

// Set 写入缓存
func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if c.redis == nil {
		return
	}

	if err := c.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("[blog-service] 写入缓存失败 key=%s: %v", key, err)
	}
}

// FlushAll 清空整个缓存
// 任何写操作成功后整体失效，保证列表/详情不会读到脏数据，
// 代价是每次写之后全量冷缓存
func (c *Cache) FlushAll(ctx context.Context) {
	if c.redis == nil {
		return
	}

	if err := c.redis.FlushAll(ctx).Err(); err != nil {
		log.Printf("[blog-service] 清空缓存失败: %v", err)
		return
	}
	log.Printf("[blog-service] 缓存已清空")
}
