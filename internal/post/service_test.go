package post

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/post"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/user"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/testutils"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
	"gorm.io/gorm"
)

func newTestService(db *gorm.DB, cache *Cache) *PostService {
	if cache == nil {
		cache = NewCache(nil)
	}
	return NewPostService(NewPostRepository(db), NewTagRepository(db), cache)
}

func defaultListQuery() ListQuery {
	return ListQuery{Page: 1, PageSize: 10, Sort: "time"}
}

func TestPostService_Create(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()

	t.Run("创建成功并落默认状态", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "第一篇文章",
			Content: "正文内容",
			Summary: "摘要",
		}, "作者甲")
		assert.Nil(t, err)
		assert.NotZero(t, id)

		var created post.Post
		assert.NoError(t, db.First(&created, id).Error)
		assert.Equal(t, "published", created.Status)
		assert.False(t, created.IsDeleted)
		assert.Equal(t, uint(0), created.ViewCount)
	})

	t.Run("作者不存在时隐式创建用户", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "新作者的文章",
			Content: "正文",
		}, "从未出现过的作者")
		assert.Nil(t, err)

		detail, dbErr := NewPostRepository(db).GetDetail(id)
		assert.NoError(t, dbErr)
		assert.Equal(t, "从未出现过的作者", detail.Author)
	})

	t.Run("作者为空时落到匿名", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "无名氏的文章",
			Content: "正文",
		}, "")
		assert.Nil(t, err)

		detail, dbErr := NewPostRepository(db).GetDetail(id)
		assert.NoError(t, dbErr)
		assert.Equal(t, "匿名", detail.Author)
	})

	t.Run("标题为空白返回参数错误", func(t *testing.T) {
		_, err := service.Create(ctx, CreatePostRequest{
			Title:   "   ",
			Content: "正文",
		}, "作者甲")
		assert.NotNil(t, err)
		assert.Equal(t, response.InvalidParameter, err.Code)
	})
}

func TestPostService_Tags(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	t.Run("重复标签名插入重复关联行", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "带重复标签的文章",
			Content: "正文",
			Tags:    "a, b, a",
		}, "作者甲")
		assert.Nil(t, err)

		links, dbErr := tagRepo.GetPostTags(id)
		assert.NoError(t, dbErr)
		assert.Len(t, links, 3)

		tagA, dbErr := tagRepo.FindOrCreateTag("a")
		assert.NoError(t, dbErr)
		countA := 0
		for _, link := range links {
			if link.TagID == tagA.ID {
				countA++
			}
		}
		assert.Equal(t, 2, countA)
	})

	t.Run("更新时重建标签关联", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "标签会变的文章",
			Content: "正文",
			Tags:    "旧标签",
		}, "作者甲")
		assert.Nil(t, err)

		updateErr := service.Update(ctx, id, UpdatePostRequest{
			Title:   "标签会变的文章",
			Content: "正文",
			Tags:    "新标签一, 新标签二",
		}, "作者甲")
		assert.Nil(t, updateErr)

		links, dbErr := tagRepo.GetPostTags(id)
		assert.NoError(t, dbErr)
		assert.Len(t, links, 2)

		oldTag, dbErr := tagRepo.FindOrCreateTag("旧标签")
		assert.NoError(t, dbErr)
		for _, link := range links {
			assert.NotEqual(t, oldTag.ID, link.TagID)
		}
	})

	t.Run("空白标签被跳过", func(t *testing.T) {
		id, err := service.Create(ctx, CreatePostRequest{
			Title:   "标签串有空白",
			Content: "正文",
			Tags:    "有效, , 另一个",
		}, "作者甲")
		assert.Nil(t, err)

		links, dbErr := tagRepo.GetPostTags(id)
		assert.NoError(t, dbErr)
		assert.Len(t, links, 2)
	})
}

func TestPostService_ListPayload(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()
	author := testutils.CreateTestUser(db, testutils.WithNickname("列表作者"))

	testutils.CreateTestPost(db, author.ID, testutils.WithTitle("可见文章"))
	testutils.CreateTestPost(db, author.ID, testutils.WithTitle("草稿文章"), testutils.WithStatus("draft"))
	testutils.CreateTestPost(db, author.ID, testutils.WithTitle("已删文章"), testutils.WithDeleted())

	t.Run("只返回未删除的已发布文章", func(t *testing.T) {
		payload, err := service.ListPayload(ctx, defaultListQuery())
		assert.Nil(t, err)

		var result ListResponse
		assert.NoError(t, json.Unmarshal(payload, &result))
		assert.Equal(t, int64(1), result.Pagination.Total)
		assert.Len(t, result.List, 1)
		assert.Equal(t, "可见文章", result.List[0].Title)
		assert.Equal(t, "列表作者", result.List[0].Author)
	})

	t.Run("按标签过滤", func(t *testing.T) {
		id, createErr := service.Create(ctx, CreatePostRequest{
			Title:   "带标签的文章",
			Content: "正文",
			Tags:    "专属标签",
		}, author.Username)
		assert.Nil(t, createErr)

		q := defaultListQuery()
		q.Tag = "专属标签"
		payload, err := service.ListPayload(ctx, q)
		assert.Nil(t, err)

		var result ListResponse
		assert.NoError(t, json.Unmarshal(payload, &result))
		assert.Len(t, result.List, 1)
		assert.Equal(t, id, result.List[0].ID)
	})

	t.Run("没有文章时列表为空数组", func(t *testing.T) {
		q := defaultListQuery()
		q.Tag = "不存在的标签"
		payload, err := service.ListPayload(ctx, q)
		assert.Nil(t, err)

		var result ListResponse
		assert.NoError(t, json.Unmarshal(payload, &result))
		assert.NotNil(t, result.List)
		assert.Len(t, result.List, 0)
		assert.Equal(t, int64(0), result.Pagination.Total)
	})

	t.Run("按阅读量排序", func(t *testing.T) {
		hot := testutils.CreateTestPost(db, author.ID, testutils.WithTitle("热门文章"))
		assert.NoError(t, db.Model(&post.Post{}).Where("id = ?", hot.ID).Update("view_count", 100).Error)

		q := defaultListQuery()
		q.Sort = "views"
		payload, err := service.ListPayload(ctx, q)
		assert.Nil(t, err)

		var result ListResponse
		assert.NoError(t, json.Unmarshal(payload, &result))
		assert.NotEmpty(t, result.List)
		assert.Equal(t, "热门文章", result.List[0].Title)
	})
}

func TestPostService_DetailPayload(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()
	author := testutils.CreateTestUser(db)

	t.Run("未命中缓存时同步增加阅读量", func(t *testing.T) {
		created := testutils.CreateTestPost(db, author.ID)

		payload, err := service.DetailPayload(ctx, created.ID)
		assert.Nil(t, err)

		var detail Detail
		assert.NoError(t, json.Unmarshal(payload, &detail))
		assert.Equal(t, created.ID, detail.ID)
		assert.Equal(t, uint(1), detail.ViewCount)
	})

	t.Run("文章不存在返回 NotFound", func(t *testing.T) {
		_, err := service.DetailPayload(ctx, 999999)
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})

	t.Run("已删除的文章不可见", func(t *testing.T) {
		deleted := testutils.CreateTestPost(db, author.ID, testutils.WithDeleted())

		_, err := service.DetailPayload(ctx, deleted.ID)
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})
}

func TestPostService_DetailPayload_Cache(t *testing.T) {
	redisClient := testutils.SetupTestRedis(t)
	if redisClient == nil {
		t.Skip("Redis 不可用，跳过缓存命中用例")
	}

	// 后台的阅读量更新和测试断言会并发访问数据库，
	// 这里用连接池而不是单个事务，事务不允许并发使用
	db := testutils.SetupTestDBConn(t)
	service := newTestService(db, NewCache(redisClient))
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := testutils.CreateTestUser(db)
	created := testutils.CreateTestPost(db, author.ID)
	t.Cleanup(func() {
		db.Delete(&post.Post{}, created.ID)
		db.Delete(&user.User{}, author.ID)
	})

	// 第一次读：未命中，同步 +1 并回填缓存
	payload, err := service.DetailPayload(ctx, created.ID)
	assert.Nil(t, err)

	var first Detail
	assert.NoError(t, json.Unmarshal(payload, &first))
	assert.Equal(t, uint(1), first.ViewCount)

	// 第二次读：命中缓存，返回旧阅读量，后台异步 +1
	payload, err = service.DetailPayload(ctx, created.ID)
	assert.Nil(t, err)

	var second Detail
	assert.NoError(t, json.Unmarshal(payload, &second))
	assert.Equal(t, uint(1), second.ViewCount)

	// 异步更新最终会落库
	assert.Eventually(t, func() bool {
		detail, dbErr := repo.GetDetail(created.ID)
		if dbErr != nil {
			return false
		}
		return detail.ViewCount == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestPostService_CacheInvalidation(t *testing.T) {
	redisClient := testutils.SetupTestRedis(t)
	if redisClient == nil {
		t.Skip("Redis 不可用，跳过缓存失效用例")
	}

	db := testutils.SetupTestDB(t)
	service := newTestService(db, NewCache(redisClient))
	ctx := context.Background()
	author := testutils.CreateTestUser(db)

	id, createErr := service.Create(ctx, CreatePostRequest{
		Title:   "会被改名的文章",
		Content: "正文",
	}, author.Username)
	assert.Nil(t, createErr)

	// 先读一次，填充列表缓存
	payload, err := service.ListPayload(ctx, defaultListQuery())
	assert.Nil(t, err)

	var before ListResponse
	assert.NoError(t, json.Unmarshal(payload, &before))

	// 写操作清空全部缓存，之后的读必须看到新标题
	updateErr := service.Update(ctx, id, UpdatePostRequest{
		Title:   "改名之后的标题",
		Content: "正文",
	}, author.Username)
	assert.Nil(t, updateErr)

	payload, err = service.ListPayload(ctx, defaultListQuery())
	assert.Nil(t, err)

	var after ListResponse
	assert.NoError(t, json.Unmarshal(payload, &after))

	found := false
	for _, item := range after.List {
		if item.ID == id {
			found = true
			assert.Equal(t, "改名之后的标题", item.Title)
		}
	}
	assert.True(t, found)
}

func TestPostService_Update(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()
	author := testutils.CreateTestUser(db)

	t.Run("全量覆盖更新", func(t *testing.T) {
		created := testutils.CreateTestPost(db, author.ID, testutils.WithTitle("更新前"))

		err := service.Update(ctx, created.ID, UpdatePostRequest{
			Title:   "更新后",
			Content: "新正文",
			Summary: "新摘要",
			Status:  "draft",
		}, author.Username)
		assert.Nil(t, err)

		var updated post.Post
		assert.NoError(t, db.First(&updated, created.ID).Error)
		assert.Equal(t, "更新后", updated.Title)
		assert.Equal(t, "新正文", updated.Content)
		assert.Equal(t, "draft", updated.Status)
	})

	t.Run("更新不存在的文章返回 NotFound", func(t *testing.T) {
		err := service.Update(ctx, 999999, UpdatePostRequest{
			Title:   "标题",
			Content: "正文",
		}, author.Username)
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})

	t.Run("更新已删除的文章返回 NotFound", func(t *testing.T) {
		deleted := testutils.CreateTestPost(db, author.ID, testutils.WithDeleted())

		err := service.Update(ctx, deleted.ID, UpdatePostRequest{
			Title:   "标题",
			Content: "正文",
		}, author.Username)
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})
}

func TestPostService_Delete(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()
	author := testutils.CreateTestUser(db)

	t.Run("删除后列表和详情都不可见", func(t *testing.T) {
		created := testutils.CreateTestPost(db, author.ID, testutils.WithTitle("将被删除"))

		err := service.Delete(ctx, created.ID)
		assert.Nil(t, err)

		_, detailErr := service.DetailPayload(ctx, created.ID)
		assert.NotNil(t, detailErr)
		assert.Equal(t, response.NotFound, detailErr.Code)

		payload, listErr := service.ListPayload(ctx, defaultListQuery())
		assert.Nil(t, listErr)

		var result ListResponse
		assert.NoError(t, json.Unmarshal(payload, &result))
		for _, item := range result.List {
			assert.NotEqual(t, created.ID, item.ID)
		}

		// 行还在库里，只是打了删除标记
		var row post.Post
		assert.NoError(t, db.First(&row, created.ID).Error)
		assert.True(t, row.IsDeleted)
	})

	t.Run("删除不存在的文章返回 NotFound", func(t *testing.T) {
		err := service.Delete(ctx, 999999)
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})
}

func TestPostService_DeleteMany(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestService(db, nil)
	ctx := context.Background()
	author := testutils.CreateTestUser(db)

	t.Run("批量删除", func(t *testing.T) {
		first := testutils.CreateTestPost(db, author.ID)
		second := testutils.CreateTestPost(db, author.ID)

		err := service.DeleteMany(ctx, []uint{first.ID, second.ID})
		assert.Nil(t, err)

		var count int64
		db.Model(&post.Post{}).
			Where("id IN ? AND is_deleted = ?", []uint{first.ID, second.ID}, true).
			Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("空数组返回参数错误", func(t *testing.T) {
		err := service.DeleteMany(ctx, []uint{})
		assert.NotNil(t, err)
		assert.Equal(t, response.InvalidParameter, err.Code)
	})

	t.Run("没有命中任何文章返回 NotFound", func(t *testing.T) {
		err := service.DeleteMany(ctx, []uint{999998, 999999})
		assert.NotNil(t, err)
		assert.Equal(t, response.NotFound, err.Code)
	})
}
