package post

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/aiwriter"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/dto"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

type PostHandler struct {
	service  *PostService
	aiClient *aiwriter.Client
}

func NewPostHandler(service *PostService, aiClient *aiwriter.Client) *PostHandler {
	return &PostHandler{
		service:  service,
		aiClient: aiClient,
	}
}

// List 获取文章列表
// @Summary 获取文章列表（分页）
// @Description 支持标签筛选和排序，带 Redis 缓存和 ETag 协商缓存
// @Tags Post
// @Produce json
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(10)
// @Param tag query string false "标签筛选"
// @Param sort query string false "排序: time/views" default(time)
// @Success 200 {object} ListResponse
// @Success 304 "Not Modified"
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	sort := c.DefaultQuery("sort", "time")
	if sort != "views" {
		sort = "time"
	}

	q := ListQuery{
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Tag:      c.Query("tag"),
	}

	payload, err := h.service.ListPayload(c.Request.Context(), q)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	// ETag 协商缓存：指纹一致时返回 304 不带响应体
	etag := fingerprint(payload)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=0, must-revalidate")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Detail 获取文章详情
// @Summary 获取文章详情
// @Description 返回完整正文并增加阅读量
// @Tags Post
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} Detail
// @Failure 404 {object} response.Response
// @Router /posts/{id} [get]
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payload, err := h.service.DetailPayload(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Create 新增文章
// @Summary 新增文章
// @Tags Post
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "创建文章请求"
// @Success 201 {object} map[string]any
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	id, err := h.service.Create(c.Request.Context(), req, h.authorName(c, req))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "创建成功"})
}

// Update 修改文章
// @Summary 修改文章
// @Tags Post
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body UpdatePostRequest true "更新文章请求"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req, h.authorName(c, req)); err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, gin.H{"message": "更新成功"})
}

// Delete 删除文章（逻辑删除）
// @Summary 删除文章
// @Tags Post
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, gin.H{"message": "删除成功"})
}

// BatchDelete 批量删除文章
// @Summary 批量删除文章
// @Tags Post
// @Accept json
// @Produce json
// @Param request body BatchDeleteRequest true "批量删除请求"
// @Success 200 {object} response.Response
// @Router /posts [delete]
func (h *PostHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.DeleteMany(c.Request.Context(), req.IDs); err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, gin.H{"message": "批量删除成功"})
}

// AIGenerate AI 写作助手
// @Summary AI 写作助手
// @Description 根据标题和关键词生成文章草稿和摘要
// @Tags Post
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "生成请求"
// @Success 200 {object} aiwriter.Draft
// @Router /posts/ai-generate [post]
func (h *PostHandler) AIGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("标题不能为空"),
		))
		return
	}

	draft, err := h.aiClient.Generate(c.Request.Context(), req.Title, req.Keywords)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, gin.H{
		"summary": draft.Summary,
		"content": draft.Content,
	})
}

// authorName 作者名兜底链：登录用户名 > 请求里的 author 字段
// 两者都没有时由仓储层落到占位作者
func (h *PostHandler) authorName(c *gin.Context, req CreatePostRequest) string {
	if username, exists := c.Get("username"); exists {
		if name, ok := username.(string); ok && name != "" {
			return name
		}
	}
	return req.Author
}

// fingerprint 响应体内容指纹，作为 ETag
func fingerprint(payload []byte) string {
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// parseID 解析路径中的文章ID，非法时直接响应 400
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("无效的文章ID"),
		))
		return 0, false
	}
	return uint(id), true
}
