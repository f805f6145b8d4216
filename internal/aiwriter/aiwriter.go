// Package aiwriter AI 写作助手：把标题/关键词转成提示词，
// 调用配置的大模型接口生成文章草稿
package aiwriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

const promptTemplate = `你是一个中文博客写作助手，请根据给定标题和关键词生成一篇博客文章草稿，并给出一个简短摘要。
要求：
- 文章语言：中文
- 面向普通读者，风格尽量通俗易懂
- 结构包含：引言、2~3个小节、简单总结
- 字数控制在 600 ~ 1200 字之间
- 摘要 1~2 句话即可
- 输出 JSON 格式，必须是标准 JSON

标题：%s
关键词：%s

输出 JSON 结构如下：
{
  "summary": "这里是文章摘要",
  "content": "这里是文章正文，使用换行分段"
}`

// Draft 生成的草稿
type Draft struct {
	Summary string `json:"summary"`
	Content string `json:"content"`
	// 大模型返回的原始文本，调试用，不序列化
	Raw string `json:"-"`
}

// Client 大模型接口客户端
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient 用全局配置创建客户端
func NewClient() *Client {
	return NewClientWith(config.Conf.AI)
}

// NewClientWith 用指定配置创建客户端
func NewClientWith(cfg config.AIConfig) *Client {
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: http.DefaultClient,
	}
}

// 单轮对话请求体
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// chatResponse 兼容两种已知的返回格式：
// 顶层 choices，或嵌套在 output 下的 choices
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Output  *struct {
		Choices []chatChoice `json:"choices"`
	} `json:"output"`

	// 原始响应体，回退解析用
	rawBody string
}

// Generate 根据标题/关键词生成文章草稿
// 配置缺失在发起任何网络调用之前报错
func (c *Client) Generate(ctx context.Context, title, keywords string) (*Draft, *response.BusinessError) {
	if c.url == "" || c.apiKey == "" {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("缺少 AI 接口配置（URL 或 Key 未设置）"),
		)
	}

	cleanTitle := strings.TrimSpace(title)
	cleanKeywords := strings.TrimSpace(keywords)
	if cleanKeywords == "" {
		cleanKeywords = "（无特别关键词）"
	}

	prompt := fmt.Sprintf(promptTemplate, cleanTitle, cleanKeywords)

	raw, err := c.callChat(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseDraft(raw), nil
}

// callChat 发起单轮对话请求，返回上游的原始响应体
func (c *Client) callChat(ctx context.Context, prompt string) (*chatResponse, *response.BusinessError) {
	body, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.UpstreamError),
			response.WithErrorMessage("构建 AI 请求失败: "+err.Error()),
		)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.UpstreamError),
			response.WithErrorMessage("调用 AI 接口失败: "+err.Error()),
		)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.UpstreamError),
			response.WithErrorMessage("读取 AI 响应失败: "+err.Error()),
		)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.UpstreamError),
			response.WithErrorMessage("解析 AI 返回失败: "+err.Error()+" 原始返回: "+string(data)),
		)
	}
	chatResp.rawBody = string(data)

	return &chatResp, nil
}

// parseDraft 从上游响应里提取草稿
// 依次尝试已知的消息字段位置，最后回退到原始文本当正文
func parseDraft(resp *chatResponse) *Draft {
	var contentText string

	switch {
	case len(resp.Choices) > 0:
		contentText = resp.Choices[0].Message.Content
	case resp.Output != nil && len(resp.Output.Choices) > 0:
		contentText = resp.Output.Choices[0].Message.Content
	default:
		contentText = resp.rawBody
	}

	// 尝试把模型输出解析成 JSON
	var parsed struct {
		Summary string `json:"summary"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(contentText), &parsed); err == nil {
		return &Draft{
			Summary: strings.TrimSpace(parsed.Summary),
			Content: strings.TrimSpace(parsed.Content),
			Raw:     contentText,
		}
	}

	// 不是合法 JSON，直接当正文用
	return &Draft{
		Summary: "",
		Content: strings.TrimSpace(contentText),
		Raw:     contentText,
	}
}
