package aiwriter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

func newTestClient(serverURL string) *Client {
	return NewClientWith(config.AIConfig{
		URL:    serverURL,
		APIKey: "test-key",
		Model:  "test-model",
	})
}

func TestGenerate_MissingConfig(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	tests := []struct {
		name string
		cfg  config.AIConfig
	}{
		{
			name: "URL 未配置",
			cfg:  config.AIConfig{APIKey: "key"},
		},
		{
			name: "Key 未配置",
			cfg:  config.AIConfig{URL: server.URL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClientWith(tt.cfg)

			draft, err := client.Generate(context.Background(), "标题", "")
			assert.Nil(t, draft)
			assert.NotNil(t, err)
			// 配置缺失必须在发起网络调用之前就报错
			assert.False(t, called)
		})
	}
}

func TestGenerate_TopLevelChoices(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message": map[string]string{
						"role":    "assistant",
						"content": `{"summary":"一句话摘要","content":"生成的正文"}`,
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	draft, err := client.Generate(context.Background(), "测试标题", "Go, 博客")
	assert.Nil(t, err)
	assert.Equal(t, "一句话摘要", draft.Summary)
	assert.Equal(t, "生成的正文", draft.Content)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "测试标题")
	assert.Contains(t, gotReq.Messages[0].Content, "Go, 博客")
}

func TestGenerate_NestedOutputChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": map[string]interface{}{
				"choices": []map[string]interface{}{
					{
						"message": map[string]string{
							"role":    "assistant",
							"content": `{"summary":"嵌套格式摘要","content":"嵌套格式正文"}`,
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	draft, err := client.Generate(context.Background(), "标题", "")
	assert.Nil(t, err)
	assert.Equal(t, "嵌套格式摘要", draft.Summary)
	assert.Equal(t, "嵌套格式正文", draft.Content)
}

func TestGenerate_RawTextFallback(t *testing.T) {
	t.Run("消息内容不是 JSON 时整体当正文", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{
						"message": map[string]string{
							"role":    "assistant",
							"content": "这是一段没有按要求输出 JSON 的正文",
						},
					},
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		draft, err := client.Generate(context.Background(), "标题", "")
		assert.Nil(t, err)
		assert.Empty(t, draft.Summary)
		assert.Equal(t, "这是一段没有按要求输出 JSON 的正文", draft.Content)
	})

	t.Run("两种格式都没有时回退到原始响应体", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"summary":"直接返回的摘要","content":"直接返回的正文"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		draft, err := client.Generate(context.Background(), "标题", "")
		assert.Nil(t, err)
		assert.Equal(t, "直接返回的摘要", draft.Summary)
		assert.Equal(t, "直接返回的正文", draft.Content)
	})
}

func TestGenerate_UpstreamErrors(t *testing.T) {
	t.Run("响应不是 JSON 报上游错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("internal server error"))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		draft, err := client.Generate(context.Background(), "标题", "")
		assert.Nil(t, draft)
		assert.NotNil(t, err)
		assert.Equal(t, response.UpstreamError, err.Code)
		// 错误信息里带上原始返回方便排查
		assert.Contains(t, err.Msg, "internal server error")
	})

	t.Run("连接失败报上游错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestClient(server.URL)

		draft, err := client.Generate(context.Background(), "标题", "")
		assert.Nil(t, draft)
		assert.NotNil(t, err)
		assert.Equal(t, response.UpstreamError, err.Code)
	})
}

func TestGenerate_KeywordsPlaceholder(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "正文"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Generate(context.Background(), "标题", "   ")
	assert.Nil(t, err)
	assert.Contains(t, gotReq.Messages[0].Content, "（无特别关键词）")
}
