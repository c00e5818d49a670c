package trend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/llm"
)

type fakeClient struct {
	resp   *llm.ChatResponse
	err    error
	called bool
	gotReq *llm.ChatRequest
}

func (f *fakeClient) ChatCompletion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.called = true
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func chatResponse(content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Choices: []llm.Choice{
			{Message: llm.Message{Role: "assistant", Content: content}},
		},
	}
}

func TestAnalyzePosts(t *testing.T) {
	client := &fakeClient{
		resp: chatResponse(`{"trends":[{"theme":"Base ecosystem growth","sentimentScore":87.3,"mentionCount":12},{"theme":"DeFi innovation","sentimentScore":65.0,"mentionCount":5}]}`),
	}
	analyzer := NewAnalyzer(client)

	trends := analyzer.AnalyzePosts(context.Background(), []string{"post one", "post two"})

	require.Len(t, trends, 2)
	require.Equal(t, "Base ecosystem growth", trends[0].Theme)
	require.Equal(t, 87.3, trends[0].SentimentScore)
	require.Equal(t, 12, trends[0].MentionCount)
	require.NotNil(t, trends[0].Mentions)

	// 请求形状: system提示词 + 拼接后的帖子 + 严格JSON schema
	require.Len(t, client.gotReq.Messages, 2)
	require.Equal(t, "system", client.gotReq.Messages[0].Role)
	require.Contains(t, client.gotReq.Messages[1].Content, "post one\n---\npost two")
	require.Equal(t, "json_schema", client.gotReq.ResponseFormat.Type)
	require.Equal(t, "trend_analysis", client.gotReq.ResponseFormat.JSONSchema.Name)
	require.True(t, client.gotReq.ResponseFormat.JSONSchema.Strict)
}

// 空输入不发起请求, 返回零个趋势
func TestAnalyzePostsEmptyInput(t *testing.T) {
	client := &fakeClient{}
	analyzer := NewAnalyzer(client)

	trends := analyzer.AnalyzePosts(context.Background(), nil)

	require.Empty(t, trends)
	require.False(t, client.called)
}

// 任何失败路径都不允许向上抛错, 只返回空列表
func TestAnalyzePostsSwallowsFailures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"请求失败", &fakeClient{err: errors.New("connection refused")}},
		{"非法JSON", &fakeClient{resp: chatResponse("not json at all")}},
		{"空内容", &fakeClient{resp: &llm.ChatResponse{}}},
		{"情绪分越界", &fakeClient{resp: chatResponse(`{"trends":[{"theme":"Base","sentimentScore":150,"mentionCount":3}]}`)}},
		{"提及次数为零", &fakeClient{resp: chatResponse(`{"trends":[{"theme":"Base","sentimentScore":50,"mentionCount":0}]}`)}},
		{"主题为空", &fakeClient{resp: chatResponse(`{"trends":[{"theme":"","sentimentScore":50,"mentionCount":3}]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(tt.client)
			require.NotPanics(t, func() {
				trends := analyzer.AnalyzePosts(context.Background(), []string{"some post"})
				require.Empty(t, trends)
			})
		})
	}
}
