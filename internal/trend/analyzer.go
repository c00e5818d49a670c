package trend

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/basepulse/pulse-agent/internal/llm"
	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/pkg/logger"
)

const analysisSystemPrompt = `You are a trend analysis expert for the Base blockchain ecosystem. Analyze the following social media posts and extract:
1. Main themes/topics being discussed
2. Sentiment score (0-100, where 100 is most positive)
3. Number of mentions for each theme

Return a JSON array with objects containing: theme, sentimentScore (0-100), mentionCount.
Focus on themes related to Base, DeFi, tokens, and blockchain innovation.`

// 结构化输出约束, 与提示词中的字段一一对应
const analysisSchema = `{
  "type": "object",
  "properties": {
    "trends": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "theme": {"type": "string"},
          "sentimentScore": {"type": "number", "minimum": 0, "maximum": 100},
          "mentionCount": {"type": "integer", "minimum": 1}
        },
        "required": ["theme", "sentimentScore", "mentionCount"]
      }
    }
  },
  "required": ["trends"]
}`

type analysisResult struct {
	Trends []struct {
		Theme          string  `json:"theme"`
		SentimentScore float64 `json:"sentimentScore"`
		MentionCount   int     `json:"mentionCount"`
	} `json:"trends"`
}

// Analyzer 调用语言模型从社交帖子中提取趋势
type Analyzer struct {
	client llm.Client
}

func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{
		client: client,
	}
}

// AnalyzePosts 分析一批帖子并返回趋势列表
// 约定: 本方法不向调用方抛错, 请求失败或响应不合法时记日志并返回空列表
func (a *Analyzer) AnalyzePosts(ctx context.Context, posts []string) []model.TrendData {
	if len(posts) == 0 {
		return nil
	}

	postsText := strings.Join(posts, "\n---\n")

	resp, err := a.client.ChatCompletion(ctx, &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: "Analyze these posts:\n\n" + postsText},
		},
		ResponseFormat: &llm.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &llm.JSONSchema{
				Name:   "trend_analysis",
				Strict: true,
				Schema: json.RawMessage(analysisSchema),
			},
		},
	})
	if err != nil {
		logger.Error("❌ 趋势分析请求失败", logger.FieldErr(err))
		return nil
	}

	content := resp.Content()
	if content == "" {
		logger.Warn("⚠️ 模型返回空内容")
		return nil
	}

	var result analysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		logger.Error("❌ 解析趋势分析结果失败",
			logger.FieldErr(err),
			logger.String("content", content))
		return nil
	}

	trends := make([]model.TrendData, 0, len(result.Trends))
	for _, t := range result.Trends {
		// 字段越界视为整体解析失败
		if t.Theme == "" || t.SentimentScore < 0 || t.SentimentScore > 100 || t.MentionCount < 1 {
			logger.Error("❌ 趋势分析结果字段越界",
				logger.String("theme", t.Theme),
				logger.Float64("sentiment_score", t.SentimentScore),
				logger.Int("mention_count", t.MentionCount))
			return nil
		}
		trends = append(trends, model.TrendData{
			Theme:          t.Theme,
			Mentions:       []string{},
			SentimentScore: t.SentimentScore,
			MentionCount:   t.MentionCount,
		})
	}

	return trends
}
