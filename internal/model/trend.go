package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendData 从社交帖子中提取出的单个趋势
type TrendData struct {
	Theme          string   `json:"theme"`
	Mentions       []string `json:"mentions"`
	SentimentScore float64  `json:"sentimentScore"`
	MentionCount   int      `json:"mentionCount"`
}

// OnChainMetrics 趋势对应的链上指标快照
type OnChainMetrics struct {
	Volume24h        float64 `json:"volume24h"`
	VolumeUSD24h     float64 `json:"volumeUSD24h"`
	ActiveAddresses  int     `json:"activeAddresses"`
	TransactionCount int     `json:"transactionCount"`
}

// ThresholdConfig 趋势触发部署的阈值
type ThresholdConfig struct {
	MinSentimentScore float64
	MinMentions       int
	MinVolume24hUSD   float64
}

// TokenMetadata 根据趋势推导出的代币元数据
type TokenMetadata struct {
	Name        string
	Symbol      string
	Description string
}

// DeploymentRequest 一次代币部署的全部输入
type DeploymentRequest struct {
	Name             string
	Symbol           string
	Description      string
	ImageUrl         string
	InitialLiquidity decimal.Decimal
	TrendTheme       string
	SentimentScore   float64
}

// DeploymentResult 部署结果, 失败时Success为false且Error非空
type DeploymentResult struct {
	Success      bool
	TokenAddress string
	TxHash       string
	Error        string
}

// SocialPost 社交媒体帖子, 趋势分析的原始输入
type SocialPost struct {
	Platform        string
	PostID          string
	Content         string
	EngagementCount int32
	PostedAt        time.Time
}
