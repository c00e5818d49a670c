package trend

import (
	"github.com/basepulse/pulse-agent/internal/model"
)

// ValidateThreshold 判断趋势是否达到部署阈值
// 纯函数, 不做任何IO; NaN 与任何值比较均为 false, 因此含 NaN 的输入永远不达标
func ValidateThreshold(trend model.TrendData, metrics model.OnChainMetrics, cfg model.ThresholdConfig) bool {
	sentimentValid := trend.SentimentScore >= cfg.MinSentimentScore
	mentionValid := trend.MentionCount >= cfg.MinMentions
	volumeValid := metrics.VolumeUSD24h >= cfg.MinVolume24hUSD

	return sentimentValid && mentionValid && volumeValid
}
