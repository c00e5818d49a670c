package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
)

func defaultThreshold() model.ThresholdConfig {
	return model.ThresholdConfig{
		MinSentimentScore: 75,
		MinMentions:       10,
		MinVolume24hUSD:   1000000,
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name      string
		sentiment float64
		mentions  int
		volumeUSD float64
		want      bool
	}{
		{"全部达标", 80, 15, 1500000, true},
		{"全部等于阈值", 75, 10, 1000000, true},
		{"情绪分不足", 74.9, 15, 1500000, false},
		{"提及次数不足", 80, 9, 1500000, false},
		{"交易量不足", 80, 15, 999999.99, false},
		{"全部不达标", 0, 0, 0, false},
		{"负数输入", -10, -1, -500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := model.TrendData{
				Theme:          "Base ecosystem growth",
				SentimentScore: tt.sentiment,
				MentionCount:   tt.mentions,
			}
			metrics := model.OnChainMetrics{VolumeUSD24h: tt.volumeUSD}

			got := ValidateThreshold(trend, metrics, defaultThreshold())
			require.Equal(t, tt.want, got)
		})
	}
}

// NaN 出现在任何数值位都不允许通过
func TestValidateThresholdNaN(t *testing.T) {
	nan := math.NaN()

	trend := model.TrendData{SentimentScore: 90, MentionCount: 20}
	metrics := model.OnChainMetrics{VolumeUSD24h: 2000000}

	t.Run("情绪分为NaN", func(t *testing.T) {
		bad := trend
		bad.SentimentScore = nan
		require.False(t, ValidateThreshold(bad, metrics, defaultThreshold()))
	})

	t.Run("交易量为NaN", func(t *testing.T) {
		bad := metrics
		bad.VolumeUSD24h = nan
		require.False(t, ValidateThreshold(trend, bad, defaultThreshold()))
	})

	t.Run("阈值配置为NaN", func(t *testing.T) {
		cfg := defaultThreshold()
		cfg.MinSentimentScore = nan
		require.False(t, ValidateThreshold(trend, metrics, cfg))

		cfg = defaultThreshold()
		cfg.MinVolume24hUSD = nan
		require.False(t, ValidateThreshold(trend, metrics, cfg))
	})
}
