package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TrendAnalysis struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	Theme          string          `gorm:"column:theme;type:varchar(255);not null;comment:趋势主题"`
	SentimentScore decimal.Decimal `gorm:"column:sentiment_score;type:decimal(5,2);not null;comment:情绪分 0-100"`
	MentionCount   int32           `gorm:"column:mention_count;not null;comment:提及次数"`

	OnChainVolume    decimal.Decimal `gorm:"column:on_chain_volume;type:decimal(20,8);default:0;comment:24小时链上交易量(原生币)"`
	OnChainVolumeUSD decimal.Decimal `gorm:"column:on_chain_volume_usd;type:decimal(20,2);default:0;comment:24小时链上交易量(USD)"`

	DeploymentTriggered bool    `gorm:"column:deployment_triggered;not null;default:false;comment:是否触发了代币部署"`
	DeployedTokenID     *uint64 `gorm:"column:deployed_token_id;comment:关联的部署代币ID"`

	RawData string `gorm:"column:raw_data;type:json;comment:原始趋势数据(JSON)"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (*TrendAnalysis) TableName() string {
	return "trend_analysis"
}
