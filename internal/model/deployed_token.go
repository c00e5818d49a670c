package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 代币部署状态
const (
	TokenStatusPending  = "pending"
	TokenStatusDeployed = "deployed"
	TokenStatusActive   = "active"
	TokenStatusInactive = "inactive"
)

type DeployedToken struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	TokenAddress string `gorm:"column:token_address;type:varchar(42);uniqueIndex:idx_token_address;not null;comment:代币合约地址"`
	Name         string `gorm:"column:name;type:varchar(255);not null;comment:代币名称"`
	Symbol       string `gorm:"column:symbol;type:varchar(20);not null;comment:代币符号"`
	Description  string `gorm:"column:description;type:text;comment:代币描述"`
	ImageUrl     string `gorm:"column:image_url;type:varchar(512);default:'';comment:代币图片链接"`

	TrendTheme     string          `gorm:"column:trend_theme;type:varchar(255);not null;comment:触发部署的趋势主题"`
	SentimentScore decimal.Decimal `gorm:"column:sentiment_score;type:decimal(5,2);default:0;comment:趋势情绪分 0-100"`

	DeploymentTxHash      string          `gorm:"column:deployment_tx_hash;type:varchar(66);not null;comment:部署交易hash"`
	DeploymentBlockNumber uint64          `gorm:"column:deployment_block_number;default:0;comment:部署区块高度"`
	InitialLiquidity      decimal.Decimal `gorm:"column:initial_liquidity;type:decimal(20,8);default:0;comment:初始流动性(原生币)"`
	CurrentMarketCap      decimal.Decimal `gorm:"column:current_market_cap;type:decimal(20,8);default:0;comment:当前市值"`
	TotalVolume24h        decimal.Decimal `gorm:"column:total_volume_24h;type:decimal(20,8);default:0;comment:24小时交易量"`
	Holders               int32           `gorm:"column:holders;default:0;comment:持有人数"`

	Status string `gorm:"column:status;type:varchar(16);not null;default:'pending';comment:部署状态 pending/deployed/active/inactive"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (*DeployedToken) TableName() string {
	return "deployed_tokens"
}
