package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 国库流水类型: fee_collection/reward 入账, deployment_cost/reinvestment 出账
const (
	TreasuryTxTypeFeeCollection  = "fee_collection"
	TreasuryTxTypeReinvestment   = "reinvestment"
	TreasuryTxTypeDeploymentCost = "deployment_cost"
	TreasuryTxTypeReward         = "reward"
)

// 国库流水状态
const (
	TreasuryTxStatusPending   = "pending"
	TreasuryTxStatusConfirmed = "confirmed"
	TreasuryTxStatusFailed    = "failed"
)

type TreasuryTransaction struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	Type string `gorm:"column:type;type:varchar(32);not null;comment:流水类型 fee_collection/reinvestment/deployment_cost/reward"`

	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null;comment:金额(原生币)"`
	AmountUSD decimal.Decimal `gorm:"column:amount_usd;type:decimal(20,2);default:0;comment:金额(USD)"`

	TokenAddress string `gorm:"column:token_address;type:varchar(42);default:'';comment:关联代币地址"`
	TxHash       string `gorm:"column:tx_hash;type:varchar(66);default:'';comment:链上交易hash"`
	Description  string `gorm:"column:description;type:text;comment:流水说明"`

	Status string `gorm:"column:status;type:varchar(16);not null;default:'pending';comment:流水状态 pending/confirmed/failed"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (*TreasuryTransaction) TableName() string {
	return "treasury_transactions"
}
