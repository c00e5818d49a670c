package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 运行指标类型
const (
	MetricTypeLoopIteration = "loop_iteration"
	MetricTypeLoopError     = "loop_error"
)

type AgentMetric struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	MetricType string          `gorm:"column:metric_type;type:varchar(100);not null;comment:指标类型"`
	Value      decimal.Decimal `gorm:"column:value;type:decimal(20,8);not null;comment:指标值"`
	Timestamp  time.Time       `gorm:"column:timestamp;not null;autoCreateTime;comment:记录时间"`
	Metadata   string          `gorm:"column:metadata;type:json;comment:附加信息(JSON)"`
}

func (*AgentMetric) TableName() string {
	return "agent_metrics"
}
