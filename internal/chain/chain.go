package chain

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/model"
)

// Backend 链上交互后端
// 当前只有模拟实现, 接入真实链时替换为 Clanker 部署与合约查询
type Backend interface {
	// DeployToken 部署代币, 返回合约地址与交易hash
	DeployToken(ctx context.Context, req *model.DeploymentRequest) (tokenAddress string, txHash string, err error)

	// PendingFees 查询指定代币待归集的交易手续费(原生币)
	PendingFees(ctx context.Context, tokenAddress string) (decimal.Decimal, error)
}

// MetricsSource 链上指标来源
type MetricsSource interface {
	// Fetch24h 获取与主题相关的24小时链上指标
	Fetch24h(ctx context.Context, theme string) (model.OnChainMetrics, error)
}
