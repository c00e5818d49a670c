package chain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/pkg/logger"
)

// SimulatedBackend 模拟链上后端: 随机生成地址与交易hash, 不发起任何网络请求
type SimulatedBackend struct{}

func NewSimulatedBackend() *SimulatedBackend {
	return &SimulatedBackend{}
}

// DeployToken 模拟部署, 返回随机地址与随机交易hash
func (b *SimulatedBackend) DeployToken(ctx context.Context, req *model.DeploymentRequest) (string, string, error) {
	addr, err := randomHex(20)
	if err != nil {
		return "", "", errors.Wrap(err, "生成模拟合约地址失败")
	}
	hash, err := randomHex(32)
	if err != nil {
		return "", "", errors.Wrap(err, "生成模拟交易hash失败")
	}

	logger.Info("🚀 模拟部署代币",
		logger.String("name", req.Name),
		logger.String("symbol", req.Symbol),
		logger.String("trend_theme", req.TrendTheme),
		logger.String("initial_liquidity", req.InitialLiquidity.String()))

	return "0x" + addr, "0x" + hash, nil
}

// PendingFees 模拟手续费查询, 返回 0-0.5 之间的随机值
func (b *SimulatedBackend) PendingFees(ctx context.Context, tokenAddress string) (decimal.Decimal, error) {
	fees := decimal.NewFromFloat(mrand.Float64() * 0.5)
	return fees.Round(8), nil
}

// SimulatedMetrics 模拟链上指标来源, 接入 DexScreener 前的占位实现
type SimulatedMetrics struct{}

func NewSimulatedMetrics() *SimulatedMetrics {
	return &SimulatedMetrics{}
}

// Fetch24h 返回随机指标
func (s *SimulatedMetrics) Fetch24h(ctx context.Context, theme string) (model.OnChainMetrics, error) {
	return model.OnChainMetrics{
		Volume24h:        mrand.Float64() * 1000,
		VolumeUSD24h:     mrand.Float64() * 2500000,
		ActiveAddresses:  mrand.Intn(10000),
		TransactionCount: mrand.Intn(50000),
	}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
