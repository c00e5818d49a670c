package deployer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/chain"
	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/notifier"
	"github.com/basepulse/pulse-agent/internal/repo"
	"github.com/basepulse/pulse-agent/pkg/logger"
	"github.com/basepulse/pulse-agent/pkg/utils"
)

// 尘额阈值: 不高于该值的手续费不入账
var feeDustThreshold = decimal.NewFromFloat(0.01)

// FeeCollector 手续费归集与国库再投资
type FeeCollector struct {
	backend      chain.Backend
	tokenRepo    repo.TokenRepo
	treasuryRepo repo.TreasuryRepo
	notifier     notifier.Notifier
	usdRate      decimal.Decimal
}

func NewFeeCollector(backend chain.Backend, tokenRepo repo.TokenRepo, treasuryRepo repo.TreasuryRepo, ntf notifier.Notifier, nativeUsdRate decimal.Decimal) *FeeCollector {
	if nativeUsdRate.LessThanOrEqual(decimal.Zero) {
		nativeUsdRate = defaultNativeUsdRate
	}
	return &FeeCollector{
		backend:      backend,
		tokenRepo:    tokenRepo,
		treasuryRepo: treasuryRepo,
		notifier:     ntf,
		usdRate:      nativeUsdRate,
	}
}

// CollectFees 查询并归集单个代币的交易手续费
// 失败记日志并返回零值, 不向上抛错
func (c *FeeCollector) CollectFees(ctx context.Context, tokenAddress string) decimal.Decimal {
	fees, err := c.backend.PendingFees(ctx, tokenAddress)
	if err != nil {
		logger.Error("❌ 查询待归集手续费失败",
			logger.FieldErr(err),
			logger.String("token_address", tokenAddress))
		return decimal.Zero
	}

	if fees.GreaterThan(feeDustThreshold) {
		tx := &model.TreasuryTransaction{
			Type:         model.TreasuryTxTypeFeeCollection,
			Amount:       fees,
			AmountUSD:    fees.Mul(c.usdRate).Round(2),
			TokenAddress: tokenAddress,
			Description:  fmt.Sprintf("Trading fees collected from %s", tokenAddress),
			Status:       model.TreasuryTxStatusConfirmed,
		}
		if err := c.treasuryRepo.Create(tx); err != nil {
			logger.Error("❌ 手续费入账失败",
				logger.FieldErr(err),
				logger.String("token_address", tokenAddress))
			return decimal.Zero
		}
	}

	return fees
}

// CollectAll 遍历全部已部署代币归集手续费, 返回本轮归集总额
func (c *FeeCollector) CollectAll(ctx context.Context) decimal.Decimal {
	tokens, err := c.tokenRepo.ListDeployed()
	if err != nil {
		logger.Error("❌ 获取已部署代币列表失败", logger.FieldErr(err))
		return decimal.Zero
	}

	total := decimal.Zero
	for _, token := range tokens {
		total = total.Add(c.CollectFees(ctx, token.TokenAddress))
	}

	if len(tokens) > 0 {
		logger.Info("💸 手续费归集完成",
			logger.Int("token_count", len(tokens)),
			logger.String("total", utils.FormatNative(total)))
	}

	return total
}

// Reinvest 国库再投资: 落一条 reinvestment 流水并通知所有者
// 持久化失败返回false并记日志, 不向上抛错
func (c *FeeCollector) Reinvest(ctx context.Context, amount decimal.Decimal) bool {
	tx := &model.TreasuryTransaction{
		Type:        model.TreasuryTxTypeReinvestment,
		Amount:      amount,
		AmountUSD:   amount.Mul(c.usdRate).Round(2),
		Description: "Treasury reinvestment into Base ecosystem",
		Status:      model.TreasuryTxStatusConfirmed,
	}
	if err := c.treasuryRepo.Create(tx); err != nil {
		logger.Error("❌ 再投资流水落库失败", logger.FieldErr(err))
		return false
	}

	logger.Info("💰 国库再投资",
		logger.String("amount", amount.String()))

	_ = c.notifier.Notify(ctx, &notifier.Notification{
		Title:   "💰 Treasury Reinvestment",
		Content: fmt.Sprintf("BasePulse reinvested %s ETH from the treasury into Base ecosystem initiatives.", amount.StringFixed(4)),
	})

	return true
}
