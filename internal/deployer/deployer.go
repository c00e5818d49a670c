package deployer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/chain"
	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/notifier"
	"github.com/basepulse/pulse-agent/internal/repo"
	"github.com/basepulse/pulse-agent/pkg/logger"
	"github.com/basepulse/pulse-agent/pkg/utils"
)

// 部署成本比例: 初始流动性的1%
var deploymentCostRate = decimal.NewFromFloat(0.01)

// 原生币对USD的默认估算汇率
var defaultNativeUsdRate = decimal.NewFromInt(2500)

// Deployer 代币部署器: 调用链上后端部署, 事务内落库, 再对外通知
type Deployer struct {
	backend   chain.Backend
	tokenRepo repo.TokenRepo
	notifier  notifier.Notifier
	usdRate   decimal.Decimal
}

func New(backend chain.Backend, tokenRepo repo.TokenRepo, ntf notifier.Notifier, nativeUsdRate decimal.Decimal) *Deployer {
	if nativeUsdRate.LessThanOrEqual(decimal.Zero) {
		nativeUsdRate = defaultNativeUsdRate
	}
	return &Deployer{
		backend:   backend,
		tokenRepo: tokenRepo,
		notifier:  ntf,
		usdRate:   nativeUsdRate,
	}
}

// Deploy 执行一次代币部署
// 约定: 任何错误都在本层转化为失败结果返回, 不向调用方抛出
// 失败时不留下任何数据行, 只发送失败通知
func (d *Deployer) Deploy(ctx context.Context, req *model.DeploymentRequest) *model.DeploymentResult {
	result, err := d.deploy(ctx, req)
	if err != nil {
		logger.Error("❌ 代币部署失败",
			logger.FieldErr(err),
			logger.String("trend_theme", req.TrendTheme),
			logger.String("symbol", req.Symbol))

		// 失败通知尽力而为, 通知失败不改变部署结果
		_ = d.notifier.Notify(ctx, &notifier.Notification{
			Title:   "❌ Token Deployment Failed",
			Content: fmt.Sprintf("BasePulse failed to deploy token for trend %q.\n\nError: %s", req.TrendTheme, err.Error()),
		})

		return &model.DeploymentResult{
			Success: false,
			Error:   err.Error(),
		}
	}

	logger.Info("✅ 代币部署成功",
		logger.String("token_address", utils.ShortAddress(result.TokenAddress)),
		logger.String("tx_hash", result.TxHash),
		logger.String("symbol", req.Symbol))

	_ = d.notifier.Notify(ctx, &notifier.Notification{
		Title: fmt.Sprintf("🚀 Token Deployed: %s", req.Symbol),
		Content: fmt.Sprintf(
			"BasePulse deployed a new token %q (%s) for the trend %q with sentiment score %.1f/100.\n\nToken Address: %s\nTx Hash: %s",
			req.Name, req.Symbol, req.TrendTheme, req.SentimentScore, result.TokenAddress, result.TxHash,
		),
	})

	return result
}

func (d *Deployer) deploy(ctx context.Context, req *model.DeploymentRequest) (*model.DeploymentResult, error) {
	tokenAddress, txHash, err := d.backend.DeployToken(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "链上部署失败")
	}

	token := &model.DeployedToken{
		TokenAddress:     tokenAddress,
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		ImageUrl:         req.ImageUrl,
		TrendTheme:       req.TrendTheme,
		SentimentScore:   decimal.NewFromFloat(req.SentimentScore).Round(2),
		DeploymentTxHash: txHash,
		InitialLiquidity: req.InitialLiquidity,
		Status:           model.TokenStatusDeployed,
	}

	cost := req.InitialLiquidity.Mul(deploymentCostRate)
	costTx := &model.TreasuryTransaction{
		Type:         model.TreasuryTxTypeDeploymentCost,
		Amount:       cost,
		AmountUSD:    cost.Mul(d.usdRate).Round(2),
		TokenAddress: tokenAddress,
		TxHash:       txHash,
		Description:  fmt.Sprintf("Deployment cost for %s", req.Symbol),
		Status:       model.TreasuryTxStatusConfirmed,
	}

	if err := d.tokenRepo.CreateWithCost(token, costTx); err != nil {
		return nil, errors.Wrap(err, "部署记录落库失败")
	}

	return &model.DeploymentResult{
		Success:      true,
		TokenAddress: tokenAddress,
		TxHash:       txHash,
	}, nil
}
