package treasury

import (
	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/repo"
)

// Treasury 国库记账: 余额为全部流水的带符号和
// fee_collection/reward 计入, deployment_cost/reinvestment 计出
type Treasury struct {
	treasuryRepo repo.TreasuryRepo
}

func New(treasuryRepo repo.TreasuryRepo) *Treasury {
	return &Treasury{
		treasuryRepo: treasuryRepo,
	}
}

// Balance 计算当前国库余额(原生币)
func (t *Treasury) Balance() (decimal.Decimal, error) {
	txs, err := t.treasuryRepo.ListAll()
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeBalance(txs), nil
}

// ComputeBalance 对流水求带符号和, 与流水顺序无关
func ComputeBalance(txs []*model.TreasuryTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case model.TreasuryTxTypeFeeCollection, model.TreasuryTxTypeReward:
			balance = balance.Add(tx.Amount)
		case model.TreasuryTxTypeDeploymentCost, model.TreasuryTxTypeReinvestment:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}
