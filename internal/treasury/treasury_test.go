package treasury

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
)

func tx(txType string, amount string) *model.TreasuryTransaction {
	return &model.TreasuryTransaction{
		Type:   txType,
		Amount: decimal.RequireFromString(amount),
		Status: model.TreasuryTxStatusConfirmed,
	}
}

func TestComputeBalance(t *testing.T) {
	txs := []*model.TreasuryTransaction{
		tx(model.TreasuryTxTypeFeeCollection, "0.3"),
		tx(model.TreasuryTxTypeReward, "1.0"),
		tx(model.TreasuryTxTypeDeploymentCost, "0.005"),
		tx(model.TreasuryTxTypeReinvestment, "0.1"),
	}

	balance := ComputeBalance(txs)
	require.True(t, balance.Equal(decimal.RequireFromString("1.195")), "got %s", balance)
}

func TestComputeBalanceEmpty(t *testing.T) {
	require.True(t, ComputeBalance(nil).IsZero())
	require.True(t, ComputeBalance([]*model.TreasuryTransaction{}).IsZero())
}

// 余额与流水顺序无关
func TestComputeBalanceOrderIndependent(t *testing.T) {
	forward := []*model.TreasuryTransaction{
		tx(model.TreasuryTxTypeFeeCollection, "0.1"),
		tx(model.TreasuryTxTypeFeeCollection, "0.2"),
		tx(model.TreasuryTxTypeDeploymentCost, "0.3"),
	}
	backward := []*model.TreasuryTransaction{forward[2], forward[0], forward[1]}

	require.True(t, ComputeBalance(forward).Equal(ComputeBalance(backward)))
}

// 0.1+0.2-0.3 在十进制运算下必须精确为零
func TestComputeBalanceDecimalExact(t *testing.T) {
	txs := []*model.TreasuryTransaction{
		tx(model.TreasuryTxTypeFeeCollection, "0.1"),
		tx(model.TreasuryTxTypeFeeCollection, "0.2"),
		tx(model.TreasuryTxTypeDeploymentCost, "0.3"),
	}
	require.True(t, ComputeBalance(txs).IsZero())
}

// 未知流水类型不影响余额
func TestComputeBalanceIgnoresUnknownType(t *testing.T) {
	txs := []*model.TreasuryTransaction{
		tx(model.TreasuryTxTypeReward, "1.0"),
		tx("airdrop", "5.0"),
	}
	require.True(t, ComputeBalance(txs).Equal(decimal.NewFromInt(1)))
}
