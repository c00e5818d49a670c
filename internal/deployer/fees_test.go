package deployer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
)

type fakeTreasuryRepo struct {
	txs       []*model.TreasuryTransaction
	createErr error
}

func (f *fakeTreasuryRepo) Create(tx *model.TreasuryTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTreasuryRepo) ListAll() ([]*model.TreasuryTransaction, error) {
	return f.txs, nil
}

func (f *fakeTreasuryRepo) ListRecent(limit int) ([]*model.TreasuryTransaction, error) {
	return f.txs, nil
}

func TestCollectFeesAboveDust(t *testing.T) {
	backend := &fakeBackend{fees: decimal.RequireFromString("0.2")}
	treasuryRepo := &fakeTreasuryRepo{}

	c := NewFeeCollector(backend, &fakeTokenRepo{}, treasuryRepo, &fakeNotifier{}, decimal.Zero)
	got := c.CollectFees(context.Background(), "0xabc")

	require.True(t, got.Equal(decimal.RequireFromString("0.2")))
	require.Len(t, treasuryRepo.txs, 1)

	tx := treasuryRepo.txs[0]
	require.Equal(t, model.TreasuryTxTypeFeeCollection, tx.Type)
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("0.2")))
	require.True(t, tx.AmountUSD.Equal(decimal.RequireFromString("500")), "got %s", tx.AmountUSD)
	require.Equal(t, "0xabc", tx.TokenAddress)
}

// 尘额(≤0.01)返回金额但不入账
func TestCollectFeesDustNotRecorded(t *testing.T) {
	backend := &fakeBackend{fees: decimal.RequireFromString("0.005")}
	treasuryRepo := &fakeTreasuryRepo{}

	c := NewFeeCollector(backend, &fakeTokenRepo{}, treasuryRepo, &fakeNotifier{}, decimal.Zero)
	got := c.CollectFees(context.Background(), "0xabc")

	require.True(t, got.Equal(decimal.RequireFromString("0.005")))
	require.Empty(t, treasuryRepo.txs)
}

// 查询失败返回零值, 不抛错
func TestCollectFeesBackendFailure(t *testing.T) {
	backend := &fakeBackend{feesErr: errors.New("rpc down")}
	treasuryRepo := &fakeTreasuryRepo{}

	c := NewFeeCollector(backend, &fakeTokenRepo{}, treasuryRepo, &fakeNotifier{}, decimal.Zero)
	got := c.CollectFees(context.Background(), "0xabc")

	require.True(t, got.IsZero())
	require.Empty(t, treasuryRepo.txs)
}

func TestCollectAll(t *testing.T) {
	backend := &fakeBackend{fees: decimal.RequireFromString("0.1")}
	tokenRepo := &fakeTokenRepo{
		tokens: []*model.DeployedToken{
			{TokenAddress: "0xaaa", Status: model.TokenStatusDeployed},
			{TokenAddress: "0xbbb", Status: model.TokenStatusActive},
		},
	}
	treasuryRepo := &fakeTreasuryRepo{}

	c := NewFeeCollector(backend, tokenRepo, treasuryRepo, &fakeNotifier{}, decimal.Zero)
	total := c.CollectAll(context.Background())

	require.True(t, total.Equal(decimal.RequireFromString("0.2")), "got %s", total)
	require.Len(t, treasuryRepo.txs, 2)
}

func TestReinvest(t *testing.T) {
	treasuryRepo := &fakeTreasuryRepo{}
	ntf := &fakeNotifier{}

	c := NewFeeCollector(&fakeBackend{}, &fakeTokenRepo{}, treasuryRepo, ntf, decimal.Zero)
	ok := c.Reinvest(context.Background(), decimal.RequireFromString("0.25"))

	require.True(t, ok)
	require.Len(t, treasuryRepo.txs, 1)

	tx := treasuryRepo.txs[0]
	require.Equal(t, model.TreasuryTxTypeReinvestment, tx.Type)
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("0.25")))
	require.True(t, tx.AmountUSD.Equal(decimal.RequireFromString("625")), "got %s", tx.AmountUSD)

	require.Len(t, ntf.notes, 1)
	require.Contains(t, ntf.notes[0].Title, "Treasury Reinvestment")
	require.Contains(t, ntf.notes[0].Content, "0.2500")
}

// 落库失败返回false且不发通知
func TestReinvestPersistFailure(t *testing.T) {
	treasuryRepo := &fakeTreasuryRepo{createErr: errors.New("db down")}
	ntf := &fakeNotifier{}

	c := NewFeeCollector(&fakeBackend{}, &fakeTokenRepo{}, treasuryRepo, ntf, decimal.Zero)
	ok := c.Reinvest(context.Background(), decimal.NewFromInt(1))

	require.False(t, ok)
	require.Empty(t, ntf.notes)
}
