package deployer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/notifier"
)

type fakeBackend struct {
	addr      string
	hash      string
	deployErr error
	fees      decimal.Decimal
	feesErr   error
}

func (f *fakeBackend) DeployToken(ctx context.Context, req *model.DeploymentRequest) (string, string, error) {
	if f.deployErr != nil {
		return "", "", f.deployErr
	}
	return f.addr, f.hash, nil
}

func (f *fakeBackend) PendingFees(ctx context.Context, tokenAddress string) (decimal.Decimal, error) {
	if f.feesErr != nil {
		return decimal.Zero, f.feesErr
	}
	return f.fees, nil
}

// fakeTokenRepo 内存实现, CreateWithCost 模拟事务: 出错时不留任何行
type fakeTokenRepo struct {
	tokens    []*model.DeployedToken
	costs     []*model.TreasuryTransaction
	createErr error
}

func (f *fakeTokenRepo) Create(token *model.DeployedToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeTokenRepo) CreateWithCost(token *model.DeployedToken, cost *model.TreasuryTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens = append(f.tokens, token)
	f.costs = append(f.costs, cost)
	return nil
}

func (f *fakeTokenRepo) GetByAddress(tokenAddress string) (*model.DeployedToken, error) {
	for _, t := range f.tokens {
		if t.TokenAddress == tokenAddress {
			return t, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeTokenRepo) ListRecent(limit int) ([]*model.DeployedToken, error) {
	return f.tokens, nil
}

func (f *fakeTokenRepo) ListDeployed() ([]*model.DeployedToken, error) {
	return f.tokens, nil
}

func (f *fakeTokenRepo) CountCreatedSince(since time.Time) (int64, error) {
	return int64(len(f.tokens)), nil
}

type fakeNotifier struct {
	notes []*notifier.Notification
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, n *notifier.Notification) error {
	f.notes = append(f.notes, n)
	return f.err
}

func deployRequest() *model.DeploymentRequest {
	return &model.DeploymentRequest{
		Name:             "BaseEcosystem Pulse",
		Symbol:           "BASEP",
		Description:      "test token",
		InitialLiquidity: decimal.RequireFromString("0.5"),
		TrendTheme:       "Base ecosystem growth",
		SentimentScore:   87.3,
	}
}

func TestDeploySuccess(t *testing.T) {
	backend := &fakeBackend{addr: "0xabc", hash: "0xdef"}
	tokenRepo := &fakeTokenRepo{}
	ntf := &fakeNotifier{}

	d := New(backend, tokenRepo, ntf, decimal.Zero)
	result := d.Deploy(context.Background(), deployRequest())

	require.True(t, result.Success)
	require.Equal(t, "0xabc", result.TokenAddress)
	require.Equal(t, "0xdef", result.TxHash)
	require.Empty(t, result.Error)

	// 代币行
	require.Len(t, tokenRepo.tokens, 1)
	token := tokenRepo.tokens[0]
	require.Equal(t, "0xabc", token.TokenAddress)
	require.Equal(t, model.TokenStatusDeployed, token.Status)
	require.Equal(t, "BASEP", token.Symbol)

	// 部署成本流水: 初始流动性的1%, USD按默认汇率2500估算
	require.Len(t, tokenRepo.costs, 1)
	cost := tokenRepo.costs[0]
	require.Equal(t, model.TreasuryTxTypeDeploymentCost, cost.Type)
	require.True(t, cost.Amount.Equal(decimal.RequireFromString("0.005")), "got %s", cost.Amount)
	require.True(t, cost.AmountUSD.Equal(decimal.RequireFromString("12.5")), "got %s", cost.AmountUSD)
	require.Equal(t, model.TreasuryTxStatusConfirmed, cost.Status)
	require.Contains(t, cost.Description, "BASEP")

	// 成功通知
	require.Len(t, ntf.notes, 1)
	require.Contains(t, ntf.notes[0].Title, "Token Deployed")
	require.Contains(t, ntf.notes[0].Content, "0xabc")
	require.Contains(t, ntf.notes[0].Content, "87.3/100")
}

func TestDeployBackendFailure(t *testing.T) {
	backend := &fakeBackend{deployErr: errors.New("rpc timeout")}
	tokenRepo := &fakeTokenRepo{}
	ntf := &fakeNotifier{}

	d := New(backend, tokenRepo, ntf, decimal.Zero)
	result := d.Deploy(context.Background(), deployRequest())

	require.False(t, result.Success)
	require.Contains(t, result.Error, "rpc timeout")

	// 失败时不留任何数据行
	require.Empty(t, tokenRepo.tokens)
	require.Empty(t, tokenRepo.costs)

	// 失败通知
	require.Len(t, ntf.notes, 1)
	require.Contains(t, ntf.notes[0].Title, "Deployment Failed")
	require.Contains(t, ntf.notes[0].Content, "Base ecosystem growth")
}

func TestDeployPersistFailure(t *testing.T) {
	backend := &fakeBackend{addr: "0xabc", hash: "0xdef"}
	tokenRepo := &fakeTokenRepo{createErr: errors.New("db down")}
	ntf := &fakeNotifier{}

	d := New(backend, tokenRepo, ntf, decimal.Zero)
	result := d.Deploy(context.Background(), deployRequest())

	require.False(t, result.Success)
	require.Empty(t, tokenRepo.tokens)
	require.Empty(t, tokenRepo.costs)
	require.Len(t, ntf.notes, 1)
	require.Contains(t, ntf.notes[0].Title, "Deployment Failed")
}

// 通知失败不改变部署结果
func TestDeployNotifyFailureIgnored(t *testing.T) {
	backend := &fakeBackend{addr: "0xabc", hash: "0xdef"}
	tokenRepo := &fakeTokenRepo{}
	ntf := &fakeNotifier{err: errors.New("webhook 500")}

	d := New(backend, tokenRepo, ntf, decimal.Zero)
	result := d.Deploy(context.Background(), deployRequest())

	require.True(t, result.Success)
	require.Len(t, tokenRepo.tokens, 1)
}

func TestDeployCustomUsdRate(t *testing.T) {
	backend := &fakeBackend{addr: "0xabc", hash: "0xdef"}
	tokenRepo := &fakeTokenRepo{}

	d := New(backend, tokenRepo, &fakeNotifier{}, decimal.NewFromInt(3000))
	result := d.Deploy(context.Background(), deployRequest())

	require.True(t, result.Success)
	require.True(t, tokenRepo.costs[0].AmountUSD.Equal(decimal.RequireFromString("15")),
		"got %s", tokenRepo.costs[0].AmountUSD)
}
