package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/treasury"
)

type memTokenRepo struct {
	tokens []*model.DeployedToken
}

func (m *memTokenRepo) Create(token *model.DeployedToken) error { return nil }
func (m *memTokenRepo) CreateWithCost(token *model.DeployedToken, cost *model.TreasuryTransaction) error {
	return nil
}
func (m *memTokenRepo) GetByAddress(tokenAddress string) (*model.DeployedToken, error) {
	return nil, nil
}
func (m *memTokenRepo) ListRecent(limit int) ([]*model.DeployedToken, error) {
	if limit < len(m.tokens) {
		return m.tokens[:limit], nil
	}
	return m.tokens, nil
}
func (m *memTokenRepo) ListDeployed() ([]*model.DeployedToken, error)    { return m.tokens, nil }
func (m *memTokenRepo) CountCreatedSince(since time.Time) (int64, error) { return 0, nil }

type memTrendRepo struct{}

func (m *memTrendRepo) Create(analysis *model.TrendAnalysis) error { return nil }
func (m *memTrendRepo) ListRecent(limit int) ([]*model.TrendAnalysis, error) {
	return []*model.TrendAnalysis{}, nil
}

type memTreasuryRepo struct {
	txs []*model.TreasuryTransaction
}

func (m *memTreasuryRepo) Create(tx *model.TreasuryTransaction) error { return nil }
func (m *memTreasuryRepo) ListAll() ([]*model.TreasuryTransaction, error) {
	return m.txs, nil
}
func (m *memTreasuryRepo) ListRecent(limit int) ([]*model.TreasuryTransaction, error) {
	return m.txs, nil
}

type memSocialRepo struct{}

func (m *memSocialRepo) Create(interaction *model.SocialInteraction) error { return nil }
func (m *memSocialRepo) ListRecent(limit int) ([]*model.SocialInteraction, error) {
	return []*model.SocialInteraction{}, nil
}

type memMetricRepo struct{}

func (m *memMetricRepo) Create(metric *model.AgentMetric) error { return nil }
func (m *memMetricRepo) ListRecentByType(metricType string, limit int) ([]*model.AgentMetric, error) {
	return []*model.AgentMetric{}, nil
}

func newTestServer(tokens []*model.DeployedToken, txs []*model.TreasuryTransaction) *httptest.Server {
	treasuryRepo := &memTreasuryRepo{txs: txs}
	s := NewServer(
		Config{},
		&memTokenRepo{tokens: tokens},
		&memTrendRepo{},
		treasuryRepo,
		&memSocialRepo{},
		&memMetricRepo{},
		treasury.New(treasuryRepo),
	)
	return httptest.NewServer(s.srv.Handler)
}

func getJSON(t *testing.T, url string) map[string]interface{} {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleTokens(t *testing.T) {
	tokens := []*model.DeployedToken{
		{TokenAddress: "0xabc", Name: "BaseEcosystem Pulse", Symbol: "BASEP", Status: model.TokenStatusDeployed},
		{TokenAddress: "0xdef", Name: "DeFi Pulse", Symbol: "DEFIP", Status: model.TokenStatusDeployed},
	}
	srv := newTestServer(tokens, nil)
	defer srv.Close()

	body := getJSON(t, srv.URL+"/api/tokens")
	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	require.Equal(t, "0xabc", first["TokenAddress"])
}

func TestHandleTokensLimit(t *testing.T) {
	tokens := []*model.DeployedToken{
		{TokenAddress: "0x1"}, {TokenAddress: "0x2"}, {TokenAddress: "0x3"},
	}
	srv := newTestServer(tokens, nil)
	defer srv.Close()

	body := getJSON(t, srv.URL+"/api/tokens?limit=2")
	require.Len(t, body["data"].([]interface{}), 2)

	// 非法limit回退默认值
	body = getJSON(t, srv.URL+"/api/tokens?limit=abc")
	require.Len(t, body["data"].([]interface{}), 3)
}

func TestHandleTreasuryBalance(t *testing.T) {
	txs := []*model.TreasuryTransaction{
		{Type: model.TreasuryTxTypeReward, Amount: decimal.RequireFromString("1.5")},
		{Type: model.TreasuryTxTypeDeploymentCost, Amount: decimal.RequireFromString("0.25")},
	}
	srv := newTestServer(nil, txs)
	defer srv.Close()

	body := getJSON(t, srv.URL+"/api/treasury/balance")
	data := body["data"].(map[string]interface{})
	require.Equal(t, "1.25", data["balance"])
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
