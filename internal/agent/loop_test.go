package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/basepulse/pulse-agent/internal/model"
)

type stubSource struct {
	mu      sync.Mutex
	posts   []*model.SocialPost
	err     error
	fetches int
	block   chan struct{}
}

func (s *stubSource) FetchPosts(ctx context.Context) ([]*model.SocialPost, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return s.posts, s.err
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func (s *stubSource) Name() string { return "stub" }
func (s *stubSource) Stop() error  { return nil }

type stubAnalyzer struct {
	trends []model.TrendData
}

func (s *stubAnalyzer) AnalyzePosts(ctx context.Context, posts []string) []model.TrendData {
	return s.trends
}

type stubMetrics struct {
	metrics model.OnChainMetrics
	err     error
}

func (s *stubMetrics) Fetch24h(ctx context.Context, theme string) (model.OnChainMetrics, error) {
	return s.metrics, s.err
}

type stubDeployer struct {
	results []*model.DeploymentResult
	reqs    []*model.DeploymentRequest
}

func (s *stubDeployer) Deploy(ctx context.Context, req *model.DeploymentRequest) *model.DeploymentResult {
	s.reqs = append(s.reqs, req)
	idx := len(s.reqs) - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx]
}

type stubCollector struct {
	collected  decimal.Decimal
	reinvested []decimal.Decimal
}

func (s *stubCollector) CollectAll(ctx context.Context) decimal.Decimal {
	return s.collected
}

func (s *stubCollector) Reinvest(ctx context.Context, amount decimal.Decimal) bool {
	s.reinvested = append(s.reinvested, amount)
	return true
}

type stubTreasury struct {
	balance decimal.Decimal
	err     error
}

func (s *stubTreasury) Balance() (decimal.Decimal, error) {
	return s.balance, s.err
}

type memTrendRepo struct {
	rows      []*model.TrendAnalysis
	createErr error
}

func (m *memTrendRepo) Create(analysis *model.TrendAnalysis) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.rows = append(m.rows, analysis)
	return nil
}

func (m *memTrendRepo) ListRecent(limit int) ([]*model.TrendAnalysis, error) {
	return m.rows, nil
}

type memMetricRepo struct {
	rows []*model.AgentMetric
}

func (m *memMetricRepo) Create(metric *model.AgentMetric) error {
	m.rows = append(m.rows, metric)
	return nil
}

func (m *memMetricRepo) ListRecentByType(metricType string, limit int) ([]*model.AgentMetric, error) {
	var out []*model.AgentMetric
	for _, r := range m.rows {
		if r.MetricType == metricType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMetricRepo) countByType(metricType string) int {
	rows, _ := m.ListRecentByType(metricType, 0)
	return len(rows)
}

type memSocialRepo struct {
	rows []*model.SocialInteraction
}

func (m *memSocialRepo) Create(interaction *model.SocialInteraction) error {
	m.rows = append(m.rows, interaction)
	return nil
}

func (m *memSocialRepo) ListRecent(limit int) ([]*model.SocialInteraction, error) {
	return m.rows, nil
}

type loopFixture struct {
	agent      *Agent
	source     *stubSource
	deployer   *stubDeployer
	collector  *stubCollector
	trendRepo  *memTrendRepo
	metricRepo *memMetricRepo
	socialRepo *memSocialRepo
}

func validTrend(theme string) model.TrendData {
	return model.TrendData{
		Theme:          theme,
		Mentions:       []string{},
		SentimentScore: 90,
		MentionCount:   20,
	}
}

func newLoopFixture(cfg Config, trends []model.TrendData) *loopFixture {
	src := &stubSource{
		posts: []*model.SocialPost{
			{Platform: model.PlatformFarcaster, PostID: "p1", Content: "gm Base"},
		},
	}
	dep := &stubDeployer{
		results: []*model.DeploymentResult{
			{Success: true, TokenAddress: "0xabc", TxHash: "0xdef"},
		},
	}
	collector := &stubCollector{collected: decimal.Zero}
	trendRepo := &memTrendRepo{}
	metricRepo := &memMetricRepo{}
	socialRepo := &memSocialRepo{}

	a := New(cfg, Dependencies{
		Source:     src,
		Analyzer:   &stubAnalyzer{trends: trends},
		Metrics:    &stubMetrics{metrics: model.OnChainMetrics{VolumeUSD24h: 2000000}},
		Deployer:   dep,
		Collector:  collector,
		Treasury:   &stubTreasury{balance: decimal.Zero},
		TrendRepo:  trendRepo,
		MetricRepo: metricRepo,
		SocialRepo: socialRepo,
	})

	return &loopFixture{
		agent:      a,
		source:     src,
		deployer:   dep,
		collector:  collector,
		trendRepo:  trendRepo,
		metricRepo: metricRepo,
		socialRepo: socialRepo,
	}
}

func enabledConfig() Config {
	return Config{
		Enabled:              true,
		IntervalMinutes:      5,
		MinSentimentScore:    75,
		MinMentions:          10,
		MinVolume24hUSD:      1000000,
		MaxDeploymentsPerDay: 3,
	}
}

func TestRunOnceDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Enabled = false

	f := newLoopFixture(cfg, []model.TrendData{validTrend("Base ecosystem growth")})
	f.agent.RunOnce(context.Background())

	require.Zero(t, f.source.fetchCount())
	require.Empty(t, f.trendRepo.rows)
	require.Empty(t, f.metricRepo.rows)
}

func TestRunOnceDeploysAndRecords(t *testing.T) {
	f := newLoopFixture(enabledConfig(), []model.TrendData{validTrend("Base ecosystem growth")})
	f.agent.RunOnce(context.Background())

	// 部署请求携带推导出的元数据
	require.Len(t, f.deployer.reqs, 1)
	req := f.deployer.reqs[0]
	require.Equal(t, "BaseEcosystem Pulse", req.Name)
	require.Equal(t, "BASEP", req.Symbol)
	require.True(t, req.InitialLiquidity.Equal(decimal.RequireFromString("0.5")))

	// 趋势记录标记已部署
	require.Len(t, f.trendRepo.rows, 1)
	require.True(t, f.trendRepo.rows[0].DeploymentTriggered)

	// 帖子落为社交互动
	require.Len(t, f.socialRepo.rows, 1)
	require.Equal(t, "p1", f.socialRepo.rows[0].PostID)

	// 迭代指标
	require.Equal(t, 1, f.metricRepo.countByType(model.MetricTypeLoopIteration))
	require.Zero(t, f.metricRepo.countByType(model.MetricTypeLoopError))
}

// 未达标趋势不部署但仍落趋势记录
func TestRunOnceBelowThreshold(t *testing.T) {
	trend := validTrend("Base ecosystem growth")
	trend.SentimentScore = 10

	f := newLoopFixture(enabledConfig(), []model.TrendData{trend})
	f.agent.RunOnce(context.Background())

	require.Empty(t, f.deployer.reqs)
	require.Len(t, f.trendRepo.rows, 1)
	require.False(t, f.trendRepo.rows[0].DeploymentTriggered)
}

// 每日配额用尽后剩余趋势只记录不部署
func TestRunOnceQuotaCap(t *testing.T) {
	cfg := enabledConfig()
	cfg.MaxDeploymentsPerDay = 2

	trends := []model.TrendData{
		validTrend("theme one"),
		validTrend("theme two"),
		validTrend("theme three"),
		validTrend("theme four"),
	}

	f := newLoopFixture(cfg, trends)
	f.agent.RunOnce(context.Background())

	require.Len(t, f.deployer.reqs, 2)
	require.Len(t, f.trendRepo.rows, 4)

	triggered := 0
	for _, row := range f.trendRepo.rows {
		if row.DeploymentTriggered {
			triggered++
		}
	}
	require.Equal(t, 2, triggered)
}

// 部署失败不消耗配额, 趋势记录标记未部署
func TestRunOnceDeployFailureNotCounted(t *testing.T) {
	f := newLoopFixture(enabledConfig(), []model.TrendData{validTrend("Base ecosystem growth")})
	f.deployer.results = []*model.DeploymentResult{
		{Success: false, Error: "rpc timeout"},
	}

	f.agent.RunOnce(context.Background())

	require.Len(t, f.deployer.reqs, 1)
	require.Equal(t, 0, f.agent.quota.Count())
	require.Len(t, f.trendRepo.rows, 1)
	require.False(t, f.trendRepo.rows[0].DeploymentTriggered)
}

// 日期前进后配额重置, 可以继续部署
func TestRunOnceQuotaResetsNextDay(t *testing.T) {
	cfg := enabledConfig()
	cfg.MaxDeploymentsPerDay = 1

	f := newLoopFixture(cfg, []model.TrendData{validTrend("Base ecosystem growth")})

	day1 := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	f.agent.now = func() time.Time { return day1 }
	f.agent.quota = newDailyQuota(day1)

	f.agent.RunOnce(context.Background())
	f.agent.RunOnce(context.Background())
	require.Len(t, f.deployer.reqs, 1) // 当日配额已用尽

	day2 := day1.Add(24 * time.Hour)
	f.agent.now = func() time.Time { return day2 }

	f.agent.RunOnce(context.Background())
	require.Len(t, f.deployer.reqs, 2)
}

func TestRunOnceReinvest(t *testing.T) {
	f := newLoopFixture(enabledConfig(), nil)
	f.agent.deps.Treasury = &stubTreasury{balance: decimal.RequireFromString("2")}

	f.agent.RunOnce(context.Background())

	// 余额超过1.0时再投资10%
	require.Len(t, f.collector.reinvested, 1)
	require.True(t, f.collector.reinvested[0].Equal(decimal.RequireFromString("0.2")),
		"got %s", f.collector.reinvested[0])
}

func TestRunOnceNoReinvestBelowThreshold(t *testing.T) {
	f := newLoopFixture(enabledConfig(), nil)
	f.agent.deps.Treasury = &stubTreasury{balance: decimal.RequireFromString("0.9")}

	f.agent.RunOnce(context.Background())
	require.Empty(t, f.collector.reinvested)
}

// 迭代失败记录错误指标, 不panic不终止
func TestRunOnceErrorRecordsMetric(t *testing.T) {
	f := newLoopFixture(enabledConfig(), nil)
	f.source.err = errors.New("source unavailable")

	require.NotPanics(t, func() {
		f.agent.RunOnce(context.Background())
	})

	require.Equal(t, 1, f.metricRepo.countByType(model.MetricTypeLoopError))
	require.Zero(t, f.metricRepo.countByType(model.MetricTypeLoopIteration))
}

// 协作方panic被迭代边界捕获并转为错误指标
func TestRunOnceRecoversPanic(t *testing.T) {
	f := newLoopFixture(enabledConfig(), []model.TrendData{validTrend("Base ecosystem growth")})
	f.agent.deps.Metrics = &panickyMetrics{}

	require.NotPanics(t, func() {
		f.agent.RunOnce(context.Background())
	})
	require.Equal(t, 1, f.metricRepo.countByType(model.MetricTypeLoopError))
}

type panickyMetrics struct{}

func (p *panickyMetrics) Fetch24h(ctx context.Context, theme string) (model.OnChainMetrics, error) {
	panic("boom")
}

// 上一轮未结束时后续触发被跳过
func TestRunOnceSkipsWhileInFlight(t *testing.T) {
	f := newLoopFixture(enabledConfig(), nil)
	f.source.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		f.agent.RunOnce(context.Background())
		close(done)
	}()

	// 等待首轮进入FetchPosts阻塞
	require.Eventually(t, func() bool {
		return f.source.fetchCount() == 1
	}, time.Second, 5*time.Millisecond)

	// 第二次触发必须立即返回且不再拉取帖子
	f.agent.RunOnce(context.Background())
	require.Equal(t, 1, f.source.fetchCount())

	close(f.source.block)
	<-done

	// 解除阻塞后可以继续执行新一轮
	f.agent.RunOnce(context.Background())
	require.Equal(t, 2, f.source.fetchCount())
}
