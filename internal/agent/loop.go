package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/internal/monitoring"
	"github.com/basepulse/pulse-agent/internal/repo"
	"github.com/basepulse/pulse-agent/internal/source"
	"github.com/basepulse/pulse-agent/internal/trend"
	"github.com/basepulse/pulse-agent/pkg/logger"
	"github.com/basepulse/pulse-agent/pkg/utils"
)

// 每次部署投入的初始流动性(原生币)
var defaultInitialLiquidity = decimal.NewFromFloat(0.5)

// 国库再投资触发阈值与比例
var (
	reinvestThreshold = decimal.NewFromInt(1)
	reinvestRate      = decimal.NewFromFloat(0.1)
)

// Config 编排器配置
type Config struct {
	Enabled              bool    `yaml:"enabled" json:"enabled"`
	IntervalMinutes      int     `yaml:"interval_minutes" json:"interval_minutes"`
	MinSentimentScore    float64 `yaml:"min_sentiment_score" json:"min_sentiment_score"`
	MinMentions          int     `yaml:"min_mentions" json:"min_mentions"`
	MinVolume24hUSD      float64 `yaml:"min_volume_24h_usd" json:"min_volume_24h_usd"`
	MaxDeploymentsPerDay int     `yaml:"max_deployments_per_day" json:"max_deployments_per_day"`
	InitialLiquidity     float64 `yaml:"initial_liquidity" json:"initial_liquidity"`
}

type postAnalyzer interface {
	AnalyzePosts(ctx context.Context, posts []string) []model.TrendData
}

type metricsSource interface {
	Fetch24h(ctx context.Context, theme string) (model.OnChainMetrics, error)
}

type tokenDeployer interface {
	Deploy(ctx context.Context, req *model.DeploymentRequest) *model.DeploymentResult
}

type feeCollector interface {
	CollectAll(ctx context.Context) decimal.Decimal
	Reinvest(ctx context.Context, amount decimal.Decimal) bool
}

type balanceProvider interface {
	Balance() (decimal.Decimal, error)
}

// Dependencies 编排器的全部协作方
type Dependencies struct {
	Source     source.PostSource
	Analyzer   postAnalyzer
	Metrics    metricsSource
	Deployer   tokenDeployer
	Collector  feeCollector
	Treasury   balanceProvider
	TrendRepo  repo.TrendRepo
	MetricRepo repo.MetricRepo
	SocialRepo repo.SocialRepo
}

// Agent 自治循环编排器
// 单写者状态机: 每日配额只由循环自身修改
type Agent struct {
	cfg  Config
	deps Dependencies

	quota    *dailyQuota
	inFlight atomic.Bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// 可注入时钟, 便于测试日期翻转
	now func() time.Time
}

func New(cfg Config, deps Dependencies) *Agent {
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = 5
	}
	if cfg.MaxDeploymentsPerDay <= 0 {
		cfg.MaxDeploymentsPerDay = 3
	}
	now := time.Now
	return &Agent{
		cfg:    cfg,
		deps:   deps,
		quota:  newDailyQuota(now()),
		stopCh: make(chan struct{}),
		now:    now,
	}
}

// Start 启动定时循环, 启动后立即执行首轮
func (a *Agent) Start(ctx context.Context) {
	interval := time.Duration(a.cfg.IntervalMinutes) * time.Minute

	logger.Info("🤖 自治循环启动",
		logger.Bool("enabled", a.cfg.Enabled),
		logger.Duration("interval", interval),
		logger.Int("max_deployments_per_day", a.cfg.MaxDeploymentsPerDay))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		a.RunOnce(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				a.RunOnce(ctx)
			case <-a.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop 停止循环并等待当前轮次结束
func (a *Agent) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
	a.wg.Wait()
	logger.Info("🤖 自治循环已停止")
}

// RunOnce 执行一轮迭代
// 上一轮尚未结束时直接跳过本次触发, 保证任意时刻至多一轮在执行
func (a *Agent) RunOnce(ctx context.Context) {
	if !a.cfg.Enabled {
		logger.Info("自治循环未启用, 跳过")
		return
	}

	if !a.inFlight.CompareAndSwap(false, true) {
		monitoring.LoopSkippedTicks.Inc()
		logger.Warn("⏭️ 上一轮迭代尚未结束, 跳过本次触发")
		return
	}
	defer a.inFlight.Store(false)

	start := a.now()
	err := a.iterate(ctx)
	monitoring.LoopDuration.Observe(a.now().Sub(start).Seconds())

	if err != nil {
		logger.Error("❌ 循环迭代失败", logger.FieldErr(err))
		monitoring.LoopErrors.Inc()
		a.recordMetric(model.MetricTypeLoopError, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// iterate 单轮迭代主体, 任何返回的错误都在 RunOnce 边界转化为错误指标
func (a *Agent) iterate(ctx context.Context) (err error) {
	// 协作方异常不允许终止循环进程
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("迭代发生panic: %v", r)
			logger.Error("💥 迭代发生panic",
				logger.Any("panic", r),
				logger.FieldStack(utils.GetStack()))
		}
	}()

	logger.Info("🔄 开始新一轮自治循环迭代")

	// 日历日期前进时重置当日部署配额
	a.quota.Roll(a.now())

	// Step 1: 获取社交帖子
	posts, err := a.deps.Source.FetchPosts(ctx)
	if err != nil {
		return fmt.Errorf("获取社交帖子失败: %w", err)
	}
	a.recordPosts(posts)

	// Step 2: 趋势分析 (失败时返回空列表, 不中断本轮)
	texts := make([]string, 0, len(posts))
	for _, post := range posts {
		texts = append(texts, post.Content)
	}
	trends := a.deps.Analyzer.AnalyzePosts(ctx, texts)
	monitoring.TrendsAnalyzed.Add(float64(len(trends)))
	logger.Info("🔍 趋势分析完成",
		logger.Int("post_count", len(posts)),
		logger.Int("trend_count", len(trends)))

	// Step 3: 逐个趋势做阈值校验, 必要时部署
	for _, t := range trends {
		if err := a.processTrend(ctx, t); err != nil {
			return err
		}
	}

	// Step 4: 归集已部署代币的交易手续费
	a.deps.Collector.CollectAll(ctx)

	// Step 5: 国库余额超过阈值时再投资固定比例
	balance, err := a.deps.Treasury.Balance()
	if err != nil {
		return fmt.Errorf("计算国库余额失败: %w", err)
	}
	monitoring.TreasuryBalance.Set(balance.InexactFloat64())

	if balance.GreaterThan(reinvestThreshold) {
		reinvestAmount := balance.Mul(reinvestRate)
		logger.Info("💰 国库余额充足, 触发再投资",
			logger.String("balance", balance.String()),
			logger.String("amount", reinvestAmount.String()))
		a.deps.Collector.Reinvest(ctx, reinvestAmount)
	}

	// Step 6: 记录本轮迭代指标
	monitoring.LoopIterations.Inc()
	a.recordMetric(model.MetricTypeLoopIteration, map[string]interface{}{
		"trendsAnalyzed":   len(trends),
		"deploymentsToday": a.quota.Count(),
		"treasuryBalance":  balance.String(),
	})

	logger.Info("✅ 本轮自治循环迭代完成",
		logger.Int("trend_count", len(trends)),
		logger.Int("deployments_today", a.quota.Count()))

	return nil
}

// processTrend 校验单个趋势并按需部署, 无论是否部署都落一条趋势分析记录
func (a *Agent) processTrend(ctx context.Context, t model.TrendData) error {
	metrics, err := a.deps.Metrics.Fetch24h(ctx, t.Theme)
	if err != nil {
		return fmt.Errorf("获取链上指标失败: %w", err)
	}

	valid := trend.ValidateThreshold(t, metrics, model.ThresholdConfig{
		MinSentimentScore: a.cfg.MinSentimentScore,
		MinMentions:       a.cfg.MinMentions,
		MinVolume24hUSD:   a.cfg.MinVolume24hUSD,
	})

	triggered := false
	if valid && a.quota.Allow(a.cfg.MaxDeploymentsPerDay) {
		logger.Info("🎯 趋势通过阈值校验, 准备部署代币",
			logger.String("theme", t.Theme),
			logger.Float64("sentiment_score", t.SentimentScore))

		meta := trend.GenerateMetadata(t.Theme, t.SentimentScore, a.now())

		initialLiquidity := defaultInitialLiquidity
		if a.cfg.InitialLiquidity > 0 {
			initialLiquidity = decimal.NewFromFloat(a.cfg.InitialLiquidity)
		}

		result := a.deps.Deployer.Deploy(ctx, &model.DeploymentRequest{
			Name:             meta.Name,
			Symbol:           meta.Symbol,
			Description:      meta.Description,
			InitialLiquidity: initialLiquidity,
			TrendTheme:       t.Theme,
			SentimentScore:   t.SentimentScore,
		})

		if result.Success {
			a.quota.Inc()
			triggered = true
			monitoring.Deployments.WithLabelValues("success").Inc()
		} else {
			monitoring.Deployments.WithLabelValues("failure").Inc()
			logger.Error("❌ 部署未成功",
				logger.String("theme", t.Theme),
				logger.String("error", result.Error))
		}
	}

	return a.storeTrend(t, metrics, triggered)
}

// storeTrend 落一条趋势分析记录
func (a *Agent) storeTrend(t model.TrendData, metrics model.OnChainMetrics, triggered bool) error {
	raw, err := json.Marshal(map[string]interface{}{
		"mentions": t.Mentions,
	})
	if err != nil {
		return fmt.Errorf("序列化趋势原始数据失败: %w", err)
	}

	analysis := &model.TrendAnalysis{
		Theme:               t.Theme,
		SentimentScore:      decimal.NewFromFloat(t.SentimentScore).Round(2),
		MentionCount:        int32(t.MentionCount),
		OnChainVolume:       decimal.NewFromFloat(metrics.Volume24h).Round(8),
		OnChainVolumeUSD:    decimal.NewFromFloat(metrics.VolumeUSD24h).Round(2),
		DeploymentTriggered: triggered,
		RawData:             string(raw),
	}
	if err := a.deps.TrendRepo.Create(analysis); err != nil {
		return fmt.Errorf("趋势分析记录落库失败: %w", err)
	}
	return nil
}

// recordPosts 把本轮拉到的帖子落为社交互动记录, 失败只记日志
func (a *Agent) recordPosts(posts []*model.SocialPost) {
	for _, post := range posts {
		interaction := &model.SocialInteraction{
			Platform:        post.Platform,
			PostID:          post.PostID,
			PostContent:     post.Content,
			Sentiment:       model.SentimentNeutral,
			EngagementCount: post.EngagementCount,
		}
		if err := a.deps.SocialRepo.Create(interaction); err != nil {
			logger.Warn("⚠️ 社交互动记录落库失败",
				logger.FieldErr(err),
				logger.String("post_id", post.PostID))
		}
	}
}

// recordMetric 落一条编排器自身的运行指标, 失败只记日志
func (a *Agent) recordMetric(metricType string, metadata map[string]interface{}) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		logger.Warn("⚠️ 序列化指标元数据失败", logger.FieldErr(err))
		raw = []byte("{}")
	}

	metric := &model.AgentMetric{
		MetricType: metricType,
		Value:      decimal.NewFromInt(1),
		Metadata:   string(raw),
	}
	if err := a.deps.MetricRepo.Create(metric); err != nil {
		logger.Warn("⚠️ 运行指标落库失败",
			logger.FieldErr(err),
			logger.String("metric_type", metricType))
	}
}
