package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/basepulse/pulse-agent/internal/agent"
	"github.com/basepulse/pulse-agent/internal/api"
	"github.com/basepulse/pulse-agent/internal/chain"
	"github.com/basepulse/pulse-agent/internal/config"
	"github.com/basepulse/pulse-agent/internal/deployer"
	"github.com/basepulse/pulse-agent/internal/llm"
	"github.com/basepulse/pulse-agent/internal/notifier"
	"github.com/basepulse/pulse-agent/internal/repo"
	"github.com/basepulse/pulse-agent/internal/source"
	kafkasource "github.com/basepulse/pulse-agent/internal/source/kafka"
	"github.com/basepulse/pulse-agent/internal/source/mock"
	"github.com/basepulse/pulse-agent/internal/treasury"
	"github.com/basepulse/pulse-agent/internal/trend"
	"github.com/basepulse/pulse-agent/pkg/database/mysql"
	"github.com/basepulse/pulse-agent/pkg/logger"
)

// Application BasePulse自治代理应用
type Application struct {
	configManager *config.Manager
	db            *gorm.DB

	postSource source.PostSource
	agent      *agent.Agent
	apiServer  *api.Server

	cancel context.CancelFunc
}

// New 创建应用实例
func New() *Application {
	return &Application{
		configManager: config.NewManager(),
	}
}

// Initialize 初始化应用
func (app *Application) Initialize(configPath string) error {
	// 1. 加载配置
	if err := app.configManager.Load(configPath); err != nil {
		return err
	}

	// 2. 初始化日志系统
	if err := app.configManager.InitLogger(); err != nil {
		return err
	}
	logger.Info("🚀 BasePulse自治代理初始化开始", logger.String("config_path", configPath))

	// 3. 初始化数据库
	if err := mysql.SetupDatabaseFromDefaultConfig(); err != nil {
		return err
	}
	db, err := mysql.GetDb()
	if err != nil {
		return err
	}
	app.db = db
	logger.Info("📊 数据库连接已建立")

	// 4. 组装各组件
	if err := app.setupComponents(); err != nil {
		return err
	}

	logger.Info("✅ BasePulse自治代理初始化完成")
	return nil
}

// setupComponents 组装仓储、模型客户端、部署器、编排器与API服务
func (app *Application) setupComponents() error {
	cfg := app.configManager.GetAppConfig()

	tokenRepo := repo.NewTokenRepo(app.db)
	trendRepo := repo.NewTrendRepo(app.db)
	treasuryRepo := repo.NewTreasuryRepo(app.db)
	socialRepo := repo.NewSocialRepo(app.db)
	metricRepo := repo.NewMetricRepo(app.db)

	var ntf notifier.Notifier = notifier.NopNotifier{}
	if url := cfg.Notifier.GetFeishuWebhookURL(); url != "" {
		ntf = notifier.NewLarkNotifier(url)
	} else {
		logger.Warn("⚠️ 未配置飞书Webhook, 通知将被丢弃")
	}

	if cfg.Llm.ApiKey == "" {
		return errors.New("缺少模型服务API Key配置(llm.api_key)")
	}
	llmClient := llm.NewClient(cfg.Llm)
	analyzer := trend.NewAnalyzer(llmClient)

	backend := chain.NewSimulatedBackend()
	metricsSource := chain.NewSimulatedMetrics()
	usdRate := decimal.NewFromFloat(cfg.Chain.NativeUsdRate)

	dep := deployer.New(backend, tokenRepo, ntf, usdRate)
	collector := deployer.NewFeeCollector(backend, tokenRepo, treasuryRepo, ntf, usdRate)
	t := treasury.New(treasuryRepo)

	postSource, err := app.buildPostSource(cfg)
	if err != nil {
		return err
	}
	app.postSource = postSource
	logger.Info("📨 帖子来源已配置", logger.String("source", postSource.Name()))

	app.agent = agent.New(cfg.Agent, agent.Dependencies{
		Source:     postSource,
		Analyzer:   analyzer,
		Metrics:    metricsSource,
		Deployer:   dep,
		Collector:  collector,
		Treasury:   t,
		TrendRepo:  trendRepo,
		MetricRepo: metricRepo,
		SocialRepo: socialRepo,
	})

	app.apiServer = api.NewServer(cfg.Api, tokenRepo, trendRepo, treasuryRepo, socialRepo, metricRepo, t)
	return nil
}

// buildPostSource 按配置构建帖子来源, 默认mock
func (app *Application) buildPostSource(cfg *config.AppConfig) (source.PostSource, error) {
	switch cfg.Source.Type {
	case "kafka":
		return kafkasource.New(cfg.Source.Kafka)
	default:
		return mock.New(), nil
	}
}

// Run 运行应用
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	app.apiServer.Start()
	app.agent.Start(ctx)

	logger.Info("🔥 BasePulse自治代理已启动, 开始监控Base生态趋势...")

	// 等待终止信号
	app.waitForShutdown()
	return nil
}

// waitForShutdown 等待关闭信号
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("📤 收到终止信号，开始优雅关闭应用...", logger.String("signal", sig.String()))

	app.Shutdown()
}

// Shutdown 优雅关闭应用
func (app *Application) Shutdown() {
	logger.Info("🛑 开始关闭BasePulse自治代理...")

	if app.cancel != nil {
		app.cancel()
	}

	// 等待当前轮次结束
	app.agent.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("关闭API服务失败", logger.FieldErr(err))
	}

	if err := app.postSource.Stop(); err != nil {
		logger.Error("停止帖子来源失败", logger.FieldErr(err))
	}

	if err := mysql.Stop(); err != nil {
		logger.Error("关闭数据库连接失败", logger.FieldErr(err))
	}

	logger.Info("✨ BasePulse自治代理已成功关闭")
}

// Start 启动应用的便捷方法
func (app *Application) Start(configPath string) error {
	if err := app.Initialize(configPath); err != nil {
		logger.Error("❌ BasePulse自治代理初始化失败", logger.FieldErr(err))
		return err
	}

	if err := app.Run(); err != nil {
		logger.Error("❌ BasePulse自治代理运行失败", logger.FieldErr(err))
		return err
	}

	return nil
}

// GetConfigManager 获取配置管理器
func (app *Application) GetConfigManager() *config.Manager {
	return app.configManager
}

// GetDatabase 获取数据库连接
func (app *Application) GetDatabase() *gorm.DB {
	return app.db
}
