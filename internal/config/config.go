package config

import (
	"github.com/basepulse/pulse-agent/internal/agent"
	"github.com/basepulse/pulse-agent/internal/api"
	"github.com/basepulse/pulse-agent/internal/llm"
	kafkasource "github.com/basepulse/pulse-agent/internal/source/kafka"
	"github.com/basepulse/pulse-agent/pkg/config"
	"github.com/basepulse/pulse-agent/pkg/config/source"
	"github.com/basepulse/pulse-agent/pkg/config/source/file"
	"github.com/basepulse/pulse-agent/pkg/database/mysql"
	"github.com/basepulse/pulse-agent/pkg/logger"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Logger   LoggerConfig      `yaml:"logger" json:"logger"`
	Mysql    mysql.MysqlConfig `yaml:"mysql" json:"mysql"`
	Llm      llm.Config        `yaml:"llm" json:"llm"`
	Notifier NotifierConfig    `yaml:"notifier" json:"notifier"`
	Chain    ChainConfig       `yaml:"chain" json:"chain"`
	Agent    agent.Config      `yaml:"agent" json:"agent"`
	Source   SourceConfig      `yaml:"source" json:"source"`
	Api      api.Config        `yaml:"api" json:"api"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Output     string `yaml:"output" json:"output"`
	Debug      bool   `yaml:"debug" json:"debug"`
	Level      string `yaml:"level" json:"level"`
	AddCaller  bool   `yaml:"add_caller" json:"add_caller"`
	CallerSkip int    `yaml:"caller_skip" json:"caller_skip"`
}

// NotifierConfig 通知配置
type NotifierConfig struct {
	Feishu FeishuConfig `yaml:"feishu" json:"feishu"`
}

// FeishuConfig 飞书机器人配置
type FeishuConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
}

// ChainConfig 链上交互配置
type ChainConfig struct {
	// 原生币对USD估算汇率, 0时使用内置默认值
	NativeUsdRate float64 `yaml:"native_usd_rate" json:"native_usd_rate"`
}

// SourceConfig 帖子来源配置
type SourceConfig struct {
	// 来源类型: mock 或 kafka
	Type  string             `yaml:"type" json:"type"`
	Kafka kafkasource.Config `yaml:"kafka" json:"kafka"`
}

// Manager 配置管理器
type Manager struct {
	config *AppConfig
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	return &Manager{}
}

// Load 加载配置文件
func (m *Manager) Load(configPath string) error {
	// 使用默认config，它已经支持yaml格式了
	err := config.Load(file.NewSource(
		file.WithPath(configPath),
		source.WithFormat("yaml"),
	))
	if err != nil {
		return err
	}

	// 解析配置
	var appConfig AppConfig
	err = config.Scan(&appConfig)
	if err != nil {
		return err
	}

	m.config = &appConfig
	return nil
}

// GetAppConfig 获取应用配置
func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// GetLoggerConfig 获取日志配置
func (m *Manager) GetLoggerConfig() LoggerConfig {
	return m.config.Logger
}

// GetDatabaseConfig 获取数据库配置
func (m *Manager) GetDatabaseConfig() mysql.MysqlConfig {
	return m.config.Mysql
}

// GetLlmConfig 获取模型服务配置
func (m *Manager) GetLlmConfig() llm.Config {
	return m.config.Llm
}

// GetAgentConfig 获取编排器配置
func (m *Manager) GetAgentConfig() agent.Config {
	return m.config.Agent
}

// GetFeishuWebhookURL 获取飞书Webhook URL
func (n NotifierConfig) GetFeishuWebhookURL() string {
	return n.Feishu.WebhookURL
}

// InitLogger 初始化日志系统
func (m *Manager) InitLogger() error {
	loggerConfig := logger.FromConfig("logger")
	loggerInstance := loggerConfig.Build()
	logger.SetDefault(loggerInstance)
	logger.SetDefaultL1(loggerInstance)
	return nil
}
