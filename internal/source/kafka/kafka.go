package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/pkg/logger"
	mqkafka "github.com/basepulse/pulse-agent/pkg/mq/kafka"
)

const consumerName = "social-posts"

// 单轮最多取走的帖子数
const maxPostsPerFetch = 100

// Config kafka 帖子来源配置
type Config struct {
	Brokers    []string                    `yaml:"brokers" json:"brokers"`
	Topic      string                      `yaml:"topic" json:"topic"`
	BufferSize int                         `yaml:"buffer_size" json:"buffer_size"`
	Consumer   mqkafka.KafkaConsumerConfig `yaml:"consumer" json:"consumer"`
}

// postMessage 上游采集服务推送的帖子消息体
type postMessage struct {
	Platform        string `json:"platform"`
	PostID          string `json:"postId"`
	Content         string `json:"content"`
	EngagementCount int32  `json:"engagementCount"`
	PostedAt        int64  `json:"postedAt"`
}

// Source 从 kafka 消费社交帖子, 缓冲后按轮次提供给趋势分析
type Source struct {
	topic string
	buf   chan *model.SocialPost
}

func New(cfg Config) (*Source, error) {
	if cfg.Topic == "" {
		return nil, errors.New("kafka帖子来源缺少topic配置")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}

	s := &Source{
		topic: cfg.Topic,
		buf:   make(chan *model.SocialPost, cfg.BufferSize),
	}

	consumerCfg := cfg.Consumer
	if len(consumerCfg.Topics) == 0 {
		consumerCfg.Topics = []string{cfg.Topic}
	}

	if err := mqkafka.SetupNamedKafkaConsumer(consumerName, cfg.Brokers, consumerCfg); err != nil {
		return nil, errors.Wrap(err, "初始化帖子消费者失败")
	}
	if err := mqkafka.RegisterTopicHandlerForConsumer(consumerName, cfg.Topic, s.handleMessage); err != nil {
		return nil, errors.Wrap(err, "注册帖子消息处理器失败")
	}
	if err := mqkafka.StartNamedConsumer(consumerName); err != nil {
		return nil, errors.Wrap(err, "启动帖子消费者失败")
	}

	logger.Info("📨 kafka帖子来源已启动",
		logger.String("topic", cfg.Topic),
		logger.Int("buffer_size", cfg.BufferSize))

	return s, nil
}

func (s *Source) Name() string {
	return "kafka"
}

// handleMessage 解析单条帖子消息并写入缓冲
// 消息格式非法时跳过并记日志, 不阻塞消费
func (s *Source) handleMessage(message []byte) error {
	var msg postMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("⚠️ 帖子消息格式非法, 已跳过", logger.FieldErr(err))
		return nil
	}
	if msg.Content == "" {
		return nil
	}

	platform := msg.Platform
	if platform != model.PlatformTwitter && platform != model.PlatformFarcaster {
		platform = model.PlatformFarcaster
	}

	postedAt := time.Now()
	if msg.PostedAt > 0 {
		postedAt = time.Unix(msg.PostedAt, 0)
	}

	post := &model.SocialPost{
		Platform:        platform,
		PostID:          msg.PostID,
		Content:         msg.Content,
		EngagementCount: msg.EngagementCount,
		PostedAt:        postedAt,
	}

	select {
	case s.buf <- post:
	default:
		// 缓冲满时丢弃最旧的一条, 保证新帖子优先
		select {
		case <-s.buf:
		default:
		}
		select {
		case s.buf <- post:
		default:
		}
		logger.Warn("⚠️ 帖子缓冲已满, 丢弃最旧消息", logger.String("topic", s.topic))
	}

	return nil
}

// FetchPosts 取走缓冲中已到达的帖子, 单轮最多100条, 不阻塞等待
func (s *Source) FetchPosts(ctx context.Context) ([]*model.SocialPost, error) {
	posts := make([]*model.SocialPost, 0, len(s.buf))
	for len(posts) < maxPostsPerFetch {
		select {
		case post := <-s.buf:
			posts = append(posts, post)
		case <-ctx.Done():
			return posts, ctx.Err()
		default:
			return posts, nil
		}
	}
	return posts, nil
}

func (s *Source) Stop() error {
	return mqkafka.CloseNamedConsumer(consumerName)
}
