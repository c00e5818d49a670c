package model

import "time"

// 社交平台
const (
	PlatformTwitter   = "twitter"
	PlatformFarcaster = "farcaster"
)

// 帖子情绪倾向
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

type SocialInteraction struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	Platform    string `gorm:"column:platform;type:varchar(16);not null;comment:来源平台 twitter/farcaster"`
	PostID      string `gorm:"column:post_id;type:varchar(255);not null;comment:平台帖子ID"`
	PostContent string `gorm:"column:post_content;type:text;comment:帖子内容"`
	Sentiment   string `gorm:"column:sentiment;type:varchar(16);default:'';comment:情绪倾向 positive/neutral/negative"`

	EngagementCount  int32   `gorm:"column:engagement_count;default:0;comment:互动数"`
	MentionedTokenID *uint64 `gorm:"column:mentioned_token_id;comment:提及的代币ID"`

	AgentResponse  string `gorm:"column:agent_response;type:text;comment:代理回复内容"`
	ResponsePostID string `gorm:"column:response_post_id;type:varchar(255);default:'';comment:回复帖子ID"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (*SocialInteraction) TableName() string {
	return "social_interactions"
}
