package source

import (
	"context"

	"github.com/basepulse/pulse-agent/internal/model"
)

// PostSource 社交帖子来源
// 编排器每轮从这里取一批帖子交给趋势分析
type PostSource interface {
	// FetchPosts 获取一批待分析的帖子
	FetchPosts(ctx context.Context) ([]*model.SocialPost, error)

	// Name 来源名称, 用于日志与配置
	Name() string

	// Stop 停止来源
	Stop() error
}
