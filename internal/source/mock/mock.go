package mock

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/basepulse/pulse-agent/internal/model"
	"github.com/basepulse/pulse-agent/pkg/utils"
)

// 预置主题, 接入真实 X/Farcaster API 前的占位数据
var themes = []string{
	"Base ecosystem growth",
	"DeFi innovation on Layer 2",
	"Coinbase integration",
	"Ethereum scaling solutions",
	"Smart contract security",
}

// Source 模拟帖子来源: 每轮为每个预置主题生成一条帖子
type Source struct{}

func New() *Source {
	return &Source{}
}

func (s *Source) Name() string {
	return "mock"
}

// FetchPosts 为每个预置主题生成一条帖子
func (s *Source) FetchPosts(ctx context.Context) ([]*model.SocialPost, error) {
	now := time.Now()
	posts := make([]*model.SocialPost, 0, len(themes))
	for _, theme := range themes {
		posts = append(posts, &model.SocialPost{
			Platform:        model.PlatformFarcaster,
			PostID:          utils.GenerateID(),
			Content:         fmt.Sprintf("Just saw amazing activity in %s! #Base #Crypto", theme),
			EngagementCount: int32(rand.Intn(500)),
			PostedAt:        now,
		})
	}
	return posts, nil
}

func (s *Source) Stop() error {
	return nil
}
