package repo

import (
	"github.com/basepulse/pulse-agent/internal/model"
	"gorm.io/gorm"
)

type SocialRepo interface {
	// Create 写入一条社交互动记录
	Create(interaction *model.SocialInteraction) error

	// ListRecent 按创建时间倒序获取最近的社交互动
	ListRecent(limit int) ([]*model.SocialInteraction, error)
}

type socialRepoImpl struct {
	db *gorm.DB
}

func NewSocialRepo(db *gorm.DB) SocialRepo {
	return &socialRepoImpl{
		db: db,
	}
}

// Create 写入一条社交互动记录
func (r *socialRepoImpl) Create(interaction *model.SocialInteraction) error {
	return r.db.Create(interaction).Error
}

// ListRecent 按创建时间倒序获取最近的社交互动
func (r *socialRepoImpl) ListRecent(limit int) ([]*model.SocialInteraction, error) {
	var interactions []*model.SocialInteraction

	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error

	return interactions, err
}
