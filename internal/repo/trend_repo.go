package repo

import (
	"github.com/basepulse/pulse-agent/internal/model"
	"gorm.io/gorm"
)

type TrendRepo interface {
	// Create 写入一条趋势分析结果
	Create(analysis *model.TrendAnalysis) error

	// ListRecent 按创建时间倒序获取最近的趋势分析
	ListRecent(limit int) ([]*model.TrendAnalysis, error)
}

type trendRepoImpl struct {
	db *gorm.DB
}

func NewTrendRepo(db *gorm.DB) TrendRepo {
	return &trendRepoImpl{
		db: db,
	}
}

// Create 写入一条趋势分析结果
func (r *trendRepoImpl) Create(analysis *model.TrendAnalysis) error {
	return r.db.Create(analysis).Error
}

// ListRecent 按创建时间倒序获取最近的趋势分析
func (r *trendRepoImpl) ListRecent(limit int) ([]*model.TrendAnalysis, error) {
	var analyses []*model.TrendAnalysis

	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error

	return analyses, err
}
