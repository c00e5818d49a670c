package repo

import (
	"github.com/basepulse/pulse-agent/internal/model"
	"gorm.io/gorm"
)

type MetricRepo interface {
	// Create 写入一条运行指标
	Create(metric *model.AgentMetric) error

	// ListRecentByType 按时间倒序获取指定类型的最近指标
	ListRecentByType(metricType string, limit int) ([]*model.AgentMetric, error)
}

type metricRepoImpl struct {
	db *gorm.DB
}

func NewMetricRepo(db *gorm.DB) MetricRepo {
	return &metricRepoImpl{
		db: db,
	}
}

// Create 写入一条运行指标
func (r *metricRepoImpl) Create(metric *model.AgentMetric) error {
	return r.db.Create(metric).Error
}

// ListRecentByType 按时间倒序获取指定类型的最近指标
func (r *metricRepoImpl) ListRecentByType(metricType string, limit int) ([]*model.AgentMetric, error) {
	var metrics []*model.AgentMetric

	err := r.db.
		Where("metric_type = ?", metricType).
		Order("timestamp DESC").
		Limit(limit).
		Find(&metrics).Error

	return metrics, err
}
