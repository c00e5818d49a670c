package repo

import (
	"github.com/basepulse/pulse-agent/internal/model"
	"gorm.io/gorm"
)

type TreasuryRepo interface {
	// Create 写入一条国库流水
	Create(tx *model.TreasuryTransaction) error

	// ListAll 获取全部国库流水, 用于计算余额
	ListAll() ([]*model.TreasuryTransaction, error)

	// ListRecent 按创建时间倒序获取最近的国库流水
	ListRecent(limit int) ([]*model.TreasuryTransaction, error)
}

type treasuryRepoImpl struct {
	db *gorm.DB
}

func NewTreasuryRepo(db *gorm.DB) TreasuryRepo {
	return &treasuryRepoImpl{
		db: db,
	}
}

// Create 写入一条国库流水
func (r *treasuryRepoImpl) Create(tx *model.TreasuryTransaction) error {
	return r.db.Create(tx).Error
}

// ListAll 获取全部国库流水
func (r *treasuryRepoImpl) ListAll() ([]*model.TreasuryTransaction, error) {
	var txs []*model.TreasuryTransaction

	err := r.db.
		Order("id ASC").
		Find(&txs).Error

	return txs, err
}

// ListRecent 按创建时间倒序获取最近的国库流水
func (r *treasuryRepoImpl) ListRecent(limit int) ([]*model.TreasuryTransaction, error) {
	var txs []*model.TreasuryTransaction

	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error

	return txs, err
}
