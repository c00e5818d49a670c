package repo

import (
	"time"

	"github.com/basepulse/pulse-agent/internal/model"
	"gorm.io/gorm"
)

type TokenRepo interface {
	// Create 写入一条部署记录
	Create(token *model.DeployedToken) error

	// CreateWithCost 在同一事务内写入部署记录与部署成本流水
	// 任一写入失败则整体回滚, 不留下任何数据行
	CreateWithCost(token *model.DeployedToken, cost *model.TreasuryTransaction) error

	// GetByAddress 根据合约地址获取代币
	GetByAddress(tokenAddress string) (*model.DeployedToken, error)

	// ListRecent 按创建时间倒序获取最近部署的代币
	ListRecent(limit int) ([]*model.DeployedToken, error)

	// ListDeployed 获取所有已部署(deployed/active)的代币, 用于手续费归集
	ListDeployed() ([]*model.DeployedToken, error)

	// CountCreatedSince 统计指定时间之后的部署数量
	CountCreatedSince(since time.Time) (int64, error)
}

type tokenRepoImpl struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) TokenRepo {
	return &tokenRepoImpl{
		db: db,
	}
}

// Create 写入一条部署记录
func (r *tokenRepoImpl) Create(token *model.DeployedToken) error {
	return r.db.Create(token).Error
}

// CreateWithCost 在同一事务内写入部署记录与部署成本流水
func (r *tokenRepoImpl) CreateWithCost(token *model.DeployedToken, cost *model.TreasuryTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(token).Error; err != nil {
			return err
		}
		return tx.Create(cost).Error
	})
}

// GetByAddress 根据合约地址获取代币
func (r *tokenRepoImpl) GetByAddress(tokenAddress string) (*model.DeployedToken, error) {
	var token model.DeployedToken

	err := r.db.
		Where("token_address = ?", tokenAddress).
		First(&token).Error

	if err != nil {
		return nil, err
	}

	return &token, nil
}

// ListRecent 按创建时间倒序获取最近部署的代币
func (r *tokenRepoImpl) ListRecent(limit int) ([]*model.DeployedToken, error) {
	var tokens []*model.DeployedToken

	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&tokens).Error

	return tokens, err
}

// ListDeployed 获取所有已部署的代币
func (r *tokenRepoImpl) ListDeployed() ([]*model.DeployedToken, error) {
	var tokens []*model.DeployedToken

	err := r.db.
		Where("status IN (?, ?)", model.TokenStatusDeployed, model.TokenStatusActive).
		Order("id ASC").
		Find(&tokens).Error

	return tokens, err
}

// CountCreatedSince 统计指定时间之后的部署数量
func (r *tokenRepoImpl) CountCreatedSince(since time.Time) (int64, error) {
	var count int64

	err := r.db.Model(&model.DeployedToken{}).
		Where("created_at >= ?", since).
		Count(&count).Error

	return count, err
}
