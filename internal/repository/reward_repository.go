package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// RewardRepository 奖励数据访问接口
type RewardRepository interface {
	GetByID(id uint) (*models.Reward, error)
	Create(reward *models.Reward) error
	Update(reward *models.Reward) error
	Delete(id uint) error
	List(filter RewardListFilter) ([]models.Reward, int64, error)
	ConsumeStock(id uint) (bool, error)
	WithTx(tx *gorm.DB) *GormRewardRepository
}

// GormRewardRepository GORM 实现
type GormRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 创建奖励仓库
func NewRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRewardRepository) WithTx(tx *gorm.DB) *GormRewardRepository {
	if tx == nil {
		return r
	}
	return &GormRewardRepository{db: tx}
}

// GetByID 根据ID获取奖励
func (r *GormRewardRepository) GetByID(id uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// Create 创建奖励
func (r *GormRewardRepository) Create(reward *models.Reward) error {
	return r.db.Create(reward).Error
}

// Update 更新奖励
func (r *GormRewardRepository) Update(reward *models.Reward) error {
	return r.db.Save(reward).Error
}

// Delete 删除奖励
func (r *GormRewardRepository) Delete(id uint) error {
	return r.db.Delete(&models.Reward{}, id).Error
}

// List 获取奖励列表
func (r *GormRewardRepository) List(filter RewardListFilter) ([]models.Reward, int64, error) {
	var rewards []models.Reward
	query := r.db.Model(&models.Reward{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.ProgramID > 0 {
		query = query.Where("program_id = ?", filter.ProgramID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("points_required asc, id asc").Find(&rewards).Error; err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

// ConsumeStock 扣减一份奖励库存并累加兑换次数。
// quantity=0 表示不限量；限量奖励在兑完后返回 false。
func (r *GormRewardRepository) ConsumeStock(id uint) (bool, error) {
	result := r.db.Model(&models.Reward{}).
		Where("id = ?", id).
		Where("quantity = 0 OR redeemed_count < quantity").
		UpdateColumn("redeemed_count", gorm.Expr("redeemed_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
