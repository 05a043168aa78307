package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyCardRepository 会员卡数据访问接口
type LoyaltyCardRepository interface {
	GetByID(id uint) (*models.LoyaltyCard, error)
	GetByCustomerAndProgram(customerID, programID uint) (*models.LoyaltyCard, error)
	GetByCustomerAndProgramForUpdate(customerID, programID uint) (*models.LoyaltyCard, error)
	ListByCustomerIDs(customerIDs []uint) ([]models.LoyaltyCard, error)
	Create(card *models.LoyaltyCard) error
	Update(card *models.LoyaltyCard) error
	WithTx(tx *gorm.DB) *GormLoyaltyCardRepository
}

// GormLoyaltyCardRepository GORM 实现
type GormLoyaltyCardRepository struct {
	db *gorm.DB
}

// NewLoyaltyCardRepository 创建会员卡仓库
func NewLoyaltyCardRepository(db *gorm.DB) *GormLoyaltyCardRepository {
	return &GormLoyaltyCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLoyaltyCardRepository) WithTx(tx *gorm.DB) *GormLoyaltyCardRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyCardRepository{db: tx}
}

// GetByID 根据ID获取会员卡
func (r *GormLoyaltyCardRepository) GetByID(id uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByCustomerAndProgram 获取顾客在某计划下的会员卡
func (r *GormLoyaltyCardRepository) GetByCustomerAndProgram(customerID, programID uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := r.db.Where("customer_id = ? AND program_id = ?", customerID, programID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByCustomerAndProgramForUpdate 获取会员卡并加行锁（需在事务内调用）
func (r *GormLoyaltyCardRepository) GetByCustomerAndProgramForUpdate(customerID, programID uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND program_id = ?", customerID, programID).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// ListByCustomerIDs 批量获取会员卡
func (r *GormLoyaltyCardRepository) ListByCustomerIDs(customerIDs []uint) ([]models.LoyaltyCard, error) {
	if len(customerIDs) == 0 {
		return []models.LoyaltyCard{}, nil
	}
	var cards []models.LoyaltyCard
	if err := r.db.Where("customer_id IN ?", customerIDs).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Create 创建会员卡
func (r *GormLoyaltyCardRepository) Create(card *models.LoyaltyCard) error {
	return r.db.Create(card).Error
}

// Update 更新会员卡
func (r *GormLoyaltyCardRepository) Update(card *models.LoyaltyCard) error {
	return r.db.Save(card).Error
}
