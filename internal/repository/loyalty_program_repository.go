package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// LoyaltyProgramRepository 积分计划数据访问接口
type LoyaltyProgramRepository interface {
	GetByID(id uint) (*models.LoyaltyProgram, error)
	GetByBusinessID(businessID uint) (*models.LoyaltyProgram, error)
	Create(program *models.LoyaltyProgram) error
	Update(program *models.LoyaltyProgram) error
	WithTx(tx *gorm.DB) *GormLoyaltyProgramRepository
}

// GormLoyaltyProgramRepository GORM 实现
type GormLoyaltyProgramRepository struct {
	db *gorm.DB
}

// NewLoyaltyProgramRepository 创建积分计划仓库
func NewLoyaltyProgramRepository(db *gorm.DB) *GormLoyaltyProgramRepository {
	return &GormLoyaltyProgramRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLoyaltyProgramRepository) WithTx(tx *gorm.DB) *GormLoyaltyProgramRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyProgramRepository{db: tx}
}

// GetByID 根据ID获取积分计划
func (r *GormLoyaltyProgramRepository) GetByID(id uint) (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	if err := r.db.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

// GetByBusinessID 获取商家的积分计划（每商家至多一个）
func (r *GormLoyaltyProgramRepository) GetByBusinessID(businessID uint) (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	if err := r.db.Where("business_id = ?", businessID).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

// Create 创建积分计划
func (r *GormLoyaltyProgramRepository) Create(program *models.LoyaltyProgram) error {
	return r.db.Create(program).Error
}

// Update 更新积分计划
func (r *GormLoyaltyProgramRepository) Update(program *models.LoyaltyProgram) error {
	return r.db.Save(program).Error
}
