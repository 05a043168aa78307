package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// BusinessRepository 商家数据访问接口
type BusinessRepository interface {
	GetByID(id uint) (*models.Business, error)
	GetBySlug(slug string) (*models.Business, error)
	Create(business *models.Business) error
	Update(business *models.Business) error
	List(filter BusinessListFilter) ([]models.Business, int64, error)
	WithTx(tx *gorm.DB) *GormBusinessRepository
}

// GormBusinessRepository GORM 实现
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository 创建商家仓库
func NewBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBusinessRepository) WithTx(tx *gorm.DB) *GormBusinessRepository {
	if tx == nil {
		return r
	}
	return &GormBusinessRepository{db: tx}
}

// GetByID 根据ID获取商家
func (r *GormBusinessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

// GetBySlug 根据标识获取商家
func (r *GormBusinessRepository) GetBySlug(slug string) (*models.Business, error) {
	var business models.Business
	if err := r.db.Where("slug = ?", slug).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

// Create 创建商家
func (r *GormBusinessRepository) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

// Update 更新商家
func (r *GormBusinessRepository) Update(business *models.Business) error {
	return r.db.Save(business).Error
}

// List 获取商家列表
func (r *GormBusinessRepository) List(filter BusinessListFilter) ([]models.Business, int64, error) {
	var businesses []models.Business
	query := r.db.Model(&models.Business{})

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", keyword, keyword)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&businesses).Error; err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}
