package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository 顾客数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByIDForUpdate(id uint) (*models.Customer, error)
	GetByUserAndBusiness(userID, businessID uint) (*models.Customer, error)
	GetByReferralCode(code string) (*models.Customer, error)
	ListByUserID(userID uint) ([]models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	IncrementTotalPoints(id uint, delta int) error
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID 根据ID获取顾客
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByIDForUpdate 根据ID获取顾客并加行锁（需在事务内调用）
func (r *GormCustomerRepository) GetByIDForUpdate(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByUserAndBusiness 根据用户与商家获取顾客身份
func (r *GormCustomerRepository) GetByUserAndBusiness(userID, businessID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("user_id = ? AND business_id = ?", userID, businessID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByReferralCode 根据推荐码获取顾客
func (r *GormCustomerRepository) GetByReferralCode(code string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("referral_code = ?", code).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// ListByUserID 获取用户的全部顾客身份
func (r *GormCustomerRepository) ListByUserID(userID uint) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Where("user_id = ?", userID).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Create 创建顾客
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update 更新顾客
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// IncrementTotalPoints 原子增加顾客累计积分
func (r *GormCustomerRepository) IncrementTotalPoints(id uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.db.Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta)).Error
}

// List 获取顾客列表
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer
	query := r.db.Model(&models.Customer{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		like := likeOperator(r.db)
		query = query.Joins("JOIN users ON users.id = customers.user_id").
			Where("users.email "+like+" ? OR users.display_name "+like+" ?", keyword, keyword)
	}
	if filter.MinPoints != nil {
		query = query.Where("total_points >= ?", *filter.MinPoints)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("User").Order("customers.id desc").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
