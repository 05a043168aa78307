package repository

import (
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository 积分流水数据访问接口
type TransactionRepository interface {
	Create(txn *models.Transaction) error
	List(filter TransactionListFilter) ([]models.Transaction, int64, error)
	ListByCustomerIDs(customerIDs []uint, page, pageSize int) ([]models.Transaction, int64, error)
	WithTx(tx *gorm.DB) *GormTransactionRepository
}

// GormTransactionRepository GORM 实现
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建积分流水仓库
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTransactionRepository) WithTx(tx *gorm.DB) *GormTransactionRepository {
	if tx == nil {
		return r
	}
	return &GormTransactionRepository{db: tx}
}

// Create 创建积分流水
func (r *GormTransactionRepository) Create(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

// List 获取积分流水列表
func (r *GormTransactionRepository) List(filter TransactionListFilter) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	query := r.db.Model(&models.Transaction{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ProgramID > 0 {
		query = query.Where("program_id = ?", filter.ProgramID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListByCustomerIDs 按顾客ID集合获取积分流水
func (r *GormTransactionRepository) ListByCustomerIDs(customerIDs []uint, page, pageSize int) ([]models.Transaction, int64, error) {
	if len(customerIDs) == 0 {
		return []models.Transaction{}, 0, nil
	}

	var txns []models.Transaction
	query := r.db.Model(&models.Transaction{}).Where("customer_id IN ?", customerIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
