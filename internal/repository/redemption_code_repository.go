package repository

import (
	"errors"
	"time"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 兑换码列表排序字段白名单。过滤值一律走参数绑定，排序列只允许取自这里。
var redemptionCodeSortColumns = map[string]string{
	"created_at":  "created_at",
	"expires_at":  "expires_at",
	"redeemed_at": "redeemed_at",
	"code":        "code",
	"status":      "status",
}

// RedemptionCodeRepository 兑换码数据访问接口
type RedemptionCodeRepository interface {
	GetByID(id uint) (*models.RedemptionCode, error)
	GetByCode(code string) (*models.RedemptionCode, error)
	GetByCodeForUpdate(code string) (*models.RedemptionCode, error)
	ListByIDs(ids []uint) ([]models.RedemptionCode, error)
	Create(code *models.RedemptionCode) error
	CreateBatch(codes []models.RedemptionCode) error
	Update(code *models.RedemptionCode) error
	List(filter RedemptionCodeListFilter) ([]models.RedemptionCode, int64, error)
	ListByCustomerIDs(customerIDs []uint, page, pageSize int) ([]models.RedemptionCode, int64, error)
	ExpireIfActive(id uint, now time.Time) (bool, error)
	ListDueActiveIDs(now time.Time, limit int) ([]uint, error)
	WithTx(tx *gorm.DB) *GormRedemptionCodeRepository
}

// GormRedemptionCodeRepository GORM 实现
type GormRedemptionCodeRepository struct {
	db *gorm.DB
}

// NewRedemptionCodeRepository 创建兑换码仓库
func NewRedemptionCodeRepository(db *gorm.DB) *GormRedemptionCodeRepository {
	return &GormRedemptionCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRedemptionCodeRepository) WithTx(tx *gorm.DB) *GormRedemptionCodeRepository {
	if tx == nil {
		return r
	}
	return &GormRedemptionCodeRepository{db: tx}
}

// GetByID 根据ID获取兑换码
func (r *GormRedemptionCodeRepository) GetByID(id uint) (*models.RedemptionCode, error) {
	var code models.RedemptionCode
	if err := r.db.First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByCode 根据码值获取兑换码
func (r *GormRedemptionCodeRepository) GetByCode(code string) (*models.RedemptionCode, error) {
	var row models.RedemptionCode
	if err := r.db.Where("code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByCodeForUpdate 根据码值获取兑换码并加行锁（需在事务内调用）
func (r *GormRedemptionCodeRepository) GetByCodeForUpdate(code string) (*models.RedemptionCode, error) {
	var row models.RedemptionCode
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByIDs 批量获取兑换码
func (r *GormRedemptionCodeRepository) ListByIDs(ids []uint) ([]models.RedemptionCode, error) {
	if len(ids) == 0 {
		return []models.RedemptionCode{}, nil
	}
	var codes []models.RedemptionCode
	if err := r.db.Where("id IN ?", ids).Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Create 创建兑换码
func (r *GormRedemptionCodeRepository) Create(code *models.RedemptionCode) error {
	return r.db.Create(code).Error
}

// CreateBatch 批量创建兑换码
func (r *GormRedemptionCodeRepository) CreateBatch(codes []models.RedemptionCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.Create(&codes).Error
}

// Update 更新兑换码
func (r *GormRedemptionCodeRepository) Update(code *models.RedemptionCode) error {
	return r.db.Save(code).Error
}

// List 获取兑换码列表
func (r *GormRedemptionCodeRepository) List(filter RedemptionCodeListFilter) ([]models.RedemptionCode, int64, error) {
	var codes []models.RedemptionCode
	query := r.db.Model(&models.RedemptionCode{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.CustomerID > 0 {
		query = query.Where("(customer_id = ? OR redeemed_by = ?)", filter.CustomerID, filter.CustomerID)
	}
	if filter.RewardID > 0 {
		query = query.Where("reward_id = ?", filter.RewardID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.ExpiresFrom != nil {
		query = query.Where("expires_at >= ?", *filter.ExpiresFrom)
	}
	if filter.ExpiresTo != nil {
		query = query.Where("expires_at <= ?", *filter.ExpiresTo)
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

	order := "id desc"
	if column, ok := redemptionCodeSortColumns[filter.SortBy]; ok {
		direction := "asc"
		if filter.SortDirection == "desc" {
			direction = "desc"
		}
		order = column + " " + direction
	}

	if err := query.Preload("Reward").Order(order).Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// ListByCustomerIDs 按顾客ID集合获取兑换码（定向或已兑换均计入）
func (r *GormRedemptionCodeRepository) ListByCustomerIDs(customerIDs []uint, page, pageSize int) ([]models.RedemptionCode, int64, error) {
	if len(customerIDs) == 0 {
		return []models.RedemptionCode{}, 0, nil
	}

	var codes []models.RedemptionCode
	query := r.db.Model(&models.RedemptionCode{}).
		Where("customer_id IN ? OR redeemed_by IN ?", customerIDs, customerIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	if err := query.Preload("Reward").Order("id desc").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// ExpireIfActive 将仍处于 active 状态的兑换码标记为过期。
// 返回是否发生了状态变更。
func (r *GormRedemptionCodeRepository) ExpireIfActive(id uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.RedemptionCode{}).
		Where("id = ? AND status = ?", id, "active").
		Updates(map[string]interface{}{
			"status":     "expired",
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListDueActiveIDs 获取已到期但仍为 active 状态的兑换码ID
func (r *GormRedemptionCodeRepository) ListDueActiveIDs(now time.Time, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []uint
	err := r.db.Model(&models.RedemptionCode{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", "active", now).
		Order("expires_at asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
