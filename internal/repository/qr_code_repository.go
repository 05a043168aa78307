package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QRCodeRepository 二维码数据访问接口
type QRCodeRepository interface {
	GetByID(id uint) (*models.QRCode, error)
	GetByCode(code string) (*models.QRCode, error)
	Create(qr *models.QRCode) error
	Update(qr *models.QRCode) error
	Delete(id uint) error
	List(filter QRCodeListFilter) ([]models.QRCode, int64, error)
	IncrementScans(id uint, unique bool) error
	InsertScan(scan *models.QRScan) (bool, error)
	WithTx(tx *gorm.DB) *GormQRCodeRepository
}

// GormQRCodeRepository GORM 实现
type GormQRCodeRepository struct {
	db *gorm.DB
}

// NewQRCodeRepository 创建二维码仓库
func NewQRCodeRepository(db *gorm.DB) *GormQRCodeRepository {
	return &GormQRCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQRCodeRepository) WithTx(tx *gorm.DB) *GormQRCodeRepository {
	if tx == nil {
		return r
	}
	return &GormQRCodeRepository{db: tx}
}

// GetByID 根据ID获取二维码
func (r *GormQRCodeRepository) GetByID(id uint) (*models.QRCode, error) {
	var qr models.QRCode
	if err := r.db.First(&qr, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &qr, nil
}

// GetByCode 根据扫码标识获取二维码
func (r *GormQRCodeRepository) GetByCode(code string) (*models.QRCode, error) {
	var qr models.QRCode
	if err := r.db.Where("code = ?", code).First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &qr, nil
}

// Create 创建二维码
func (r *GormQRCodeRepository) Create(qr *models.QRCode) error {
	return r.db.Create(qr).Error
}

// Update 更新二维码
func (r *GormQRCodeRepository) Update(qr *models.QRCode) error {
	return r.db.Save(qr).Error
}

// Delete 删除二维码
func (r *GormQRCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.QRCode{}, id).Error
}

// List 获取二维码列表
func (r *GormQRCodeRepository) List(filter QRCodeListFilter) ([]models.QRCode, int64, error) {
	var qrCodes []models.QRCode
	query := r.db.Model(&models.QRCode{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.CodeType != "" {
		query = query.Where("code_type = ?", filter.CodeType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&qrCodes).Error; err != nil {
		return nil, 0, err
	}
	return qrCodes, total, nil
}

// IncrementScans 原子累加扫码计数
func (r *GormQRCodeRepository) IncrementScans(id uint, unique bool) error {
	updates := map[string]interface{}{
		"scans_count": gorm.Expr("scans_count + 1"),
	}
	if unique {
		updates["unique_scans_count"] = gorm.Expr("unique_scans_count + 1")
	}
	return r.db.Model(&models.QRCode{}).Where("id = ?", id).UpdateColumns(updates).Error
}

// InsertScan 写入扫码记录，指纹已存在时返回 false（依赖唯一索引去重）
func (r *GormQRCodeRepository) InsertScan(scan *models.QRScan) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(scan)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
