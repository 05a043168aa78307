package repository

import (
	"errors"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// SettingRepository 商家设置数据访问接口
type SettingRepository interface {
	GetByBusinessAndKey(businessID uint, key string) (*models.Setting, error)
	ListByBusiness(businessID uint) ([]models.Setting, error)
	Upsert(businessID uint, key string, value models.JSON) (*models.Setting, bool, error)
	Delete(businessID uint, key string) (bool, error)
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// GetByBusinessAndKey 获取单项设置
func (r *GormSettingRepository) GetByBusinessAndKey(businessID uint, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.Where("business_id = ? AND settings_key = ?", businessID, key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// ListByBusiness 获取商家全部设置
func (r *GormSettingRepository) ListByBusiness(businessID uint) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Where("business_id = ?", businessID).Order("settings_key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert 更新或创建设置，返回是否为新建
func (r *GormSettingRepository) Upsert(businessID uint, key string, value models.JSON) (*models.Setting, bool, error) {
	setting, err := r.GetByBusinessAndKey(businessID, key)
	if err != nil {
		return nil, false, err
	}
	if setting == nil {
		setting = &models.Setting{
			BusinessID:  businessID,
			SettingsKey: key,
			ValueJSON:   value,
		}
		if err := r.db.Create(setting).Error; err != nil {
			return nil, false, err
		}
		return setting, true, nil
	}

	setting.ValueJSON = value
	if err := r.db.Save(setting).Error; err != nil {
		return nil, false, err
	}
	return setting, false, nil
}

// Delete 删除设置，返回是否存在
func (r *GormSettingRepository) Delete(businessID uint, key string) (bool, error) {
	result := r.db.Where("business_id = ? AND settings_key = ?", businessID, key).Delete(&models.Setting{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
