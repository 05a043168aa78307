package service

import (
	"strings"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// SettingService 商家设置服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetSetting 获取单项设置
func (s *SettingService) GetSetting(businessID uint, key string) (*models.Setting, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrSettingInvalid
	}
	normalized := normalizeSettingKey(key)
	if normalized == "" {
		return nil, ErrSettingInvalid
	}
	setting, err := s.repo.GetByBusinessAndKey(businessID, normalized)
	if err != nil {
		return nil, ErrSettingFetchFailed
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}
	return setting, nil
}

// ListSettings 获取商家全部设置
func (s *SettingService) ListSettings(businessID uint) ([]models.Setting, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrSettingInvalid
	}
	settings, err := s.repo.ListByBusiness(businessID)
	if err != nil {
		return nil, ErrSettingFetchFailed
	}
	return settings, nil
}

// UpsertSetting 写入设置，已存在时覆盖，返回是否新建
func (s *SettingService) UpsertSetting(businessID uint, key string, value models.JSON) (*models.Setting, bool, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, false, ErrSettingInvalid
	}
	normalized := normalizeSettingKey(key)
	if normalized == "" || value == nil {
		return nil, false, ErrSettingInvalid
	}
	setting, created, err := s.repo.Upsert(businessID, normalized, value)
	if err != nil {
		return nil, false, ErrSettingUpdateFailed
	}
	return setting, created, nil
}

// DeleteSetting 删除设置
func (s *SettingService) DeleteSetting(businessID uint, key string) error {
	if s == nil || s.repo == nil || businessID == 0 {
		return ErrSettingInvalid
	}
	normalized := normalizeSettingKey(key)
	if normalized == "" {
		return ErrSettingInvalid
	}
	existed, err := s.repo.Delete(businessID, normalized)
	if err != nil {
		return ErrSettingUpdateFailed
	}
	if !existed {
		return ErrSettingNotFound
	}
	return nil
}

// GetSettingValue 获取设置值，缺失时返回空 JSON
func (s *SettingService) GetSettingValue(businessID uint, key string) (models.JSON, error) {
	setting, err := s.GetSetting(businessID, key)
	if err != nil {
		if err == ErrSettingNotFound {
			return models.JSON{}, nil
		}
		return nil, err
	}
	return setting.ValueJSON, nil
}

func normalizeSettingKey(key string) string {
	return strings.TrimSpace(strings.ToLower(key))
}
