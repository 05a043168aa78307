package service

import (
	"strings"
	"time"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// BusinessService 商家服务
type BusinessService struct {
	repo     repository.BusinessRepository
	userRepo repository.UserRepository
}

// NewBusinessService 创建商家服务
func NewBusinessService(repo repository.BusinessRepository, userRepo repository.UserRepository) *BusinessService {
	return &BusinessService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreateBusinessInput 商家创建输入
type CreateBusinessInput struct {
	Name         string
	Slug         string
	OwnerID      *uint
	ContactEmail string
	ContactPhone string
	Address      string
}

// UpdateBusinessInput 商家更新输入
type UpdateBusinessInput struct {
	Name         *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	IsActive     *bool
}

// GetBusiness 获取商家
func (s *BusinessService) GetBusiness(id uint) (*models.Business, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrBusinessInvalid
	}
	business, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrBusinessFetchFailed
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}

// GetBusinessBySlug 根据 slug 获取商家
func (s *BusinessService) GetBusinessBySlug(slug string) (*models.Business, error) {
	if s == nil || s.repo == nil {
		return nil, ErrBusinessInvalid
	}
	normalized := normalizeSlug(slug)
	if normalized == "" {
		return nil, ErrBusinessInvalid
	}
	business, err := s.repo.GetBySlug(normalized)
	if err != nil {
		return nil, ErrBusinessFetchFailed
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}

// CreateBusiness 管理端创建商家
func (s *BusinessService) CreateBusiness(input CreateBusinessInput) (*models.Business, error) {
	if s == nil || s.repo == nil {
		return nil, ErrBusinessCreateFailed
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrBusinessInvalid
	}
	slug := normalizeSlug(input.Slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if slug == "" {
		return nil, ErrBusinessInvalid
	}
	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, ErrBusinessFetchFailed
	}
	if exist != nil {
		return nil, ErrBusinessSlugExists
	}

	now := time.Now()
	business := &models.Business{
		Name:         name,
		Slug:         slug,
		OwnerID:      input.OwnerID,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Address:      strings.TrimSpace(input.Address),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(business); err != nil {
		return nil, ErrBusinessCreateFailed
	}
	return business, nil
}

// UpdateBusiness 更新商家
func (s *BusinessService) UpdateBusiness(id uint, input UpdateBusinessInput) (*models.Business, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrBusinessInvalid
	}
	business, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrBusinessFetchFailed
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrBusinessInvalid
		}
		business.Name = name
	}
	if input.ContactEmail != nil {
		business.ContactEmail = strings.TrimSpace(*input.ContactEmail)
	}
	if input.ContactPhone != nil {
		business.ContactPhone = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Address != nil {
		business.Address = strings.TrimSpace(*input.Address)
	}
	if input.IsActive != nil {
		business.IsActive = *input.IsActive
	}
	business.UpdatedAt = time.Now()
	if err := s.repo.Update(business); err != nil {
		return nil, ErrBusinessUpdateFailed
	}
	return business, nil
}

// ListBusinesses 获取商家列表
func (s *BusinessService) ListBusinesses(filter repository.BusinessListFilter) ([]models.Business, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrBusinessFetchFailed
	}
	businesses, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrBusinessFetchFailed
	}
	return businesses, total, nil
}
