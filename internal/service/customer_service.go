package service

import (
	"strings"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// CustomerService 顾客管理服务（管理端）
type CustomerService struct {
	repo          repository.CustomerRepository
	pointsService *PointsService
}

// NewCustomerService 创建顾客管理服务
func NewCustomerService(repo repository.CustomerRepository, pointsService *PointsService) *CustomerService {
	return &CustomerService{
		repo:          repo,
		pointsService: pointsService,
	}
}

// ManualPointsInput 手工积分调整输入
type ManualPointsInput struct {
	BusinessID uint
	CustomerID uint
	Points     int
	Remark     string
}

// GetCustomer 获取顾客
func (s *CustomerService) GetCustomer(id uint, businessID uint) (*models.Customer, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrCustomerInvalid
	}
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	if businessID > 0 && customer.BusinessID != businessID {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ListCustomers 获取顾客列表
func (s *CustomerService) ListCustomers(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCustomerFetchFailed
	}
	customers, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrCustomerFetchFailed
	}
	return customers, total, nil
}

// IssueManualPoints 管理端手工发放或扣减积分
func (s *CustomerService) IssueManualPoints(input ManualPointsInput) (*models.LoyaltyCard, error) {
	if s == nil || s.pointsService == nil {
		return nil, ErrPointsIssueFailed
	}
	if input.Points == 0 {
		return nil, ErrPointsInvalid
	}
	customer, err := s.GetCustomer(input.CustomerID, input.BusinessID)
	if err != nil {
		return nil, err
	}

	card, err := s.pointsService.IssuePoints(IssuePointsInput{
		BusinessID: customer.BusinessID,
		CustomerID: customer.ID,
		Points:     input.Points,
		Type:       constants.TransactionTypeAdjustment,
		Remark:     strings.TrimSpace(input.Remark),
	})
	if err != nil {
		if err == ErrPointsInvalid || err == ErrCustomerNotFound || err == ErrCustomerInvalid {
			return nil, err
		}
		return nil, ErrPointsIssueFailed
	}
	return card, nil
}
