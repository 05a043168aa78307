package service

import (
	"strings"
	"time"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// LoyaltyProgramService 忠诚度计划服务
// 每个商家至多一个计划，重复创建返回已存在的计划。
type LoyaltyProgramService struct {
	repo         repository.LoyaltyProgramRepository
	businessRepo repository.BusinessRepository
}

// NewLoyaltyProgramService 创建忠诚度计划服务
func NewLoyaltyProgramService(repo repository.LoyaltyProgramRepository, businessRepo repository.BusinessRepository) *LoyaltyProgramService {
	return &LoyaltyProgramService{
		repo:         repo,
		businessRepo: businessRepo,
	}
}

// ProgramInput 计划创建/更新输入
type ProgramInput struct {
	Name              string
	Description       string
	Rules             models.JSON
	Tiers             models.JSONArray
	PointsPerPurchase *int
	PointsPerReferral *int
	PointsPerCurrency *models.Money
	IsActive          *bool
}

// GetProgram 获取商家的忠诚度计划
func (s *LoyaltyProgramService) GetProgram(businessID uint) (*models.LoyaltyProgram, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrProgramInvalid
	}
	program, err := s.repo.GetByBusinessID(businessID)
	if err != nil {
		return nil, ErrProgramFetchFailed
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	return program, nil
}

// CreateProgram 创建忠诚度计划
// 商家已有计划时返回 ErrProgramExists，现有计划随错误一并返回。
func (s *LoyaltyProgramService) CreateProgram(businessID uint, input ProgramInput) (*models.LoyaltyProgram, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrProgramInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProgramInvalid
	}

	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, ErrProgramFetchFailed
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	existing, err := s.repo.GetByBusinessID(businessID)
	if err != nil {
		return nil, ErrProgramFetchFailed
	}
	if existing != nil {
		return existing, ErrProgramExists
	}

	now := time.Now()
	program := &models.LoyaltyProgram{
		BusinessID:  businessID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Rules:       input.Rules,
		Tiers:       normalizeTiers(input.Tiers),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.PointsPerPurchase != nil && *input.PointsPerPurchase >= 0 {
		program.PointsPerPurchase = *input.PointsPerPurchase
	}
	if input.PointsPerReferral != nil && *input.PointsPerReferral >= 0 {
		program.PointsPerReferral = *input.PointsPerReferral
	}
	if input.PointsPerCurrency != nil {
		program.PointsPerCurrency = *input.PointsPerCurrency
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.repo.Create(program); err != nil {
		return nil, ErrProgramCreateFailed
	}
	return program, nil
}

// UpdateProgram 更新忠诚度计划
func (s *LoyaltyProgramService) UpdateProgram(businessID uint, input ProgramInput) (*models.LoyaltyProgram, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrProgramInvalid
	}
	program, err := s.repo.GetByBusinessID(businessID)
	if err != nil {
		return nil, ErrProgramFetchFailed
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		program.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		program.Description = desc
	}
	if input.Rules != nil {
		program.Rules = input.Rules
	}
	if input.Tiers != nil {
		program.Tiers = normalizeTiers(input.Tiers)
	}
	if input.PointsPerPurchase != nil && *input.PointsPerPurchase >= 0 {
		program.PointsPerPurchase = *input.PointsPerPurchase
	}
	if input.PointsPerReferral != nil && *input.PointsPerReferral >= 0 {
		program.PointsPerReferral = *input.PointsPerReferral
	}
	if input.PointsPerCurrency != nil {
		program.PointsPerCurrency = *input.PointsPerCurrency
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}
	program.UpdatedAt = time.Now()
	if err := s.repo.Update(program); err != nil {
		return nil, ErrProgramUpdateFailed
	}
	return program, nil
}

// normalizeTiers 过滤非法等级条目
func normalizeTiers(tiers models.JSONArray) models.JSONArray {
	if len(tiers) == 0 {
		return models.JSONArray{}
	}
	result := make(models.JSONArray, 0, len(tiers))
	for _, entry := range tiers {
		name, _ := entry["name"].(string)
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := jsonNumberToInt(entry["min_points"]); !ok {
			continue
		}
		result = append(result, entry)
	}
	return result
}
