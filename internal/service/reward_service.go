package service

import (
	"strings"
	"time"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// RewardService 奖励服务
type RewardService struct {
	repo        repository.RewardRepository
	programRepo repository.LoyaltyProgramRepository
}

// NewRewardService 创建奖励服务
func NewRewardService(repo repository.RewardRepository, programRepo repository.LoyaltyProgramRepository) *RewardService {
	return &RewardService{
		repo:        repo,
		programRepo: programRepo,
	}
}

// RewardInput 奖励创建/更新输入
type RewardInput struct {
	Name           string
	Description    string
	PointsRequired *int
	Quantity       *int
	IsActive       *bool
}

// GetReward 获取奖励
func (s *RewardService) GetReward(id uint) (*models.Reward, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrRewardInvalid
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

// CreateReward 创建奖励
func (s *RewardService) CreateReward(businessID uint, input RewardInput) (*models.Reward, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrRewardInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrRewardInvalid
	}
	if input.PointsRequired == nil || *input.PointsRequired < 0 {
		return nil, ErrRewardInvalid
	}

	program, err := s.programRepo.GetByBusinessID(businessID)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	now := time.Now()
	reward := &models.Reward{
		BusinessID:     businessID,
		ProgramID:      program.ID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		PointsRequired: *input.PointsRequired,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Quantity != nil && *input.Quantity >= 0 {
		reward.Quantity = *input.Quantity
	}
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}
	if err := s.repo.Create(reward); err != nil {
		return nil, ErrRewardCreateFailed
	}
	return reward, nil
}

// UpdateReward 更新奖励
func (s *RewardService) UpdateReward(id uint, businessID uint, input RewardInput) (*models.Reward, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrRewardInvalid
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	if businessID > 0 && reward.BusinessID != businessID {
		return nil, ErrRewardNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		reward.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		reward.Description = desc
	}
	if input.PointsRequired != nil {
		if *input.PointsRequired < 0 {
			return nil, ErrRewardInvalid
		}
		reward.PointsRequired = *input.PointsRequired
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrRewardInvalid
		}
		reward.Quantity = *input.Quantity
	}
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}
	reward.UpdatedAt = time.Now()
	if err := s.repo.Update(reward); err != nil {
		return nil, ErrRewardUpdateFailed
	}
	return reward, nil
}

// DeleteReward 删除奖励
func (s *RewardService) DeleteReward(id uint, businessID uint) error {
	if s == nil || s.repo == nil || id == 0 {
		return ErrRewardInvalid
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return ErrRewardFetchFailed
	}
	if reward == nil {
		return ErrRewardNotFound
	}
	if businessID > 0 && reward.BusinessID != businessID {
		return ErrRewardNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrRewardDeleteFailed
	}
	return nil
}

// ListRewards 获取奖励列表
func (s *RewardService) ListRewards(filter repository.RewardListFilter) ([]models.Reward, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrRewardFetchFailed
	}
	rewards, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrRewardFetchFailed
	}
	return rewards, total, nil
}
