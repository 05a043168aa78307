package service

import (
	"strings"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"
	"github.com/loyalty-next/internal/repository"

	"gorm.io/gorm"
)

// PointsService 积分服务
// 负责积分入账、会员卡惰性创建与等级重算。
type PointsService struct {
	cfg          *config.Config
	customerRepo repository.CustomerRepository
	cardRepo     repository.LoyaltyCardRepository
	programRepo  repository.LoyaltyProgramRepository
	txnRepo      repository.TransactionRepository
	queueClient  *queue.Client
}

// NewPointsService 创建积分服务
func NewPointsService(
	cfg *config.Config,
	customerRepo repository.CustomerRepository,
	cardRepo repository.LoyaltyCardRepository,
	programRepo repository.LoyaltyProgramRepository,
	txnRepo repository.TransactionRepository,
	queueClient *queue.Client,
) *PointsService {
	return &PointsService{
		cfg:          cfg,
		customerRepo: customerRepo,
		cardRepo:     cardRepo,
		programRepo:  programRepo,
		txnRepo:      txnRepo,
		queueClient:  queueClient,
	}
}

// IssuePointsInput 积分入账输入
type IssuePointsInput struct {
	BusinessID uint
	CustomerID uint
	Points     int
	Type       string
	Amount     models.Money
	Reference  string
	Remark     string
}

// IssuePoints 积分入账（独立事务）
func (s *PointsService) IssuePoints(input IssuePointsInput) (*models.LoyaltyCard, error) {
	var card *models.LoyaltyCard
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		result, issueErr := s.IssuePointsInTx(tx, input)
		if issueErr != nil {
			return issueErr
		}
		card = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	if input.Points > 0 {
		_ = s.queueClient.EnqueuePointsEarnedEmail(queue.PointsEarnedEmailPayload{
			CustomerID: input.CustomerID,
			Points:     input.Points,
			Reason:     input.Type,
		})
	}
	return card, nil
}

// IssuePointsInTx 事务内积分入账
// 会员卡首次入账时创建，余额与顾客累计计数同事务更新。
func (s *PointsService) IssuePointsInTx(tx *gorm.DB, input IssuePointsInput) (*models.LoyaltyCard, error) {
	if input.CustomerID == 0 || input.BusinessID == 0 {
		return nil, ErrCustomerInvalid
	}
	if input.Points == 0 {
		return nil, ErrPointsInvalid
	}
	txnType := strings.TrimSpace(strings.ToLower(input.Type))
	if !isTransactionTypeSupported(txnType) {
		return nil, ErrPointsInvalid
	}

	customer, err := s.customerRepo.WithTx(tx).GetByIDForUpdate(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	if customer.BusinessID != input.BusinessID {
		return nil, ErrCustomerInvalid
	}

	now := time.Now()
	var card *models.LoyaltyCard
	program, err := s.programRepo.WithTx(tx).GetByBusinessID(input.BusinessID)
	if err != nil {
		return nil, err
	}
	if program != nil {
		card, err = s.cardRepo.WithTx(tx).GetByCustomerAndProgramForUpdate(customer.ID, program.ID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			card = &models.LoyaltyCard{
				CustomerID:    customer.ID,
				ProgramID:     program.ID,
				PointsBalance: 0,
				Tier:          constants.LoyaltyTierDefault,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.cardRepo.WithTx(tx).Create(card); err != nil {
				return nil, err
			}
		}
		balance := card.PointsBalance + input.Points
		if balance < 0 {
			return nil, ErrPointsInvalid
		}
		card.PointsBalance = balance
		card.Tier = resolveCardTier(program.Tiers, balance)
		card.UpdatedAt = now
		if err := s.cardRepo.WithTx(tx).Update(card); err != nil {
			return nil, err
		}
	}

	if input.Points > 0 {
		if err := s.customerRepo.WithTx(tx).IncrementTotalPoints(customer.ID, input.Points); err != nil {
			return nil, err
		}
	}

	txn := &models.Transaction{
		BusinessID:   input.BusinessID,
		CustomerID:   customer.ID,
		Type:         txnType,
		Amount:       input.Amount,
		PointsEarned: input.Points,
		Reference:    strings.TrimSpace(input.Reference),
		Remark:       strings.TrimSpace(input.Remark),
		CreatedAt:    now,
	}
	if program != nil {
		txn.ProgramID = &program.ID
	}
	if err := s.txnRepo.WithTx(tx).Create(txn); err != nil {
		return nil, err
	}

	return card, nil
}

// ReferralPoints 获取商家推荐奖励积分
func (s *PointsService) ReferralPoints(businessID uint) int {
	if s == nil || s.programRepo == nil {
		return 0
	}
	program, err := s.programRepo.GetByBusinessID(businessID)
	if err == nil && program != nil && program.PointsPerReferral > 0 {
		return program.PointsPerReferral
	}
	if s.cfg != nil && s.cfg.Loyalty.PointsPerReferral > 0 {
		return s.cfg.Loyalty.PointsPerReferral
	}
	return 0
}

// ListCards 获取用户全部会员卡
func (s *PointsService) ListCards(userID uint) ([]models.LoyaltyCard, error) {
	if userID == 0 {
		return nil, ErrCardFetchFailed
	}
	customers, err := s.customerRepo.ListByUserID(userID)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	if len(customers) == 0 {
		return []models.LoyaltyCard{}, nil
	}
	customerIDs := make([]uint, 0, len(customers))
	for _, customer := range customers {
		customerIDs = append(customerIDs, customer.ID)
	}
	cards, err := s.cardRepo.ListByCustomerIDs(customerIDs)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	return cards, nil
}

// ListUserTransactions 查询用户名下的积分流水
// businessID 大于 0 时仅返回该商家下的流水。
func (s *PointsService) ListUserTransactions(userID uint, businessID uint, page, pageSize int) ([]models.Transaction, int64, error) {
	if userID == 0 {
		return nil, 0, ErrTransactionFailed
	}
	customers, err := s.customerRepo.ListByUserID(userID)
	if err != nil {
		return nil, 0, ErrTransactionFailed
	}
	customerIDs := make([]uint, 0, len(customers))
	for _, customer := range customers {
		if businessID > 0 && customer.BusinessID != businessID {
			continue
		}
		customerIDs = append(customerIDs, customer.ID)
	}
	txns, total, err := s.txnRepo.ListByCustomerIDs(customerIDs, page, pageSize)
	if err != nil {
		return nil, 0, ErrTransactionFailed
	}
	return txns, total, nil
}

// ListTransactions 查询积分流水
func (s *PointsService) ListTransactions(filter repository.TransactionListFilter) ([]models.Transaction, int64, error) {
	txns, total, err := s.txnRepo.List(filter)
	if err != nil {
		return nil, 0, ErrTransactionFailed
	}
	return txns, total, nil
}

// resolveCardTier 依据计划等级阈值计算会员等级
// tiers 为 {name, min_points} 数组，取不超过余额的最高阈值。
func resolveCardTier(tiers models.JSONArray, balance int) string {
	tier := constants.LoyaltyTierDefault
	best := -1
	for _, entry := range tiers {
		name, _ := entry["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		min, ok := jsonNumberToInt(entry["min_points"])
		if !ok || min > balance {
			continue
		}
		if min > best {
			best = min
			tier = name
		}
	}
	return tier
}

func jsonNumberToInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func isTransactionTypeSupported(txnType string) bool {
	switch txnType {
	case constants.TransactionTypePurchase,
		constants.TransactionTypeRefund,
		constants.TransactionTypeRewardRedemption,
		constants.TransactionTypeReferral,
		constants.TransactionTypeAdjustment:
		return true
	default:
		return false
	}
}
