package service

import (
	crand "crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"
	"github.com/loyalty-next/internal/repository"

	"gorm.io/gorm"
)

// 兑换码字符集，去掉易混淆的 0/O/1/I
const redemptionCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RedemptionCodeService 兑换码服务
type RedemptionCodeService struct {
	cfg           *config.Config
	repo          repository.RedemptionCodeRepository
	rewardRepo    repository.RewardRepository
	customerRepo  repository.CustomerRepository
	pointsService *PointsService
	queueClient   *queue.Client
}

// NewRedemptionCodeService 创建兑换码服务
func NewRedemptionCodeService(
	cfg *config.Config,
	repo repository.RedemptionCodeRepository,
	rewardRepo repository.RewardRepository,
	customerRepo repository.CustomerRepository,
	pointsService *PointsService,
	queueClient *queue.Client,
) *RedemptionCodeService {
	return &RedemptionCodeService{
		cfg:           cfg,
		repo:          repo,
		rewardRepo:    rewardRepo,
		customerRepo:  customerRepo,
		pointsService: pointsService,
		queueClient:   queueClient,
	}
}

// GenerateCodesInput 生成兑换码输入
type GenerateCodesInput struct {
	BusinessID  uint
	Quantity    int
	ValueType   string
	ValueAmount int
	RewardID    *uint
	CustomerID  *uint
	ExpireDays  int
	ExpiresAt   *time.Time
}

// CodeListInput 兑换码列表输入
type CodeListInput struct {
	BusinessID    uint
	CustomerID    uint
	RewardID      uint
	Status        string
	Code          string
	ExpiresFrom   *time.Time
	ExpiresTo     *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string
	SortDirection string
	Page          int
	PageSize      int
}

// UpdateCodeInput 兑换码更新输入
type UpdateCodeInput struct {
	Status         *string
	ExpiresAt      *time.Time
	ClearExpiresAt bool
}

// GenerateCodes 生成兑换码（单个或批量）
func (s *RedemptionCodeService) GenerateCodes(input GenerateCodesInput) ([]models.RedemptionCode, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCodeGenerateFailed
	}
	if input.BusinessID == 0 {
		return nil, ErrCodeInvalid
	}
	if input.Quantity <= 0 || input.Quantity > constants.RedemptionCodeMaxBatchSize {
		return nil, ErrCodeInvalid
	}

	valueType := strings.TrimSpace(strings.ToLower(input.ValueType))
	switch valueType {
	case constants.RedemptionValueTypePoints:
		if input.ValueAmount <= 0 {
			return nil, ErrCodeInvalid
		}
	case constants.RedemptionValueTypeReward:
		if input.RewardID == nil || *input.RewardID == 0 {
			return nil, ErrCodeInvalid
		}
		reward, err := s.rewardRepo.GetByID(*input.RewardID)
		if err != nil {
			return nil, ErrCodeGenerateFailed
		}
		if reward == nil || reward.BusinessID != input.BusinessID {
			return nil, ErrRewardNotFound
		}
	default:
		return nil, ErrCodeInvalid
	}

	expiresAt := s.resolveExpiresAt(input.ExpiresAt, input.ExpireDays)

	now := time.Now()
	codes := make([]models.RedemptionCode, 0, input.Quantity)
	for i := 0; i < input.Quantity; i++ {
		codes = append(codes, models.RedemptionCode{
			Code:        s.generateCodeValue(),
			BusinessID:  input.BusinessID,
			RewardID:    input.RewardID,
			CustomerID:  input.CustomerID,
			ValueType:   valueType,
			ValueAmount: input.ValueAmount,
			Status:      constants.RedemptionCodeStatusActive,
			ExpiresAt:   expiresAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateBatch(codes)
	}); err != nil {
		return nil, ErrCodeGenerateFailed
	}

	if expiresAt != nil {
		delay := time.Until(*expiresAt)
		for _, code := range codes {
			_ = s.queueClient.EnqueueRedemptionCodeExpire(queue.RedemptionCodeExpirePayload{CodeID: code.ID}, delay)
		}
	}

	return codes, nil
}

// ValidateCode 校验兑换码（只读，不落库）
func (s *RedemptionCodeService) ValidateCode(rawCode string) (*models.RedemptionCode, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCodeFetchFailed
	}
	normalized := normalizeCodeValue(rawCode)
	if normalized == "" {
		return nil, ErrCodeInvalid
	}
	code, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if code == nil {
		return nil, ErrCodeNotFound
	}
	if err := codeRedeemableError(code, time.Now()); err != nil {
		return code, err
	}
	return code, nil
}

// RedeemCode 兑换
// 行锁 + 状态检查 + 入账 + 标记兑换在同一事务内完成，失败全部回滚。
func (s *RedemptionCodeService) RedeemCode(userID uint, rawCode string) (*models.RedemptionCode, *models.LoyaltyCard, error) {
	if s == nil || s.repo == nil || s.pointsService == nil {
		return nil, nil, ErrCodeFetchFailed
	}
	normalized := normalizeCodeValue(rawCode)
	if userID == 0 || normalized == "" {
		return nil, nil, ErrCodeInvalid
	}

	var (
		resultCode *models.RedemptionCode
		resultCard *models.LoyaltyCard
		overdueID  uint
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		code, err := s.repo.WithTx(tx).GetByCodeForUpdate(normalized)
		if err != nil {
			return ErrCodeFetchFailed
		}
		if code == nil {
			return ErrCodeNotFound
		}
		now := time.Now()
		if code.Status == constants.RedemptionCodeStatusActive && isCodeExpired(code.ExpiresAt, now) {
			// 返回错误会回滚整个事务，过期状态留到事务外落盘
			overdueID = code.ID
			return ErrCodeExpired
		}
		if err := codeRedeemableError(code, now); err != nil {
			return err
		}

		customer, err := s.resolveCustomerInTx(tx, userID, code.BusinessID, now)
		if err != nil {
			return err
		}
		if code.CustomerID != nil && *code.CustomerID != customer.ID {
			return ErrCodeCustomerMismatch
		}

		switch code.ValueType {
		case constants.RedemptionValueTypePoints:
			card, issueErr := s.pointsService.IssuePointsInTx(tx, IssuePointsInput{
				BusinessID: code.BusinessID,
				CustomerID: customer.ID,
				Points:     code.ValueAmount,
				Type:       constants.TransactionTypeAdjustment,
				Reference:  fmt.Sprintf("code:%s", code.Code),
				Remark:     "兑换码积分入账",
			})
			if issueErr != nil {
				return issueErr
			}
			resultCard = card
		case constants.RedemptionValueTypeReward:
			if code.RewardID == nil || *code.RewardID == 0 {
				return ErrCodeInvalid
			}
			consumed, consumeErr := s.rewardRepo.WithTx(tx).ConsumeStock(*code.RewardID)
			if consumeErr != nil {
				return ErrCodeUpdateFailed
			}
			if !consumed {
				return ErrRewardOutOfStock
			}
			txn := &models.Transaction{
				BusinessID:   code.BusinessID,
				CustomerID:   customer.ID,
				Type:         constants.TransactionTypeRewardRedemption,
				PointsEarned: 0,
				Reference:    fmt.Sprintf("code:%s", code.Code),
				Remark:       "兑换码奖励核销",
				CreatedAt:    now,
			}
			if txnErr := s.pointsService.txnRepo.WithTx(tx).Create(txn); txnErr != nil {
				return ErrCodeUpdateFailed
			}
		default:
			return ErrCodeInvalid
		}

		code.Status = constants.RedemptionCodeStatusRedeemed
		code.RedeemedBy = &customer.ID
		code.RedeemedAt = &now
		code.UpdatedAt = now
		if err := s.repo.WithTx(tx).Update(code); err != nil {
			return ErrCodeUpdateFailed
		}
		resultCode = code
		return nil
	})
	if err != nil {
		if overdueID != 0 {
			// 到期任务尚未执行时就地落盘过期状态
			_, _ = s.repo.ExpireIfActive(overdueID, time.Now())
		}
		return resultCode, nil, err
	}
	return resultCode, resultCard, nil
}

// ListCodes 获取兑换码列表
func (s *RedemptionCodeService) ListCodes(input CodeListInput) ([]models.RedemptionCode, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCodeFetchFailed
	}
	filter := repository.RedemptionCodeListFilter{
		BusinessID:    input.BusinessID,
		CustomerID:    input.CustomerID,
		RewardID:      input.RewardID,
		Status:        strings.TrimSpace(strings.ToLower(input.Status)),
		Code:          normalizeCodeValue(input.Code),
		ExpiresFrom:   input.ExpiresFrom,
		ExpiresTo:     input.ExpiresTo,
		CreatedFrom:   input.CreatedFrom,
		CreatedTo:     input.CreatedTo,
		SortBy:        strings.TrimSpace(strings.ToLower(input.SortBy)),
		SortDirection: strings.TrimSpace(strings.ToLower(input.SortDirection)),
		Page:          input.Page,
		PageSize:      input.PageSize,
	}
	codes, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrCodeFetchFailed
	}
	return codes, total, nil
}

// ListUserCodes 获取用户名下的兑换码（定向分配或已兑换的）
func (s *RedemptionCodeService) ListUserCodes(userID uint, businessID uint, page, pageSize int) ([]models.RedemptionCode, int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return nil, 0, ErrCodeFetchFailed
	}
	customers, err := s.customerRepo.ListByUserID(userID)
	if err != nil {
		return nil, 0, ErrCodeFetchFailed
	}
	customerIDs := make([]uint, 0, len(customers))
	for _, customer := range customers {
		if businessID > 0 && customer.BusinessID != businessID {
			continue
		}
		customerIDs = append(customerIDs, customer.ID)
	}
	codes, total, err := s.repo.ListByCustomerIDs(customerIDs, page, pageSize)
	if err != nil {
		return nil, 0, ErrCodeFetchFailed
	}
	return codes, total, nil
}

// GetCode 获取单个兑换码
func (s *RedemptionCodeService) GetCode(id uint) (*models.RedemptionCode, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrCodeInvalid
	}
	code, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if code == nil {
		return nil, ErrCodeNotFound
	}
	return code, nil
}

// UpdateCode 更新兑换码（作废 / 重新启用 / 调整有效期）
func (s *RedemptionCodeService) UpdateCode(id uint, businessID uint, input UpdateCodeInput) (*models.RedemptionCode, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrCodeInvalid
	}
	code, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if code == nil {
		return nil, ErrCodeNotFound
	}
	if businessID > 0 && code.BusinessID != businessID {
		return nil, ErrCodeBusinessMismatch
	}
	if code.Status == constants.RedemptionCodeStatusRedeemed {
		return nil, ErrCodeRedeemed
	}

	now := time.Now()
	if input.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*input.Status))
		switch status {
		case constants.RedemptionCodeStatusCancelled:
			code.Status = status
		case constants.RedemptionCodeStatusActive:
			if isCodeExpired(code.ExpiresAt, now) && input.ExpiresAt == nil && !input.ClearExpiresAt {
				return nil, ErrCodeExpired
			}
			code.Status = status
		default:
			return nil, ErrCodeInvalid
		}
	}
	if input.ClearExpiresAt {
		code.ExpiresAt = nil
	} else if input.ExpiresAt != nil {
		normalized := input.ExpiresAt.UTC()
		if normalized.Before(now) {
			return nil, ErrCodeInvalid
		}
		code.ExpiresAt = &normalized
	}
	code.UpdatedAt = now
	if err := s.repo.Update(code); err != nil {
		return nil, ErrCodeUpdateFailed
	}

	if code.Status == constants.RedemptionCodeStatusActive && code.ExpiresAt != nil {
		_ = s.queueClient.EnqueueRedemptionCodeExpire(queue.RedemptionCodeExpirePayload{CodeID: code.ID}, time.Until(*code.ExpiresAt))
	}
	return code, nil
}

// ExpireCode 将到期兑换码置为过期（队列任务回调）
func (s *RedemptionCodeService) ExpireCode(id uint) (bool, error) {
	if s == nil || s.repo == nil || id == 0 {
		return false, ErrCodeInvalid
	}
	code, err := s.repo.GetByID(id)
	if err != nil {
		return false, ErrCodeFetchFailed
	}
	if code == nil {
		return false, nil
	}
	if code.ExpiresAt == nil || code.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	return s.repo.ExpireIfActive(id, time.Now())
}

// ExpireDueCodes 批量处理已到期的兑换码，返回本次标记过期的数量。
// 兜底定时队列投递失败或服务重启期间漏掉的到期任务。
func (s *RedemptionCodeService) ExpireDueCodes(now time.Time, limit int) (int, error) {
	if s == nil || s.repo == nil {
		return 0, ErrCodeInvalid
	}
	ids, err := s.repo.ListDueActiveIDs(now, limit)
	if err != nil {
		return 0, ErrCodeFetchFailed
	}
	expired := 0
	for _, id := range ids {
		changed, err := s.repo.ExpireIfActive(id, now)
		if err != nil {
			return expired, ErrCodeUpdateFailed
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}

// ExportCodes 导出兑换码
func (s *RedemptionCodeService) ExportCodes(ids []uint, format string) ([]byte, string, error) {
	if s == nil || s.repo == nil {
		return nil, "", ErrCodeFetchFailed
	}
	normalizedIDs := normalizeCodeIDs(ids)
	if len(normalizedIDs) == 0 {
		return nil, "", ErrCodeInvalid
	}
	normalizedFormat := strings.TrimSpace(strings.ToLower(format))
	if normalizedFormat != "csv" && normalizedFormat != "txt" {
		return nil, "", ErrCodeInvalid
	}

	codes, err := s.repo.ListByIDs(normalizedIDs)
	if err != nil {
		return nil, "", ErrCodeFetchFailed
	}
	if len(codes) == 0 {
		return nil, "", ErrCodeNotFound
	}

	if normalizedFormat == "txt" {
		lines := make([]string, 0, len(codes))
		for _, code := range codes {
			lines = append(lines, strings.TrimSpace(code.Code))
		}
		return []byte(strings.Join(lines, "\n")), "text/plain; charset=utf-8", nil
	}

	builder := &strings.Builder{}
	writer := csv.NewWriter(builder)
	if err := writer.Write([]string{
		"id",
		"code",
		"business_id",
		"value_type",
		"value_amount",
		"reward_id",
		"status",
		"redeemed_by",
		"redeemed_at",
		"expires_at",
		"created_at",
	}); err != nil {
		return nil, "", ErrCodeFetchFailed
	}
	for _, code := range codes {
		rewardID := ""
		if code.RewardID != nil {
			rewardID = strconv.FormatUint(uint64(*code.RewardID), 10)
		}
		redeemedBy := ""
		if code.RedeemedBy != nil {
			redeemedBy = strconv.FormatUint(uint64(*code.RedeemedBy), 10)
		}
		record := []string{
			strconv.FormatUint(uint64(code.ID), 10),
			code.Code,
			strconv.FormatUint(uint64(code.BusinessID), 10),
			code.ValueType,
			strconv.Itoa(code.ValueAmount),
			rewardID,
			code.Status,
			redeemedBy,
			formatNullableTime(code.RedeemedAt),
			formatNullableTime(code.ExpiresAt),
			code.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", ErrCodeFetchFailed
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", ErrCodeFetchFailed
	}
	return []byte(builder.String()), "text/csv; charset=utf-8", nil
}

// resolveCustomerInTx 解析用户在商家下的顾客档案，不存在时顺手建档
func (s *RedemptionCodeService) resolveCustomerInTx(tx *gorm.DB, userID, businessID uint, now time.Time) (*models.Customer, error) {
	customer, err := s.customerRepo.WithTx(tx).GetByUserAndBusiness(userID, businessID)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if customer != nil {
		return customer, nil
	}
	customer = &models.Customer{
		UserID:       userID,
		BusinessID:   businessID,
		ReferralCode: generateReferralCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.customerRepo.WithTx(tx).Create(customer); err != nil {
		return nil, ErrCustomerFetchFailed
	}
	return customer, nil
}

func (s *RedemptionCodeService) resolveExpiresAt(explicit *time.Time, expireDays int) *time.Time {
	if explicit != nil && !explicit.IsZero() {
		value := explicit.UTC()
		return &value
	}
	days := expireDays
	if days < 0 {
		return nil
	}
	if days == 0 {
		if s.cfg != nil && s.cfg.Loyalty.CodeDefaultExpireDays > 0 {
			days = s.cfg.Loyalty.CodeDefaultExpireDays
		} else {
			days = constants.RedemptionCodeDefaultExpiryDays
		}
	}
	value := time.Now().Add(time.Duration(days) * 24 * time.Hour).UTC()
	return &value
}

func (s *RedemptionCodeService) generateCodeValue() string {
	length := constants.RedemptionCodeLength
	if s != nil && s.cfg != nil && s.cfg.Loyalty.CodeLength > 0 {
		length = s.cfg.Loyalty.CodeLength
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(redemptionCodeAlphabet))))
		if err != nil {
			b.WriteByte(redemptionCodeAlphabet[i%len(redemptionCodeAlphabet)])
			continue
		}
		b.WriteByte(redemptionCodeAlphabet[n.Int64()])
	}
	return b.String()
}

func normalizeCodeValue(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func normalizeCodeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{}
	}
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func formatNullableTime(raw *time.Time) string {
	if raw == nil || raw.IsZero() {
		return ""
	}
	return raw.Format(time.RFC3339)
}

func isCodeExpired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil || expiresAt.IsZero() {
		return false
	}
	return expiresAt.Before(now)
}

// codeRedeemableError 判定兑换码当前是否可兑换
func codeRedeemableError(code *models.RedemptionCode, now time.Time) error {
	switch code.Status {
	case constants.RedemptionCodeStatusRedeemed:
		return ErrCodeRedeemed
	case constants.RedemptionCodeStatusExpired:
		return ErrCodeExpired
	case constants.RedemptionCodeStatusCancelled:
		return ErrCodeCancelled
	case constants.RedemptionCodeStatusActive:
		if isCodeExpired(code.ExpiresAt, now) {
			return ErrCodeExpired
		}
		return nil
	default:
		return ErrCodeInvalid
	}
}
