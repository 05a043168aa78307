package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRedemptionCodeServiceTest(t *testing.T) (*RedemptionCodeService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:redemption_code_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Customer{},
		&models.LoyaltyProgram{},
		&models.LoyaltyCard{},
		&models.Reward{},
		&models.RedemptionCode{},
		&models.Transaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	cfg := &config.Config{}
	cfg.Loyalty.CodeDefaultExpireDays = 30
	customerRepo := repository.NewCustomerRepository(db)
	pointsService := NewPointsService(
		cfg,
		customerRepo,
		repository.NewLoyaltyCardRepository(db),
		repository.NewLoyaltyProgramRepository(db),
		repository.NewTransactionRepository(db),
		nil,
	)
	svc := NewRedemptionCodeService(
		cfg,
		repository.NewRedemptionCodeRepository(db),
		repository.NewRewardRepository(db),
		customerRepo,
		pointsService,
		nil,
	)
	return svc, db
}

func createTestCode(t *testing.T, db *gorm.DB, businessID uint, value string, seed models.RedemptionCode) *models.RedemptionCode {
	t.Helper()
	now := time.Now()
	code := seed
	code.Code = value
	code.BusinessID = businessID
	if code.ValueType == "" {
		code.ValueType = constants.RedemptionValueTypePoints
	}
	if code.ValueType == constants.RedemptionValueTypePoints && code.ValueAmount == 0 {
		code.ValueAmount = 100
	}
	if code.Status == "" {
		code.Status = constants.RedemptionCodeStatusActive
	}
	code.CreatedAt = now
	code.UpdatedAt = now
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("create redemption code failed: %v", err)
	}
	return &code
}

func TestGenerateCodesPoints(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)

	codes, err := svc.GenerateCodes(GenerateCodesInput{
		BusinessID:  business.ID,
		Quantity:    3,
		ValueType:   constants.RedemptionValueTypePoints,
		ValueAmount: 50,
	})
	if err != nil {
		t.Fatalf("generate codes failed: %v", err)
	}
	if len(codes) != 3 {
		t.Fatalf("expected 3 codes, got %d", len(codes))
	}
	seen := map[string]struct{}{}
	for _, code := range codes {
		if len(code.Code) != constants.RedemptionCodeLength {
			t.Fatalf("expected code length %d, got %d", constants.RedemptionCodeLength, len(code.Code))
		}
		if code.Status != constants.RedemptionCodeStatusActive {
			t.Fatalf("expected active status, got %s", code.Status)
		}
		if code.ExpiresAt == nil {
			t.Fatal("expected default expiry to be set")
		}
		if _, dup := seen[code.Code]; dup {
			t.Fatalf("duplicate code generated: %s", code.Code)
		}
		seen[code.Code] = struct{}{}
	}

	var count int64
	if err := db.Model(&models.RedemptionCode{}).Count(&count).Error; err != nil {
		t.Fatalf("count codes failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 persisted codes, got %d", count)
	}
}

func TestGenerateCodesNoExpiry(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)

	codes, err := svc.GenerateCodes(GenerateCodesInput{
		BusinessID:  business.ID,
		Quantity:    1,
		ValueType:   constants.RedemptionValueTypePoints,
		ValueAmount: 50,
		ExpireDays:  -1,
	})
	if err != nil {
		t.Fatalf("generate codes failed: %v", err)
	}
	if codes[0].ExpiresAt != nil {
		t.Fatal("expected no expiry for negative expire days")
	}
}

func TestGenerateCodesValidation(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	other := createTestBusiness(t, db, 2)
	program := createTestProgram(t, db, other.ID, defaultTestTiers())
	foreignReward := createTestReward(t, db, other.ID, program.ID, 100, 0, 0)

	cases := []struct {
		name  string
		input GenerateCodesInput
		want  error
	}{
		{"zero quantity", GenerateCodesInput{BusinessID: business.ID, Quantity: 0, ValueType: constants.RedemptionValueTypePoints, ValueAmount: 10}, ErrCodeInvalid},
		{"over batch limit", GenerateCodesInput{BusinessID: business.ID, Quantity: constants.RedemptionCodeMaxBatchSize + 1, ValueType: constants.RedemptionValueTypePoints, ValueAmount: 10}, ErrCodeInvalid},
		{"points without amount", GenerateCodesInput{BusinessID: business.ID, Quantity: 1, ValueType: constants.RedemptionValueTypePoints}, ErrCodeInvalid},
		{"reward without id", GenerateCodesInput{BusinessID: business.ID, Quantity: 1, ValueType: constants.RedemptionValueTypeReward}, ErrCodeInvalid},
		{"unknown value type", GenerateCodesInput{BusinessID: business.ID, Quantity: 1, ValueType: "coupon"}, ErrCodeInvalid},
		{"foreign reward", GenerateCodesInput{BusinessID: business.ID, Quantity: 1, ValueType: constants.RedemptionValueTypeReward, RewardID: &foreignReward.ID}, ErrRewardNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.GenerateCodes(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateCode(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	past := time.Now().Add(-time.Hour)

	createTestCode(t, db, business.ID, "ACTIVE01", models.RedemptionCode{})
	createTestCode(t, db, business.ID, "CANCEL01", models.RedemptionCode{Status: constants.RedemptionCodeStatusCancelled})
	createTestCode(t, db, business.ID, "OVERDUE1", models.RedemptionCode{ExpiresAt: &past})

	if _, err := svc.ValidateCode("NOPE1234"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}

	// 码值大小写与空白归一化
	code, err := svc.ValidateCode("  active01 ")
	if err != nil {
		t.Fatalf("validate active code failed: %v", err)
	}
	if code.Code != "ACTIVE01" {
		t.Fatalf("expected normalized lookup, got %s", code.Code)
	}

	code, err = svc.ValidateCode("CANCEL01")
	if !errors.Is(err, ErrCodeCancelled) {
		t.Fatalf("expected ErrCodeCancelled, got %v", err)
	}
	if code == nil {
		t.Fatal("expected code returned alongside cancelled error")
	}

	if _, err := svc.ValidateCode("OVERDUE1"); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired for overdue active code, got %v", err)
	}
}

func TestRedeemCodePoints(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	createTestProgram(t, db, business.ID, defaultTestTiers())
	createTestCode(t, db, business.ID, "POINTS100", models.RedemptionCode{ValueAmount: 100})

	// 用户此前没有该商家的顾客档案，兑换时顺手建档
	code, card, err := svc.RedeemCode(1, "points100")
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if code.Status != constants.RedemptionCodeStatusRedeemed {
		t.Fatalf("expected redeemed status, got %s", code.Status)
	}
	if code.RedeemedBy == nil || code.RedeemedAt == nil {
		t.Fatal("expected redeemed_by and redeemed_at to be set")
	}
	if card == nil || card.PointsBalance != 100 {
		t.Fatalf("expected card with 100 points, got %+v", card)
	}

	var customer models.Customer
	if err := db.Where("user_id = ? AND business_id = ?", 1, business.ID).First(&customer).Error; err != nil {
		t.Fatalf("expected customer profile created: %v", err)
	}
	if customer.ReferralCode == "" {
		t.Fatal("expected referral code assigned to new customer")
	}

	var txn models.Transaction
	if err := db.Where("customer_id = ?", customer.ID).First(&txn).Error; err != nil {
		t.Fatalf("expected transaction recorded: %v", err)
	}
	if txn.Reference != "code:POINTS100" {
		t.Fatalf("expected reference code:POINTS100, got %s", txn.Reference)
	}

	// 同一个码不能兑换两次
	if _, _, err := svc.RedeemCode(1, "POINTS100"); !errors.Is(err, ErrCodeRedeemed) {
		t.Fatalf("expected ErrCodeRedeemed on second redeem, got %v", err)
	}
}

func TestRedeemCodeExpiredPersistsStatus(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	past := time.Now().Add(-time.Minute)
	code := createTestCode(t, db, business.ID, "OLDCODE1", models.RedemptionCode{ExpiresAt: &past})

	if _, _, err := svc.RedeemCode(1, "OLDCODE1"); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}

	var refreshed models.RedemptionCode
	if err := db.First(&refreshed, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if refreshed.Status != constants.RedemptionCodeStatusExpired {
		t.Fatalf("expected expired status persisted, got %s", refreshed.Status)
	}
}

func TestRedeemCodeCustomerMismatch(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)
	business := createTestBusiness(t, db, 1)
	owner := createTestCustomer(t, db, 2, business.ID)
	createTestCode(t, db, business.ID, "TARGETED", models.RedemptionCode{CustomerID: &owner.ID})

	if _, _, err := svc.RedeemCode(1, "TARGETED"); !errors.Is(err, ErrCodeCustomerMismatch) {
		t.Fatalf("expected ErrCodeCustomerMismatch, got %v", err)
	}
}

func TestRedeemCodeReward(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	program := createTestProgram(t, db, business.ID, defaultTestTiers())
	reward := createTestReward(t, db, business.ID, program.ID, 100, 5, 0)
	createTestCode(t, db, business.ID, "REWARD01", models.RedemptionCode{
		ValueType: constants.RedemptionValueTypeReward,
		RewardID:  &reward.ID,
	})

	code, _, err := svc.RedeemCode(1, "REWARD01")
	if err != nil {
		t.Fatalf("redeem reward code failed: %v", err)
	}
	if code.Status != constants.RedemptionCodeStatusRedeemed {
		t.Fatalf("expected redeemed status, got %s", code.Status)
	}

	var refreshed models.Reward
	if err := db.First(&refreshed, reward.ID).Error; err != nil {
		t.Fatalf("reload reward failed: %v", err)
	}
	if refreshed.RedeemedCount != 1 {
		t.Fatalf("expected redeemed count 1, got %d", refreshed.RedeemedCount)
	}

	var txn models.Transaction
	if err := db.Where("type = ?", constants.TransactionTypeRewardRedemption).First(&txn).Error; err != nil {
		t.Fatalf("expected reward redemption transaction: %v", err)
	}
	if txn.PointsEarned != 0 {
		t.Fatalf("expected zero points on reward redemption, got %d", txn.PointsEarned)
	}
}

func TestRedeemCodeRewardOutOfStock(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	program := createTestProgram(t, db, business.ID, defaultTestTiers())
	reward := createTestReward(t, db, business.ID, program.ID, 100, 1, 1)
	code := createTestCode(t, db, business.ID, "SOLDOUT1", models.RedemptionCode{
		ValueType: constants.RedemptionValueTypeReward,
		RewardID:  &reward.ID,
	})

	if _, _, err := svc.RedeemCode(1, "SOLDOUT1"); !errors.Is(err, ErrRewardOutOfStock) {
		t.Fatalf("expected ErrRewardOutOfStock, got %v", err)
	}

	// 兑换失败不消耗码
	var refreshed models.RedemptionCode
	if err := db.First(&refreshed, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if refreshed.Status != constants.RedemptionCodeStatusActive {
		t.Fatalf("expected code still active after failed redeem, got %s", refreshed.Status)
	}
}

func TestUpdateCodeStatusRules(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	past := time.Now().Add(-time.Hour)
	redeemedBy := uint(1)
	now := time.Now()

	active := createTestCode(t, db, business.ID, "UPDATE01", models.RedemptionCode{})
	redeemed := createTestCode(t, db, business.ID, "UPDATE02", models.RedemptionCode{
		Status:     constants.RedemptionCodeStatusRedeemed,
		RedeemedBy: &redeemedBy,
		RedeemedAt: &now,
	})
	expired := createTestCode(t, db, business.ID, "UPDATE03", models.RedemptionCode{
		Status:    constants.RedemptionCodeStatusExpired,
		ExpiresAt: &past,
	})

	cancelled := constants.RedemptionCodeStatusCancelled
	code, err := svc.UpdateCode(active.ID, business.ID, UpdateCodeInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("cancel code failed: %v", err)
	}
	if code.Status != constants.RedemptionCodeStatusCancelled {
		t.Fatalf("expected cancelled, got %s", code.Status)
	}

	reactivate := constants.RedemptionCodeStatusActive
	if _, err := svc.UpdateCode(redeemed.ID, business.ID, UpdateCodeInput{Status: &reactivate}); !errors.Is(err, ErrCodeRedeemed) {
		t.Fatalf("expected ErrCodeRedeemed for redeemed code, got %v", err)
	}

	// 有效期已过且未给新有效期时不能重新启用
	if _, err := svc.UpdateCode(expired.ID, business.ID, UpdateCodeInput{Status: &reactivate}); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired for stale reactivation, got %v", err)
	}

	code, err = svc.UpdateCode(expired.ID, business.ID, UpdateCodeInput{Status: &reactivate, ClearExpiresAt: true})
	if err != nil {
		t.Fatalf("reactivate with cleared expiry failed: %v", err)
	}
	if code.Status != constants.RedemptionCodeStatusActive || code.ExpiresAt != nil {
		t.Fatalf("expected active code without expiry, got status=%s expires=%v", code.Status, code.ExpiresAt)
	}

	if _, err := svc.UpdateCode(active.ID, business.ID+1, UpdateCodeInput{Status: &cancelled}); !errors.Is(err, ErrCodeBusinessMismatch) {
		t.Fatalf("expected ErrCodeBusinessMismatch, got %v", err)
	}

	if _, err := svc.UpdateCode(code.ID, business.ID, UpdateCodeInput{ExpiresAt: &past}); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for past expiry, got %v", err)
	}
}

func TestExpireDueCodes(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	createTestCode(t, db, business.ID, "DUE00001", models.RedemptionCode{ExpiresAt: &past})
	createTestCode(t, db, business.ID, "DUE00002", models.RedemptionCode{ExpiresAt: &past})
	createTestCode(t, db, business.ID, "FRESH001", models.RedemptionCode{ExpiresAt: &future})
	createTestCode(t, db, business.ID, "DONE0001", models.RedemptionCode{
		Status:    constants.RedemptionCodeStatusCancelled,
		ExpiresAt: &past,
	})

	expired, err := svc.ExpireDueCodes(time.Now(), 100)
	if err != nil {
		t.Fatalf("expire due codes failed: %v", err)
	}
	if expired != 2 {
		t.Fatalf("expected 2 expired codes, got %d", expired)
	}

	var count int64
	if err := db.Model(&models.RedemptionCode{}).
		Where("status = ?", constants.RedemptionCodeStatusExpired).
		Count(&count).Error; err != nil {
		t.Fatalf("count expired failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows marked expired, got %d", count)
	}

	// 再跑一遍应无增量
	expired, err = svc.ExpireDueCodes(time.Now(), 100)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expected idempotent sweep, got %d", expired)
	}
}

func TestExportCodes(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	first := createTestCode(t, db, business.ID, "EXPORT01", models.RedemptionCode{})
	second := createTestCode(t, db, business.ID, "EXPORT02", models.RedemptionCode{})

	data, contentType, err := svc.ExportCodes([]uint{first.ID, second.ID}, "txt")
	if err != nil {
		t.Fatalf("export txt failed: %v", err)
	}
	if contentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 || lines[0] != "EXPORT01" || lines[1] != "EXPORT02" {
		t.Fatalf("unexpected txt export: %q", string(data))
	}

	data, contentType, err = svc.ExportCodes([]uint{first.ID, second.ID, first.ID, 0}, "csv")
	if err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	if contentType != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if !strings.HasPrefix(rows[0], "id,code,business_id") {
		t.Fatalf("unexpected csv header: %s", rows[0])
	}

	if _, _, err := svc.ExportCodes([]uint{first.ID}, "xlsx"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for unsupported format, got %v", err)
	}
	if _, _, err := svc.ExportCodes(nil, "csv"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for empty ids, got %v", err)
	}
	if _, _, err := svc.ExportCodes([]uint{9999}, "csv"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound for missing ids, got %v", err)
	}
}

func TestExpireCodeNoopWhenNotDue(t *testing.T) {
	svc, db := setupRedemptionCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	future := time.Now().Add(time.Hour)
	code := createTestCode(t, db, business.ID, "FUTURE01", models.RedemptionCode{ExpiresAt: &future})

	expired, err := svc.ExpireCode(code.ID)
	if err != nil {
		t.Fatalf("expire code failed: %v", err)
	}
	if expired {
		t.Fatal("expected noop for code not yet due")
	}

	expired, err = svc.ExpireCode(9999)
	if err != nil {
		t.Fatalf("expire missing code failed: %v", err)
	}
	if expired {
		t.Fatal("expected noop for missing code")
	}
}
