package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPointsServiceTest(t *testing.T) (*PointsService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:points_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.Transaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	cfg := &config.Config{}
	cfg.Loyalty.PointsPerReferral = 25
	svc := NewPointsService(
		cfg,
		repository.NewCustomerRepository(db),
		repository.NewLoyaltyCardRepository(db),
		repository.NewLoyaltyProgramRepository(db),
		repository.NewTransactionRepository(db),
		nil,
	)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("loyalty_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         constants.UserRoleCustomer,
		Locale:       "en",
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestBusiness(t *testing.T, db *gorm.DB, id uint) *models.Business {
	t.Helper()
	now := time.Now()
	business := &models.Business{
		ID:        id,
		Name:      fmt.Sprintf("Test Business %d", id),
		Slug:      fmt.Sprintf("test-business-%d", id),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("create business failed: %v", err)
	}
	return business
}

func createTestProgram(t *testing.T, db *gorm.DB, businessID uint, tiers models.JSONArray) *models.LoyaltyProgram {
	t.Helper()
	now := time.Now()
	program := &models.LoyaltyProgram{
		BusinessID:        businessID,
		Name:              "Test Rewards",
		Tiers:             tiers,
		PointsPerPurchase: 10,
		PointsPerReferral: 50,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := db.Create(program).Error; err != nil {
		t.Fatalf("create program failed: %v", err)
	}
	return program
}

func createTestCustomer(t *testing.T, db *gorm.DB, userID, businessID uint) *models.Customer {
	t.Helper()
	now := time.Now()
	customer := &models.Customer{
		UserID:       userID,
		BusinessID:   businessID,
		ReferralCode: fmt.Sprintf("REF%d%d%d", userID, businessID, now.UnixNano()%100000),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func createTestReward(t *testing.T, db *gorm.DB, businessID, programID uint, points, quantity, redeemed int) *models.Reward {
	t.Helper()
	now := time.Now()
	reward := &models.Reward{
		BusinessID:     businessID,
		ProgramID:      programID,
		Name:           fmt.Sprintf("Test Reward %d", now.UnixNano()%100000),
		PointsRequired: points,
		Quantity:       quantity,
		RedeemedCount:  redeemed,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("create reward failed: %v", err)
	}
	return reward
}

func defaultTestTiers() models.JSONArray {
	return models.JSONArray{
		{"name": "member", "min_points": float64(0)},
		{"name": "silver", "min_points": float64(200)},
		{"name": "gold", "min_points": float64(1000)},
	}
}

func TestIssuePointsCreatesCardAndResolvesTier(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	createTestProgram(t, db, business.ID, defaultTestTiers())
	customer := createTestCustomer(t, db, 1, business.ID)

	card, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     150,
		Type:       constants.TransactionTypePurchase,
		Reference:  "order:1001",
	})
	if err != nil {
		t.Fatalf("issue points failed: %v", err)
	}
	if card == nil {
		t.Fatal("expected loyalty card, got nil")
	}
	if card.PointsBalance != 150 {
		t.Fatalf("expected balance 150, got %d", card.PointsBalance)
	}
	if card.Tier != "member" {
		t.Fatalf("expected tier member, got %s", card.Tier)
	}

	card, err = svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     100,
		Type:       constants.TransactionTypePurchase,
	})
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if card.PointsBalance != 250 {
		t.Fatalf("expected balance 250, got %d", card.PointsBalance)
	}
	if card.Tier != "silver" {
		t.Fatalf("expected tier silver after crossing threshold, got %s", card.Tier)
	}

	var refreshed models.Customer
	if err := db.First(&refreshed, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if refreshed.TotalPoints != 250 {
		t.Fatalf("expected total points 250, got %d", refreshed.TotalPoints)
	}

	var txnCount int64
	if err := db.Model(&models.Transaction{}).Where("customer_id = ?", customer.ID).Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if txnCount != 2 {
		t.Fatalf("expected 2 transactions, got %d", txnCount)
	}
}

func TestIssuePointsRejectsNegativeBalance(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	createTestProgram(t, db, business.ID, defaultTestTiers())
	customer := createTestCustomer(t, db, 1, business.ID)

	if _, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     100,
		Type:       constants.TransactionTypePurchase,
	}); err != nil {
		t.Fatalf("issue points failed: %v", err)
	}

	_, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     -150,
		Type:       constants.TransactionTypeAdjustment,
	})
	if !errors.Is(err, ErrPointsInvalid) {
		t.Fatalf("expected ErrPointsInvalid, got %v", err)
	}

	// 回滚后余额不变
	var card models.LoyaltyCard
	if err := db.Where("customer_id = ?", customer.ID).First(&card).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if card.PointsBalance != 100 {
		t.Fatalf("expected balance 100 after rollback, got %d", card.PointsBalance)
	}
}

func TestIssuePointsValidation(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	other := createTestBusiness(t, db, 2)
	customer := createTestCustomer(t, db, 1, business.ID)

	if _, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     0,
		Type:       constants.TransactionTypePurchase,
	}); !errors.Is(err, ErrPointsInvalid) {
		t.Fatalf("expected ErrPointsInvalid for zero points, got %v", err)
	}

	if _, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     10,
		Type:       "bonus",
	}); !errors.Is(err, ErrPointsInvalid) {
		t.Fatalf("expected ErrPointsInvalid for unsupported type, got %v", err)
	}

	if _, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: other.ID,
		CustomerID: customer.ID,
		Points:     10,
		Type:       constants.TransactionTypePurchase,
	}); !errors.Is(err, ErrCustomerInvalid) {
		t.Fatalf("expected ErrCustomerInvalid for business mismatch, got %v", err)
	}

	if _, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: 999,
		Points:     10,
		Type:       constants.TransactionTypePurchase,
	}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestIssuePointsWithoutProgramStillRecordsTransaction(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	customer := createTestCustomer(t, db, 1, business.ID)

	card, err := svc.IssuePoints(IssuePointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     30,
		Type:       constants.TransactionTypePurchase,
	})
	if err != nil {
		t.Fatalf("issue points failed: %v", err)
	}
	if card != nil {
		t.Fatal("expected nil card when business has no program")
	}

	var refreshed models.Customer
	if err := db.First(&refreshed, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if refreshed.TotalPoints != 30 {
		t.Fatalf("expected total points 30, got %d", refreshed.TotalPoints)
	}

	var txn models.Transaction
	if err := db.Where("customer_id = ?", customer.ID).First(&txn).Error; err != nil {
		t.Fatalf("expected transaction recorded: %v", err)
	}
	if txn.ProgramID != nil {
		t.Fatal("expected nil program id on transaction")
	}
}

func TestListUserTransactionsFiltersBusiness(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	createTestUser(t, db, 1)
	first := createTestBusiness(t, db, 1)
	second := createTestBusiness(t, db, 2)
	firstCustomer := createTestCustomer(t, db, 1, first.ID)
	secondCustomer := createTestCustomer(t, db, 1, second.ID)

	for _, seed := range []struct {
		businessID uint
		customerID uint
		points     int
	}{
		{first.ID, firstCustomer.ID, 10},
		{first.ID, firstCustomer.ID, 20},
		{second.ID, secondCustomer.ID, 5},
	} {
		if _, err := svc.IssuePoints(IssuePointsInput{
			BusinessID: seed.businessID,
			CustomerID: seed.customerID,
			Points:     seed.points,
			Type:       constants.TransactionTypePurchase,
		}); err != nil {
			t.Fatalf("issue points failed: %v", err)
		}
	}

	txns, total, err := svc.ListUserTransactions(1, 0, 1, 10)
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if total != 3 || len(txns) != 3 {
		t.Fatalf("expected 3 transactions across businesses, got total=%d len=%d", total, len(txns))
	}

	txns, total, err = svc.ListUserTransactions(1, first.ID, 1, 10)
	if err != nil {
		t.Fatalf("list filtered transactions failed: %v", err)
	}
	if total != 2 || len(txns) != 2 {
		t.Fatalf("expected 2 transactions for first business, got total=%d len=%d", total, len(txns))
	}
	for _, txn := range txns {
		if txn.BusinessID != first.ID {
			t.Fatalf("expected business %d, got %d", first.ID, txn.BusinessID)
		}
	}
}

func TestResolveCardTierPicksHighestThreshold(t *testing.T) {
	tiers := defaultTestTiers()
	cases := []struct {
		balance int
		want    string
	}{
		{0, "member"},
		{199, "member"},
		{200, "silver"},
		{999, "silver"},
		{1000, "gold"},
		{5000, "gold"},
	}
	for _, tc := range cases {
		if got := resolveCardTier(tiers, tc.balance); got != tc.want {
			t.Fatalf("balance %d: expected %s, got %s", tc.balance, tc.want, got)
		}
	}

	if got := resolveCardTier(models.JSONArray{}, 100); got != constants.LoyaltyTierDefault {
		t.Fatalf("expected default tier for empty tiers, got %s", got)
	}
}
