package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:dashboard_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Transaction{},
		&models.RedemptionCode{},
		&models.QRCode{},
		&models.Reward{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func seedDashboardCustomer(t *testing.T, db *gorm.DB, businessID uint, createdAt time.Time) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		UserID:       uint(time.Now().UnixNano() % 1000000),
		BusinessID:   businessID,
		ReferralCode: fmt.Sprintf("REF%d", time.Now().UnixNano()),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func TestDashboardGetOverview(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	startAt := now.Add(-24 * time.Hour)
	endAt := now.Add(time.Hour)
	old := now.Add(-72 * time.Hour)

	inWindow := seedDashboardCustomer(t, db, 1, now)
	seedDashboardCustomer(t, db, 1, old)
	seedDashboardCustomer(t, db, 2, now)

	for _, txn := range []models.Transaction{
		{BusinessID: 1, CustomerID: inWindow.ID, Type: constants.TransactionTypePurchase, PointsEarned: 120, CreatedAt: now},
		{BusinessID: 1, CustomerID: inWindow.ID, Type: constants.TransactionTypeAdjustment, PointsEarned: -40, CreatedAt: now},
		{BusinessID: 1, CustomerID: inWindow.ID, Type: constants.TransactionTypePurchase, PointsEarned: 500, CreatedAt: old},
		{BusinessID: 2, CustomerID: inWindow.ID, Type: constants.TransactionTypePurchase, PointsEarned: 77, CreatedAt: now},
	} {
		if err := db.Create(&txn).Error; err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	redeemedAt := now
	for _, code := range []models.RedemptionCode{
		{Code: "DASH0001", BusinessID: 1, ValueType: constants.RedemptionValueTypePoints, ValueAmount: 10, Status: constants.RedemptionCodeStatusActive, CreatedAt: now, UpdatedAt: now},
		{Code: "DASH0002", BusinessID: 1, ValueType: constants.RedemptionValueTypePoints, ValueAmount: 10, Status: constants.RedemptionCodeStatusRedeemed, RedeemedAt: &redeemedAt, CreatedAt: now, UpdatedAt: now},
		{Code: "DASH0003", BusinessID: 1, ValueType: constants.RedemptionValueTypePoints, ValueAmount: 10, Status: constants.RedemptionCodeStatusExpired, CreatedAt: now, UpdatedAt: now},
	} {
		if err := db.Create(&code).Error; err != nil {
			t.Fatalf("create redemption code failed: %v", err)
		}
	}

	for _, qr := range []models.QRCode{
		{BusinessID: 1, Code: "dash-qr-1", CodeType: constants.QRCodeTypeLoyalty, Name: "A", ScansCount: 5, UniqueScansCount: 3, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{BusinessID: 1, Code: "dash-qr-2", CodeType: constants.QRCodeTypePromotion, Name: "B", ScansCount: 2, UniqueScansCount: 2, IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		if err := db.Create(&qr).Error; err != nil {
			t.Fatalf("create qr code failed: %v", err)
		}
	}

	for _, reward := range []models.Reward{
		{BusinessID: 1, Name: "Active Reward", PointsRequired: 100, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{BusinessID: 1, Name: "Retired Reward", PointsRequired: 100, IsActive: false, CreatedAt: now, UpdatedAt: now},
	} {
		if err := db.Create(&reward).Error; err != nil {
			t.Fatalf("create reward failed: %v", err)
		}
	}

	overview, err := repo.GetOverview(1, startAt, endAt)
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.CustomersTotal != 2 {
		t.Fatalf("expected 2 customers total, got %d", overview.CustomersTotal)
	}
	if overview.NewCustomers != 1 {
		t.Fatalf("expected 1 new customer in window, got %d", overview.NewCustomers)
	}
	if overview.PointsIssued != 120 {
		t.Fatalf("expected 120 points issued, got %d", overview.PointsIssued)
	}
	if overview.PointsRedeemed != 40 {
		t.Fatalf("expected 40 points redeemed, got %d", overview.PointsRedeemed)
	}
	if overview.CodesActive != 1 {
		t.Fatalf("expected 1 active code, got %d", overview.CodesActive)
	}
	if overview.CodesRedeemed != 1 {
		t.Fatalf("expected 1 redeemed code in window, got %d", overview.CodesRedeemed)
	}
	if overview.QRScansTotal != 7 || overview.QRUniqueScans != 5 {
		t.Fatalf("expected 7/5 scans, got %d/%d", overview.QRScansTotal, overview.QRUniqueScans)
	}
	if overview.ActiveRewards != 1 {
		t.Fatalf("expected 1 active reward, got %d", overview.ActiveRewards)
	}
}

func TestDashboardGetPointsTrends(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	customer := seedDashboardCustomer(t, db, 1, base)

	for _, txn := range []models.Transaction{
		{BusinessID: 1, CustomerID: customer.ID, Type: constants.TransactionTypePurchase, PointsEarned: 100, CreatedAt: base},
		{BusinessID: 1, CustomerID: customer.ID, Type: constants.TransactionTypeAdjustment, PointsEarned: -30, CreatedAt: base.Add(time.Hour)},
		{BusinessID: 1, CustomerID: customer.ID, Type: constants.TransactionTypePurchase, PointsEarned: 50, CreatedAt: base.Add(24 * time.Hour)},
	} {
		if err := db.Create(&txn).Error; err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	rows, err := repo.GetPointsTrends(1, base.Add(-time.Hour), base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("get trends failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(rows))
	}
	first := rows[0]
	if first.Day != "2026-03-10" {
		t.Fatalf("expected first bucket 2026-03-10, got %s", first.Day)
	}
	if first.PointsIssued != 100 || first.PointsRedeemed != 30 || first.Transactions != 2 {
		t.Fatalf("unexpected first bucket: %+v", first)
	}
	second := rows[1]
	if second.Day != "2026-03-11" || second.PointsIssued != 50 {
		t.Fatalf("unexpected second bucket: %+v", second)
	}
}

func TestDashboardGetTopRewards(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()

	popular := models.Reward{BusinessID: 1, Name: "Popular", PointsRequired: 100, IsActive: true, CreatedAt: now, UpdatedAt: now}
	rare := models.Reward{BusinessID: 1, Name: "Rare", PointsRequired: 500, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&popular).Error; err != nil {
		t.Fatalf("create reward failed: %v", err)
	}
	if err := db.Create(&rare).Error; err != nil {
		t.Fatalf("create reward failed: %v", err)
	}

	redeemedAt := now
	seedCode := func(value string, rewardID uint) {
		code := models.RedemptionCode{
			Code:       value,
			BusinessID: 1,
			RewardID:   &rewardID,
			ValueType:  constants.RedemptionValueTypeReward,
			Status:     constants.RedemptionCodeStatusRedeemed,
			RedeemedAt: &redeemedAt,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&code).Error; err != nil {
			t.Fatalf("create code failed: %v", err)
		}
	}
	seedCode("TOP00001", popular.ID)
	seedCode("TOP00002", popular.ID)
	seedCode("TOP00003", rare.ID)

	rows, err := repo.GetTopRewards(1, now.Add(-time.Hour), now.Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("get top rewards failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 ranked rewards, got %d", len(rows))
	}
	if rows[0].RewardID != popular.ID || rows[0].Redemptions != 2 {
		t.Fatalf("unexpected top reward: %+v", rows[0])
	}
	if rows[1].RewardID != rare.ID || rows[1].Redemptions != 1 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}

	rows, err = repo.GetTopRewards(1, now.Add(-time.Hour), now.Add(time.Hour), 1)
	if err != nil {
		t.Fatalf("get limited top rewards failed: %v", err)
	}
	if len(rows) != 1 || rows[0].RewardID != popular.ID {
		t.Fatalf("expected single top reward, got %+v", rows)
	}
}
