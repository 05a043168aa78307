package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCustomerServiceTest(t *testing.T) (*CustomerService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:customer_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	customerRepo := repository.NewCustomerRepository(db)
	pointsService := NewPointsService(
		&config.Config{},
		customerRepo,
		repository.NewLoyaltyCardRepository(db),
		repository.NewLoyaltyProgramRepository(db),
		repository.NewTransactionRepository(db),
		nil,
	)
	return NewCustomerService(customerRepo, pointsService), db
}

func TestGetCustomerScopedToBusiness(t *testing.T) {
	svc, db := setupCustomerServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	customer := createTestCustomer(t, db, 1, business.ID)

	got, err := svc.GetCustomer(customer.ID, business.ID)
	if err != nil {
		t.Fatalf("get customer failed: %v", err)
	}
	if got.ID != customer.ID {
		t.Fatalf("expected customer %d, got %d", customer.ID, got.ID)
	}

	if _, err := svc.GetCustomer(customer.ID, business.ID+1); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound for foreign business, got %v", err)
	}
	if _, err := svc.GetCustomer(999, business.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound for missing customer, got %v", err)
	}
	if _, err := svc.GetCustomer(0, business.ID); !errors.Is(err, ErrCustomerInvalid) {
		t.Fatalf("expected ErrCustomerInvalid for zero id, got %v", err)
	}
}

func TestIssueManualPoints(t *testing.T) {
	svc, db := setupCustomerServiceTest(t)
	createTestUser(t, db, 1)
	business := createTestBusiness(t, db, 1)
	createTestProgram(t, db, business.ID, defaultTestTiers())
	customer := createTestCustomer(t, db, 1, business.ID)

	card, err := svc.IssueManualPoints(ManualPointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     80,
		Remark:     "店庆补偿",
	})
	if err != nil {
		t.Fatalf("issue manual points failed: %v", err)
	}
	if card == nil || card.PointsBalance != 80 {
		t.Fatalf("expected card with 80 points, got %+v", card)
	}

	// 扣减不能把余额打穿
	if _, err := svc.IssueManualPoints(ManualPointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     -100,
	}); !errors.Is(err, ErrPointsInvalid) {
		t.Fatalf("expected ErrPointsInvalid on overdraft, got %v", err)
	}

	card, err = svc.IssueManualPoints(ManualPointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     -30,
	})
	if err != nil {
		t.Fatalf("deduct points failed: %v", err)
	}
	if card.PointsBalance != 50 {
		t.Fatalf("expected balance 50 after deduction, got %d", card.PointsBalance)
	}

	if _, err := svc.IssueManualPoints(ManualPointsInput{
		BusinessID: business.ID,
		CustomerID: customer.ID,
		Points:     0,
	}); !errors.Is(err, ErrPointsInvalid) {
		t.Fatalf("expected ErrPointsInvalid for zero points, got %v", err)
	}
	if _, err := svc.IssueManualPoints(ManualPointsInput{
		BusinessID: business.ID,
		CustomerID: 999,
		Points:     10,
	}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestListCustomers(t *testing.T) {
	svc, db := setupCustomerServiceTest(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)
	business := createTestBusiness(t, db, 1)
	other := createTestBusiness(t, db, 2)
	createTestCustomer(t, db, 1, business.ID)
	createTestCustomer(t, db, 2, business.ID)
	createTestCustomer(t, db, 1, other.ID)

	customers, total, err := svc.ListCustomers(repository.CustomerListFilter{
		BusinessID: business.ID,
		Page:       1,
		PageSize:   10,
	})
	if err != nil {
		t.Fatalf("list customers failed: %v", err)
	}
	if total != 2 || len(customers) != 2 {
		t.Fatalf("expected 2 customers, got total=%d len=%d", total, len(customers))
	}
	for _, customer := range customers {
		if customer.BusinessID != business.ID {
			t.Fatalf("expected business %d, got %d", business.ID, customer.BusinessID)
		}
	}
}
