package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupLoyaltyProgramServiceTest(t *testing.T) (*LoyaltyProgramService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:loyalty_program_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Business{},
		&models.LoyaltyProgram{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	svc := NewLoyaltyProgramService(
		repository.NewLoyaltyProgramRepository(db),
		repository.NewBusinessRepository(db),
	)
	return svc, db
}

func TestCreateProgram(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	perPurchase := 10
	program, err := svc.CreateProgram(business.ID, ProgramInput{
		Name:              "Coffee Rewards",
		Description:       "Earn points per visit",
		Tiers:             defaultTestTiers(),
		PointsPerPurchase: &perPurchase,
	})
	if err != nil {
		t.Fatalf("create program failed: %v", err)
	}
	if program.ID == 0 {
		t.Fatal("expected program persisted")
	}
	if !program.IsActive {
		t.Fatal("expected program active by default")
	}
	if program.PointsPerPurchase != 10 {
		t.Fatalf("expected points per purchase 10, got %d", program.PointsPerPurchase)
	}
	if len(program.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(program.Tiers))
	}
}

func TestCreateProgramInactivePersists(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	inactive := false
	if _, err := svc.CreateProgram(business.ID, ProgramInput{
		Name:     "Paused Program",
		IsActive: &inactive,
	}); err != nil {
		t.Fatalf("create program failed: %v", err)
	}

	refreshed, err := svc.GetProgram(business.ID)
	if err != nil {
		t.Fatalf("reload program failed: %v", err)
	}
	if refreshed.IsActive {
		t.Fatal("expected inactive program persisted as inactive")
	}
}

func TestCreateProgramDuplicateReturnsExisting(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	first, err := svc.CreateProgram(business.ID, ProgramInput{Name: "First"})
	if err != nil {
		t.Fatalf("create program failed: %v", err)
	}

	second, err := svc.CreateProgram(business.ID, ProgramInput{Name: "Second"})
	if !errors.Is(err, ErrProgramExists) {
		t.Fatalf("expected ErrProgramExists, got %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Fatalf("expected existing program returned with error, got %+v", second)
	}
	if second.Name != "First" {
		t.Fatalf("expected original program unchanged, got %s", second.Name)
	}
}

func TestCreateProgramValidation(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	if _, err := svc.CreateProgram(business.ID, ProgramInput{Name: "   "}); !errors.Is(err, ErrProgramInvalid) {
		t.Fatalf("expected ErrProgramInvalid for blank name, got %v", err)
	}
	if _, err := svc.CreateProgram(999, ProgramInput{Name: "Ghost"}); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
	if _, err := svc.CreateProgram(0, ProgramInput{Name: "Zero"}); !errors.Is(err, ErrProgramInvalid) {
		t.Fatalf("expected ErrProgramInvalid for zero business, got %v", err)
	}
}

func TestUpdateProgram(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	if _, err := svc.UpdateProgram(business.ID, ProgramInput{Name: "Missing"}); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}

	if _, err := svc.CreateProgram(business.ID, ProgramInput{Name: "Original"}); err != nil {
		t.Fatalf("create program failed: %v", err)
	}

	inactive := false
	perReferral := 75
	program, err := svc.UpdateProgram(business.ID, ProgramInput{
		Name:              "Renamed",
		PointsPerReferral: &perReferral,
		IsActive:          &inactive,
	})
	if err != nil {
		t.Fatalf("update program failed: %v", err)
	}
	if program.Name != "Renamed" {
		t.Fatalf("expected renamed program, got %s", program.Name)
	}
	if program.PointsPerReferral != 75 {
		t.Fatalf("expected points per referral 75, got %d", program.PointsPerReferral)
	}
	if program.IsActive {
		t.Fatal("expected program deactivated")
	}
}

func TestNormalizeTiersDropsInvalidEntries(t *testing.T) {
	svc, db := setupLoyaltyProgramServiceTest(t)
	business := createTestBusiness(t, db, 1)

	program, err := svc.CreateProgram(business.ID, ProgramInput{
		Name: "Tiered",
		Tiers: models.JSONArray{
			{"name": "member", "min_points": float64(0)},
			{"name": "  ", "min_points": float64(100)},
			{"name": "broken"},
			{"name": "gold", "min_points": float64(500)},
		},
	})
	if err != nil {
		t.Fatalf("create program failed: %v", err)
	}
	if len(program.Tiers) != 2 {
		t.Fatalf("expected 2 valid tiers, got %d", len(program.Tiers))
	}
	for _, entry := range program.Tiers {
		name, _ := entry["name"].(string)
		if name != "member" && name != "gold" {
			t.Fatalf("unexpected tier kept: %s", name)
		}
	}
}
