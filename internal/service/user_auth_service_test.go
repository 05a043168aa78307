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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	cfg.UserJWT.SecretKey = "user-auth-service-test-secret"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	cfg.Loyalty.PointsPerReferral = 25
	customerRepo := repository.NewCustomerRepository(db)
	pointsService := NewPointsService(
		cfg,
		customerRepo,
		repository.NewLoyaltyCardRepository(db),
		repository.NewLoyaltyProgramRepository(db),
		repository.NewTransactionRepository(db),
		nil,
	)
	svc := NewUserAuthService(
		cfg,
		repository.NewUserRepository(db),
		customerRepo,
		repository.NewBusinessRepository(db),
		pointsService,
		nil,
	)
	return svc, db
}

func TestRegisterCustomer(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	business := createTestBusiness(t, db, 1)

	user, token, expiresAt, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:        "Alice@Example.COM ",
		Password:     "Password123",
		DisplayName:  "Alice",
		BusinessSlug: business.Slug,
	})
	if err != nil {
		t.Fatalf("register customer failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Role != constants.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", user.Role)
	}
	if token == "" || expiresAt.Before(time.Now()) {
		t.Fatal("expected valid token and future expiry")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.UserRoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	var customer models.Customer
	if err := db.Where("user_id = ? AND business_id = ?", user.ID, business.ID).First(&customer).Error; err != nil {
		t.Fatalf("expected customer profile created: %v", err)
	}
	if customer.ReferralCode == "" {
		t.Fatal("expected referral code assigned")
	}

	// 重复邮箱注册被拒
	if _, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:    "alice@example.com",
		Password: "Password123",
	}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterCustomerValidation(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:    "not-an-email",
		Password: "Password123",
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:    "weak@example.com",
		Password: "short",
	}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:        "ghost@example.com",
		Password:     "Password123",
		BusinessSlug: "no-such-business",
	}); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestRegisterCustomerWithReferral(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	business := createTestBusiness(t, db, 1)
	createTestProgram(t, db, business.ID, defaultTestTiers())
	referrerUser := createTestUser(t, db, 10)
	referrer := createTestCustomer(t, db, referrerUser.ID, business.ID)

	user, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:        "friend@example.com",
		Password:     "Password123",
		BusinessSlug: business.Slug,
		ReferralCode: referrer.ReferralCode,
	})
	if err != nil {
		t.Fatalf("register with referral failed: %v", err)
	}

	var customer models.Customer
	if err := db.Where("user_id = ? AND business_id = ?", user.ID, business.ID).First(&customer).Error; err != nil {
		t.Fatalf("expected customer profile created: %v", err)
	}
	if customer.ReferredBy == nil || *customer.ReferredBy != referrer.ID {
		t.Fatalf("expected referred_by %d, got %v", referrer.ID, customer.ReferredBy)
	}

	// 推荐人按计划配置入账 50 分
	var refreshed models.Customer
	if err := db.First(&refreshed, referrer.ID).Error; err != nil {
		t.Fatalf("reload referrer failed: %v", err)
	}
	if refreshed.TotalPoints != 50 {
		t.Fatalf("expected referrer total points 50, got %d", refreshed.TotalPoints)
	}

	var txn models.Transaction
	if err := db.Where("customer_id = ? AND type = ?", referrer.ID, constants.TransactionTypeReferral).First(&txn).Error; err != nil {
		t.Fatalf("expected referral transaction: %v", err)
	}
	if txn.PointsEarned != 50 {
		t.Fatalf("expected 50 referral points, got %d", txn.PointsEarned)
	}
}

func TestRegisterCustomerInvalidReferralIgnored(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	business := createTestBusiness(t, db, 1)

	user, _, _, err := svc.RegisterCustomer(RegisterCustomerInput{
		Email:        "solo@example.com",
		Password:     "Password123",
		BusinessSlug: business.Slug,
		ReferralCode: "BOGUS123",
	})
	if err != nil {
		t.Fatalf("expected registration to succeed despite bad referral, got %v", err)
	}

	var customer models.Customer
	if err := db.Where("user_id = ?", user.ID).First(&customer).Error; err != nil {
		t.Fatalf("expected customer profile created: %v", err)
	}
	if customer.ReferredBy != nil {
		t.Fatal("expected no referrer recorded for invalid code")
	}

	var txnCount int64
	if err := db.Model(&models.Transaction{}).Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if txnCount != 0 {
		t.Fatalf("expected no referral transactions, got %d", txnCount)
	}
}

func TestRegisterBusiness(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, business, token, _, err := svc.RegisterBusiness(RegisterBusinessInput{
		Email:        "owner@example.com",
		Password:     "Password123",
		BusinessName: "Corner Coffee Roasters",
	})
	if err != nil {
		t.Fatalf("register business failed: %v", err)
	}
	if user.Role != constants.UserRoleManager {
		t.Fatalf("expected manager role, got %s", user.Role)
	}
	if business.Slug != "corner-coffee-roasters" {
		t.Fatalf("expected slug derived from name, got %s", business.Slug)
	}
	if business.OwnerID == nil || *business.OwnerID != user.ID {
		t.Fatalf("expected owner back-reference, got %v", business.OwnerID)
	}
	if user.BusinessID == nil || *user.BusinessID != business.ID {
		t.Fatalf("expected user bound to business, got %v", user.BusinessID)
	}
	if token == "" {
		t.Fatal("expected token issued")
	}

	var persisted models.User
	if err := db.First(&persisted, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if persisted.BusinessID == nil || *persisted.BusinessID != business.ID {
		t.Fatal("expected business binding persisted")
	}

	// slug 冲突
	if _, _, _, _, err := svc.RegisterBusiness(RegisterBusinessInput{
		Email:        "owner2@example.com",
		Password:     "Password123",
		BusinessName: "Another Shop",
		Slug:         "Corner Coffee Roasters",
	}); !errors.Is(err, ErrBusinessSlugExists) {
		t.Fatalf("expected ErrBusinessSlugExists, got %v", err)
	}

	if _, _, _, _, err := svc.RegisterBusiness(RegisterBusinessInput{
		Email:    "owner3@example.com",
		Password: "Password123",
	}); !errors.Is(err, ErrBusinessInvalid) {
		t.Fatalf("expected ErrBusinessInvalid for missing name, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	now := time.Now()
	if err := db.Create(&models.User{
		Email:        "login@example.com",
		PasswordHash: string(hash),
		Role:         constants.UserRoleCustomer,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := db.Create(&models.User{
		Email:        "banned@example.com",
		PasswordHash: string(hash),
		Role:         constants.UserRoleCustomer,
		Status:       constants.UserStatusDisabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error; err != nil {
		t.Fatalf("create disabled user failed: %v", err)
	}

	user, token, _, err := svc.Login("login@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token issued")
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login recorded")
	}

	if _, _, _, err := svc.Login("login@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login("missing@example.com", "Password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, _, _, err := svc.Login("banned@example.com", "Password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePasswordInvalidatesTokens(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	now := time.Now()
	user := &models.User{
		Email:        "rotate@example.com",
		PasswordHash: string(hash),
		Role:         constants.UserRoleCustomer,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "WrongOld1", "NewPassword123"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword for wrong old password, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Password123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "Password123", "NewPassword123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var refreshed models.User
	if err := db.First(&refreshed, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if refreshed.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", refreshed.TokenVersion)
	}
	if refreshed.TokenInvalidBefore == nil {
		t.Fatal("expected token_invalid_before set")
	}
	if bcrypt.CompareHashAndPassword([]byte(refreshed.PasswordHash), []byte("NewPassword123")) != nil {
		t.Fatal("expected new password to verify")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "NewPassword123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	user := createTestUser(t, db, 1)

	if _, err := svc.UpdateProfile(user.ID, nil, nil); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}

	name := "Renamed"
	locale := "zh-CN"
	updated, err := svc.UpdateProfile(user.ID, &name, &locale)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "Renamed" || updated.Locale != "zh-CN" {
		t.Fatalf("unexpected profile: %s / %s", updated.DisplayName, updated.Locale)
	}

	if _, err := svc.UpdateProfile(999, &name, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
