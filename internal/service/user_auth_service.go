package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"
	"github.com/loyalty-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserAuthService 用户认证服务（顾客与商家账号）
type UserAuthService struct {
	cfg           *config.Config
	userRepo      repository.UserRepository
	customerRepo  repository.CustomerRepository
	businessRepo  repository.BusinessRepository
	pointsService *PointsService
	queueClient   *queue.Client
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	businessRepo repository.BusinessRepository,
	pointsService *PointsService,
	queueClient *queue.Client,
) *UserAuthService {
	return &UserAuthService{
		cfg:           cfg,
		userRepo:      userRepo,
		customerRepo:  customerRepo,
		businessRepo:  businessRepo,
		pointsService: pointsService,
		queueClient:   queueClient,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// RegisterCustomerInput 顾客注册输入
type RegisterCustomerInput struct {
	Email        string
	Password     string
	DisplayName  string
	BusinessSlug string
	ReferralCode string
	Locale       string
}

// RegisterCustomer 顾客注册
// 用户与顾客档案在同一事务内写入，推荐人积分同事务入账。
func (s *UserAuthService) RegisterCustomer(input RegisterCustomerInput) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	var business *models.Business
	slug := strings.ToLower(strings.TrimSpace(input.BusinessSlug))
	if slug != "" {
		business, err = s.businessRepo.GetBySlug(slug)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if business == nil {
			return nil, "", time.Time{}, ErrBusinessNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  resolveDisplayName(input.DisplayName, normalized),
		Role:         constants.UserRoleCustomer,
		Locale:       resolveLocale(input.Locale),
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		if business == nil {
			return nil
		}

		customer := &models.Customer{
			UserID:       user.ID,
			BusinessID:   business.ID,
			ReferralCode: generateReferralCode(),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.customerRepo.WithTx(tx).Create(customer); err != nil {
			return err
		}

		referral := strings.ToUpper(strings.TrimSpace(input.ReferralCode))
		if referral == "" || s.pointsService == nil {
			return nil
		}
		referrer, err := s.customerRepo.WithTx(tx).GetByReferralCode(referral)
		if err != nil {
			return err
		}
		if referrer == nil || referrer.BusinessID != business.ID {
			// 推荐码无效时不阻塞注册
			return nil
		}
		customer.ReferredBy = &referrer.ID
		if err := s.customerRepo.WithTx(tx).Update(customer); err != nil {
			return err
		}
		_, issueErr := s.pointsService.IssuePointsInTx(tx, IssuePointsInput{
			BusinessID: business.ID,
			CustomerID: referrer.ID,
			Points:     s.resolveReferralPoints(business.ID),
			Type:       constants.TransactionTypeReferral,
			Reference:  fmt.Sprintf("referral:%d", customer.ID),
		})
		return issueErr
	}); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	_ = s.queueClient.EnqueueWelcomeEmail(queue.WelcomeEmailPayload{UserID: user.ID})

	return user, token, expiresAt, nil
}

// RegisterBusinessInput 商家注册输入
type RegisterBusinessInput struct {
	Email        string
	Password     string
	DisplayName  string
	BusinessName string
	Slug         string
	ContactEmail string
	ContactPhone string
	Address      string
	Locale       string
}

// RegisterBusiness 商家注册
// 经理账号、商家与 owner 回填在同一事务内完成。
func (s *UserAuthService) RegisterBusiness(input RegisterBusinessInput) (*models.User, *models.Business, string, time.Time, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, nil, "", time.Time{}, err
	}
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return nil, nil, "", time.Time{}, ErrBusinessInvalid
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, nil, "", time.Time{}, ErrEmailExists
	}

	slug := normalizeSlug(input.Slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if slug == "" {
		return nil, nil, "", time.Time{}, ErrBusinessInvalid
	}
	existSlug, err := s.businessRepo.GetBySlug(slug)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}
	if existSlug != nil {
		return nil, nil, "", time.Time{}, ErrBusinessSlugExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  resolveDisplayName(input.DisplayName, normalized),
		Role:         constants.UserRoleManager,
		Locale:       resolveLocale(input.Locale),
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	business := &models.Business{
		Name:         name,
		Slug:         slug,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Address:      strings.TrimSpace(input.Address),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		business.OwnerID = &user.ID
		if err := s.businessRepo.WithTx(tx).Create(business); err != nil {
			return err
		}
		user.BusinessID = &business.ID
		return s.userRepo.WithTx(tx).Update(user)
	}); err != nil {
		return nil, nil, "", time.Time{}, ErrBusinessCreateFailed
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	_ = s.queueClient.EnqueueWelcomeEmail(queue.WelcomeEmailPayload{UserID: user.ID})

	return user, business, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// ChangePassword 登录态修改密码
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// UpdateProfile 更新用户资料
func (s *UserAuthService) UpdateProfile(userID uint, displayName, locale *string) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	updated := false
	if displayName != nil {
		trimmed := strings.TrimSpace(*displayName)
		if trimmed != "" {
			user.DisplayName = trimmed
			updated = true
		}
	}

	if locale != nil {
		trimmed := strings.TrimSpace(*locale)
		if trimmed != "" {
			user.Locale = trimmed
			updated = true
		}
	}

	if !updated {
		return nil, ErrProfileEmpty
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// ListCustomerProfiles 获取用户的顾客档案列表
func (s *UserAuthService) ListCustomerProfiles(userID uint) ([]models.Customer, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	return s.customerRepo.ListByUserID(userID)
}

func (s *UserAuthService) resolveReferralPoints(businessID uint) int {
	if s.pointsService != nil {
		if points := s.pointsService.ReferralPoints(businessID); points > 0 {
			return points
		}
	}
	if s.cfg != nil && s.cfg.Loyalty.PointsPerReferral > 0 {
		return s.cfg.Loyalty.PointsPerReferral
	}
	return 0
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveDisplayName(name, email string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed != "" {
		return trimmed
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func resolveLocale(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return "en"
	}
	return trimmed
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)

func normalizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateReferralCode() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(referralCodeAlphabet))))
		if err != nil {
			b.WriteByte(referralCodeAlphabet[i%len(referralCodeAlphabet)])
			continue
		}
		b.WriteByte(referralCodeAlphabet[n.Int64()])
	}
	return b.String()
}
