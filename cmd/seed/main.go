package main

import (
	"fmt"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示商家
	business := models.Business{
		Name:         "Corner Coffee Roasters",
		Slug:         "corner-coffee",
		ContactEmail: "hello@cornercoffee.example",
		ContactPhone: "+1-555-0102",
		Address:      "42 Bean Street, Portland, OR",
		IsActive:     true,
	}
	var existingBusiness models.Business
	if err := models.DB.Where("slug = ?", business.Slug).First(&existingBusiness).Error; err != nil {
		if err := models.DB.Create(&business).Error; err != nil {
			stdLog.Fatalf("Failed to create business %s: %v", business.Slug, err)
		}
		stdLog.Printf("Created business: %s", business.Slug)
	} else {
		business = existingBusiness
		stdLog.Printf("Business already exists: %s", business.Slug)
	}

	// 演示用户（商家经理 + 两名顾客）
	seedUsers := []struct {
		Email       string
		Password    string
		DisplayName string
		Role        string
		BusinessID  *uint
	}{
		{Email: "manager@cornercoffee.example", Password: "Manager2026!", DisplayName: "Dana Manager", Role: constants.UserRoleManager, BusinessID: &business.ID},
		{Email: "alice@example.com", Password: "Customer2026!", DisplayName: "Alice", Role: constants.UserRoleCustomer},
		{Email: "bob@example.com", Password: "Customer2026!", DisplayName: "Bob", Role: constants.UserRoleCustomer},
	}

	userIDs := map[string]uint{}
	for _, seed := range seedUsers {
		var existing models.User
		if err := models.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			userIDs[seed.Email] = existing.ID
			stdLog.Printf("User already exists: %s", seed.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", seed.Email, err)
			continue
		}
		user := models.User{
			Email:        seed.Email,
			PasswordHash: string(hash),
			DisplayName:  seed.DisplayName,
			Role:         seed.Role,
			BusinessID:   seed.BusinessID,
			Locale:       "en",
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seed.Email, err)
			continue
		}
		userIDs[seed.Email] = user.ID
		stdLog.Printf("Created user: %s", seed.Email)
	}

	if business.OwnerID == nil {
		if managerID, ok := userIDs["manager@cornercoffee.example"]; ok {
			business.OwnerID = &managerID
			if err := models.DB.Save(&business).Error; err != nil {
				stdLog.Printf("Failed to set business owner: %v", err)
			}
		}
	}

	// 积分计划
	program := models.LoyaltyProgram{
		BusinessID:  business.ID,
		Name:        "Corner Coffee Rewards",
		Description: "Earn points on every visit and redeem them for free drinks.",
		Rules: models.JSON(map[string]interface{}{
			"rounding":        "floor",
			"expire_months":   12,
			"double_weekends": true,
		}),
		Tiers: models.JSONArray([]map[string]interface{}{
			{"name": "member", "min_points": 0},
			{"name": "silver", "min_points": 200},
			{"name": "gold", "min_points": 1000},
		}),
		PointsPerPurchase: 10,
		PointsPerReferral: 50,
		PointsPerCurrency: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.5)),
		IsActive:          true,
	}
	var existingProgram models.LoyaltyProgram
	if err := models.DB.Where("business_id = ?", business.ID).First(&existingProgram).Error; err != nil {
		if err := models.DB.Create(&program).Error; err != nil {
			stdLog.Fatalf("Failed to create loyalty program: %v", err)
		}
		stdLog.Printf("Created loyalty program: %s", program.Name)
	} else {
		program = existingProgram
		stdLog.Printf("Loyalty program already exists: %s", program.Name)
	}

	// 顾客会员身份
	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		uid, ok := userIDs[email]
		if !ok {
			continue
		}
		var existing models.Customer
		if err := models.DB.Where("user_id = ? AND business_id = ?", uid, business.ID).First(&existing).Error; err == nil {
			stdLog.Printf("Customer already exists: %s", email)
			continue
		}
		customer := models.Customer{
			UserID:       uid,
			BusinessID:   business.ID,
			TotalPoints:  0,
			ReferralCode: fmt.Sprintf("REF%06d", uid),
		}
		if err := models.DB.Create(&customer).Error; err != nil {
			stdLog.Printf("Failed to create customer %s: %v", email, err)
			continue
		}
		stdLog.Printf("Created customer: %s", email)
	}

	// 奖励
	rewards := []models.Reward{
		{
			BusinessID:     business.ID,
			ProgramID:      program.ID,
			Name:           "Free Espresso",
			Description:    "Any single espresso drink on the house.",
			PointsRequired: 100,
			Quantity:       0,
			IsActive:       true,
		},
		{
			BusinessID:     business.ID,
			ProgramID:      program.ID,
			Name:           "Bag of House Blend",
			Description:    "250g bag of our house blend beans.",
			PointsRequired: 400,
			Quantity:       25,
			IsActive:       true,
		},
		{
			BusinessID:     business.ID,
			ProgramID:      program.ID,
			Name:           "Brewing Workshop Seat",
			Description:    "One seat at the monthly pour-over workshop.",
			PointsRequired: 1200,
			Quantity:       8,
			IsActive:       true,
		},
	}
	rewardIDs := map[string]uint{}
	for _, reward := range rewards {
		var existing models.Reward
		if err := models.DB.Where("business_id = ? AND name = ?", reward.BusinessID, reward.Name).First(&existing).Error; err == nil {
			rewardIDs[reward.Name] = existing.ID
			stdLog.Printf("Reward already exists: %s", reward.Name)
			continue
		}
		if err := models.DB.Create(&reward).Error; err != nil {
			stdLog.Printf("Failed to create reward %s: %v", reward.Name, err)
			continue
		}
		rewardIDs[reward.Name] = reward.ID
		stdLog.Printf("Created reward: %s", reward.Name)
	}

	// 兑换码（积分码 + 奖励码）
	expiresAt := time.Now().AddDate(0, 1, 0)
	codes := []models.RedemptionCode{
		{
			Code:        "WELCOME100",
			BusinessID:  business.ID,
			ValueType:   constants.RedemptionValueTypePoints,
			ValueAmount: 100,
			Status:      constants.RedemptionCodeStatusActive,
			ExpiresAt:   &expiresAt,
		},
		{
			Code:        "SPRING50",
			BusinessID:  business.ID,
			ValueType:   constants.RedemptionValueTypePoints,
			ValueAmount: 50,
			Status:      constants.RedemptionCodeStatusActive,
			ExpiresAt:   &expiresAt,
		},
	}
	if espressoID, ok := rewardIDs["Free Espresso"]; ok {
		codes = append(codes, models.RedemptionCode{
			Code:       "ESPRESSO1",
			BusinessID: business.ID,
			RewardID:   &espressoID,
			ValueType:  constants.RedemptionValueTypeReward,
			Status:     constants.RedemptionCodeStatusActive,
			ExpiresAt:  &expiresAt,
		})
	}
	for _, code := range codes {
		var existing models.RedemptionCode
		if err := models.DB.Where("code = ?", code.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Redemption code already exists: %s", code.Code)
			continue
		}
		if err := models.DB.Create(&code).Error; err != nil {
			stdLog.Printf("Failed to create redemption code %s: %v", code.Code, err)
			continue
		}
		stdLog.Printf("Created redemption code: %s", code.Code)
	}

	// 二维码（门店展示牌）
	qrCodes := []models.QRCode{
		{
			BusinessID: business.ID,
			Code:       "corner-loyalty",
			CodeType:   constants.QRCodeTypeLoyalty,
			Name:       "Counter Loyalty Sign",
			Content:    "Scan to join Corner Coffee Rewards",
			LinkURL:    "https://loyalty.example.com/b/corner-coffee",
			IsActive:   true,
		},
		{
			BusinessID: business.ID,
			Code:       "corner-spring-promo",
			CodeType:   constants.QRCodeTypePromotion,
			Name:       "Spring Promo Poster",
			Content:    "Spring promotion: double points on weekends",
			LinkURL:    "https://loyalty.example.com/b/corner-coffee/promo",
			IsActive:   true,
		},
	}
	for _, qr := range qrCodes {
		var existing models.QRCode
		if err := models.DB.Where("code = ?", qr.Code).First(&existing).Error; err == nil {
			stdLog.Printf("QR code already exists: %s", qr.Code)
			continue
		}
		if err := models.DB.Create(&qr).Error; err != nil {
			stdLog.Printf("Failed to create qr code %s: %v", qr.Code, err)
			continue
		}
		stdLog.Printf("Created qr code: %s", qr.Code)
	}

	// 商家设置
	settings := []models.Setting{
		{
			BusinessID:  business.ID,
			SettingsKey: constants.SettingKeySiteConfig,
			ValueJSON: models.JSON(map[string]interface{}{
				constants.SettingFieldSiteName:     "Corner Coffee Roasters",
				constants.SettingFieldContactEmail: "hello@cornercoffee.example",
			}),
		},
		{
			BusinessID:  business.ID,
			SettingsKey: constants.SettingKeyTheme,
			ValueJSON: models.JSON(map[string]interface{}{
				"primary_color": "#6F4E37",
				"dark_mode":     false,
			}),
		},
	}
	for _, setting := range settings {
		var existing models.Setting
		if err := models.DB.Where("business_id = ? AND settings_key = ?", setting.BusinessID, setting.SettingsKey).First(&existing).Error; err == nil {
			existing.ValueJSON = setting.ValueJSON
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update setting %s: %v", setting.SettingsKey, err)
			} else {
				stdLog.Printf("Updated setting: %s", setting.SettingsKey)
			}
			continue
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create setting %s: %v", setting.SettingsKey, err)
			continue
		}
		stdLog.Printf("Created setting: %s", setting.SettingsKey)
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 1 Business (corner-coffee)")
	fmt.Println("- 3 Users (1 manager + 2 customers)")
	fmt.Println("- 1 Loyalty program with 3 tiers")
	fmt.Println("- 3 Rewards")
	fmt.Println("- 3 Redemption codes")
	fmt.Println("- 2 QR codes")
	fmt.Println("- 2 Business settings")
}
