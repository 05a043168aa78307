package constants

// 用户角色常量
const (
	UserRoleManager  = "manager"
	UserRoleStaff    = "staff"
	UserRoleCustomer = "customer"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 兑换码状态常量
const (
	RedemptionCodeStatusActive    = "active"
	RedemptionCodeStatusRedeemed  = "redeemed"
	RedemptionCodeStatusExpired   = "expired"
	RedemptionCodeStatusCancelled = "cancelled"
)

// 兑换码面值类型常量
const (
	RedemptionValueTypePoints = "points"
	RedemptionValueTypeReward = "reward"
)

// 二维码类型常量
const (
	QRCodeTypeLoyalty   = "loyalty"
	QRCodeTypeProduct   = "product"
	QRCodeTypePromotion = "promotion"
	QRCodeTypePayment   = "payment"
)

// 积分流水类型常量
const (
	TransactionTypePurchase         = "purchase"
	TransactionTypeRefund           = "refund"
	TransactionTypeRewardRedemption = "reward_redemption"
	TransactionTypeReferral         = "referral"
	TransactionTypeAdjustment       = "adjustment"
)

// 会员卡默认等级
const (
	LoyaltyTierDefault = "member"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型常量
const (
	TaskTypeRedemptionCodeExpire = "code:expire"
	TaskTypePointsEarnedEmail    = "email:points_earned"
	TaskTypeWelcomeEmail         = "email:welcome"
)

// 设置键常量
const (
	SettingKeySiteConfig   = "site_config"
	SettingKeyTheme        = "theme"
	SettingKeyNotification = "notification"
)

// 站点设置字段常量
const (
	SettingFieldSiteName     = "site_name"
	SettingFieldSiteLogo     = "site_logo"
	SettingFieldContactEmail = "contact_email"
)

// 兑换码默认参数
const (
	RedemptionCodeLength            = 10
	RedemptionCodeDefaultExpiryDays = 30
	RedemptionCodeMaxBatchSize      = 1000
)

// 验证码场景常量
const (
	CaptchaSceneLogin      = "login"
	CaptchaSceneAdminLogin = "admin_login"
)
