package service

import "errors"

// 通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserDisabled       = errors.New("user disabled")
	ErrProfileEmpty       = errors.New("profile empty")
)

// 商家错误
var (
	ErrBusinessInvalid      = errors.New("business invalid")
	ErrBusinessNotFound     = errors.New("business not found")
	ErrBusinessSlugExists   = errors.New("business slug exists")
	ErrBusinessCreateFailed = errors.New("business create failed")
	ErrBusinessUpdateFailed = errors.New("business update failed")
	ErrBusinessFetchFailed  = errors.New("business fetch failed")
)

// 忠诚度计划错误
var (
	ErrProgramInvalid      = errors.New("loyalty program invalid")
	ErrProgramNotFound     = errors.New("loyalty program not found")
	ErrProgramExists       = errors.New("loyalty program already exists")
	ErrProgramCreateFailed = errors.New("loyalty program create failed")
	ErrProgramUpdateFailed = errors.New("loyalty program update failed")
	ErrProgramFetchFailed  = errors.New("loyalty program fetch failed")
)

// 奖励错误
var (
	ErrRewardInvalid      = errors.New("reward invalid")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardOutOfStock   = errors.New("reward out of stock")
	ErrRewardCreateFailed = errors.New("reward create failed")
	ErrRewardUpdateFailed = errors.New("reward update failed")
	ErrRewardDeleteFailed = errors.New("reward delete failed")
	ErrRewardFetchFailed  = errors.New("reward fetch failed")
)

// 兑换码错误
var (
	ErrCodeInvalid          = errors.New("redemption code invalid")
	ErrCodeNotFound         = errors.New("redemption code not found")
	ErrCodeRedeemed         = errors.New("redemption code already redeemed")
	ErrCodeExpired          = errors.New("redemption code expired")
	ErrCodeCancelled        = errors.New("redemption code cancelled")
	ErrCodeBusinessMismatch = errors.New("redemption code business mismatch")
	ErrCodeCustomerMismatch = errors.New("redemption code customer mismatch")
	ErrCodeGenerateFailed   = errors.New("redemption code generate failed")
	ErrCodeUpdateFailed     = errors.New("redemption code update failed")
	ErrCodeFetchFailed      = errors.New("redemption code fetch failed")
)

// 二维码错误
var (
	ErrQRCodeInvalid      = errors.New("qr code invalid")
	ErrQRCodeNotFound     = errors.New("qr code not found")
	ErrQRCodeInactive     = errors.New("qr code inactive")
	ErrQRCodeCreateFailed = errors.New("qr code create failed")
	ErrQRCodeUpdateFailed = errors.New("qr code update failed")
	ErrQRCodeDeleteFailed = errors.New("qr code delete failed")
	ErrQRCodeFetchFailed  = errors.New("qr code fetch failed")
)

// 设置错误
var (
	ErrSettingInvalid      = errors.New("setting invalid")
	ErrSettingNotFound     = errors.New("setting not found")
	ErrSettingUpdateFailed = errors.New("setting update failed")
	ErrSettingFetchFailed  = errors.New("setting fetch failed")
)

// 顾客与积分错误
var (
	ErrCustomerInvalid     = errors.New("customer invalid")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerFetchFailed = errors.New("customer fetch failed")
	ErrPointsInvalid       = errors.New("points invalid")
	ErrPointsIssueFailed   = errors.New("points issue failed")
	ErrCardFetchFailed     = errors.New("loyalty card fetch failed")
	ErrTransactionFailed   = errors.New("transaction fetch failed")
	ErrDashboardFailed     = errors.New("dashboard fetch failed")
)

// 验证码与邮件错误
var (
	ErrCaptchaRequired           = errors.New("captcha required")
	ErrCaptchaInvalid            = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid      = errors.New("captcha config invalid")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
