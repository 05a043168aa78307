package public

import (
	"errors"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 顾客注册请求
type UserRegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DisplayName  string `json:"display_name"`
	BusinessSlug string `json:"business_slug"`
	ReferralCode string `json:"referral_code"`
	Locale       string `json:"locale"`
}

// BusinessRegisterRequest 商家注册请求
type BusinessRegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DisplayName  string `json:"display_name"`
	BusinessName string `json:"business_name" binding:"required"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	Locale       string `json:"locale"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Locale      *string `json:"locale"`
}

// UpdateUserPasswordRequest 修改密码请求
type UpdateUserPasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         user.Role,
		"business_id":  user.BusinessID,
		"locale":       user.Locale,
		"status":       user.Status,
	}
}

func respondRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrEmailExists):
		respondError(c, response.CodeBadRequest, "error.email_exists", nil)
	case errors.Is(err, service.ErrWeakPassword):
		key, args := service.PasswordPolicyDetail(err)
		respondErrorArgs(c, response.CodeBadRequest, key, args, nil)
	case errors.Is(err, service.ErrBusinessNotFound):
		respondError(c, response.CodeNotFound, "error.business_not_found", nil)
	case errors.Is(err, service.ErrBusinessSlugExists):
		respondError(c, response.CodeBadRequest, "error.business_slug_exists", nil)
	case errors.Is(err, service.ErrBusinessInvalid):
		respondError(c, response.CodeBadRequest, "error.business_invalid", nil)
	case errors.Is(err, service.ErrBusinessCreateFailed):
		respondError(c, response.CodeInternal, "error.business_create_failed", err)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// UserRegister 顾客注册
// 指定 business_slug 时同步建立该商家的顾客档案，推荐码有效则给推荐人入账。
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.RegisterCustomer(service.RegisterCustomerInput{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		BusinessSlug: req.BusinessSlug,
		ReferralCode: req.ReferralCode,
		Locale:       req.Locale,
	})
	if err != nil {
		respondRegisterError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":       userView(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// BusinessRegister 商家注册
// 管理员用户、商家记录与归属关系在同一事务内创建。
func (h *Handler) BusinessRegister(c *gin.Context) {
	var req BusinessRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, business, token, expiresAt, err := h.UserAuthService.RegisterBusiness(service.RegisterBusinessInput{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		BusinessName: req.BusinessName,
		Slug:         req.Slug,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Locale:       req.Locale,
	})
	if err != nil {
		respondRegisterError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":       userView(user),
		"business":   business,
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.captcha_invalid", captchaErr)
			}
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "error.account_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       userView(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetMe 获取当前用户信息
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	profiles, err := h.UserAuthService.ListCustomerProfiles(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.customer_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"user":     userView(user),
		"profiles": profiles,
	})
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(uid, req.DisplayName, req.Locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrProfileEmpty):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, userView(user))
}

// UpdateUserPassword 修改当前用户密码
func (h *Handler) UpdateUserPassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.old_password_invalid", nil)
		case errors.Is(err, service.ErrWeakPassword):
			key, args := service.PasswordPolicyDetail(err)
			respondErrorArgs(c, response.CodeBadRequest, key, args, nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, nil)
}
