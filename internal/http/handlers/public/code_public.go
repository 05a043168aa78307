package public

import (
	"errors"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateCodeRequest 校验兑换码请求
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemCodeRequest 兑换请求
type RedeemCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// codeInvalidReason 将业务错误折算为校验失败原因
func codeInvalidReason(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrCodeRedeemed):
		return "redeemed", true
	case errors.Is(err, service.ErrCodeExpired):
		return "expired", true
	case errors.Is(err, service.ErrCodeCancelled):
		return "cancelled", true
	default:
		return "", false
	}
}

// ValidateCode 校验兑换码（只读）
// 已兑换/已过期/已作废的码返回 valid=false 而非错误响应。
func (h *Handler) ValidateCode(c *gin.Context) {
	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	code, err := h.CodeService.ValidateCode(req.Code)
	if err != nil {
		if reason, ok := codeInvalidReason(err); ok && code != nil {
			response.Success(c, gin.H{
				"valid":  false,
				"reason": reason,
				"code":   code,
			})
			return
		}
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			respondError(c, response.CodeNotFound, "error.code_not_found", nil)
		case errors.Is(err, service.ErrCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.code_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.code_fetch_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"valid": true,
		"code":  code,
	})
}

// RedeemCode 兑换
func (h *Handler) RedeemCode(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req RedeemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	code, card, err := h.CodeService.RedeemCode(uid, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			respondError(c, response.CodeNotFound, "error.code_not_found", nil)
		case errors.Is(err, service.ErrCodeRedeemed):
			respondError(c, response.CodeBadRequest, "error.code_redeemed", nil)
		case errors.Is(err, service.ErrCodeExpired):
			respondError(c, response.CodeBadRequest, "error.code_expired", nil)
		case errors.Is(err, service.ErrCodeCancelled):
			respondError(c, response.CodeBadRequest, "error.code_cancelled", nil)
		case errors.Is(err, service.ErrCodeCustomerMismatch):
			respondError(c, response.CodeForbidden, "error.code_customer_mismatch", nil)
		case errors.Is(err, service.ErrRewardOutOfStock):
			respondError(c, response.CodeBadRequest, "error.reward_out_of_stock", nil)
		case errors.Is(err, service.ErrCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.code_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.code_update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"code": code,
		"card": card,
	})
}
