package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GenerateCodesRequest 生成兑换码请求
type GenerateCodesRequest struct {
	BusinessID  uint   `json:"business_id" binding:"required"`
	Quantity    int    `json:"quantity"`
	ValueType   string `json:"value_type" binding:"required"`
	ValueAmount int    `json:"value_amount"`
	RewardID    *uint  `json:"reward_id"`
	CustomerID  *uint  `json:"customer_id"`
	ExpireDays  int    `json:"expire_days"`
	ExpiresAt   string `json:"expires_at"`
}

// UpdateCodeRequest 更新兑换码请求
type UpdateCodeRequest struct {
	Status    *string `json:"status"`
	ExpiresAt *string `json:"expires_at"`
}

// ExportCodesRequest 导出兑换码请求
type ExportCodesRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Format string `json:"format" binding:"required"`
}

// GenerateCodes 管理端生成兑换码
func (h *Handler) GenerateCodes(c *gin.Context) {
	var req GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	expiresAt, err := parseTimeNullable(strings.TrimSpace(req.ExpiresAt))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	codes, genErr := h.CodeService.GenerateCodes(service.GenerateCodesInput{
		BusinessID:  req.BusinessID,
		Quantity:    req.Quantity,
		ValueType:   req.ValueType,
		ValueAmount: req.ValueAmount,
		RewardID:    req.RewardID,
		CustomerID:  req.CustomerID,
		ExpireDays:  req.ExpireDays,
		ExpiresAt:   expiresAt,
	})
	if genErr != nil {
		switch {
		case errors.Is(genErr, service.ErrCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.code_invalid", nil)
		case errors.Is(genErr, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
		case errors.Is(genErr, service.ErrBusinessNotFound):
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.code_generate_failed", genErr)
		}
		return
	}

	response.Success(c, gin.H{
		"codes":   codes,
		"created": len(codes),
	})
}

// GetCodes 获取兑换码列表
func (h *Handler) GetCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	customerID, ok := parseQueryUint(c, "customer_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	rewardID, ok := parseQueryUint(c, "reward_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	expiresFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("expires_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	expiresTo, err := parseTimeNullable(strings.TrimSpace(c.Query("expires_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	codes, total, listErr := h.CodeService.ListCodes(service.CodeListInput{
		BusinessID:    businessID,
		CustomerID:    customerID,
		RewardID:      rewardID,
		Status:        strings.TrimSpace(strings.ToLower(c.Query("status"))),
		Code:          strings.TrimSpace(c.Query("code")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
		ExpiresFrom:   expiresFrom,
		ExpiresTo:     expiresTo,
		SortBy:        strings.TrimSpace(c.Query("sort_by")),
		SortDirection: strings.TrimSpace(c.Query("sort_dir")),
		Page:          page,
		PageSize:      pageSize,
	})
	if listErr != nil {
		respondError(c, response.CodeInternal, "error.code_fetch_failed", listErr)
		return
	}

	response.SuccessWithPage(c, codes, response.BuildPagination(page, pageSize, total))
}

// UpdateCode 更新兑换码（作废/恢复/调整有效期）
func (h *Handler) UpdateCode(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req UpdateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var (
		expiresAt      *time.Time
		clearExpiresAt bool
	)
	if req.ExpiresAt != nil {
		if strings.TrimSpace(*req.ExpiresAt) == "" {
			clearExpiresAt = true
		} else {
			parsed, err := parseTimeNullable(strings.TrimSpace(*req.ExpiresAt))
			if err != nil {
				respondError(c, response.CodeBadRequest, "error.bad_request", err)
				return
			}
			expiresAt = parsed
		}
	}

	code, err := h.CodeService.UpdateCode(id, businessID, service.UpdateCodeInput{
		Status:         req.Status,
		ExpiresAt:      expiresAt,
		ClearExpiresAt: clearExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			respondError(c, response.CodeNotFound, "error.code_not_found", nil)
		case errors.Is(err, service.ErrCodeRedeemed):
			respondError(c, response.CodeBadRequest, "error.code_redeemed", nil)
		case errors.Is(err, service.ErrCodeExpired):
			respondError(c, response.CodeBadRequest, "error.code_expired", nil)
		case errors.Is(err, service.ErrCodeBusinessMismatch):
			respondError(c, response.CodeForbidden, "error.code_business_mismatch", nil)
		case errors.Is(err, service.ErrCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.code_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.code_update_failed", err)
		}
		return
	}

	response.Success(c, code)
}

// ExportCodes 导出兑换码
func (h *Handler) ExportCodes(c *gin.Context) {
	var req ExportCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	content, contentType, err := h.CodeService.ExportCodes(req.IDs, req.Format)
	if err != nil {
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

	filename := fmt.Sprintf("redemption_codes_%s.%s", time.Now().Format("20060102_150405"), strings.ToLower(strings.TrimSpace(req.Format)))
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, content)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
