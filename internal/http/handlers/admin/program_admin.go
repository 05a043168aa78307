package admin

import (
	"errors"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/i18n"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProgramRequest 创建/更新忠诚度计划请求
type ProgramRequest struct {
	Name              string                   `json:"name"`
	Description       string                   `json:"description"`
	Rules             map[string]interface{}   `json:"rules"`
	Tiers             []map[string]interface{} `json:"tiers"`
	PointsPerPurchase *int                     `json:"points_per_purchase"`
	PointsPerReferral *int                     `json:"points_per_referral"`
	PointsPerCurrency *float64                 `json:"points_per_currency"`
	IsActive          *bool                    `json:"is_active"`
}

func (r ProgramRequest) toServiceInput() service.ProgramInput {
	input := service.ProgramInput{
		Name:              r.Name,
		Description:       r.Description,
		Rules:             models.JSON(r.Rules),
		Tiers:             models.JSONArray(r.Tiers),
		PointsPerPurchase: r.PointsPerPurchase,
		PointsPerReferral: r.PointsPerReferral,
		IsActive:          r.IsActive,
	}
	if r.PointsPerCurrency != nil {
		money := models.NewMoneyFromDecimal(decimal.NewFromFloat(*r.PointsPerCurrency))
		input.PointsPerCurrency = &money
	}
	return input
}

// GetBusinessProgram 获取商家的忠诚度计划
func (h *Handler) GetBusinessProgram(c *gin.Context) {
	businessID, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	program, err := h.ProgramService.GetProgram(businessID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			respondError(c, response.CodeNotFound, "error.program_not_found", nil)
		case errors.Is(err, service.ErrProgramInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.program_fetch_failed", err)
		}
		return
	}

	response.Success(c, program)
}

// CreateBusinessProgram 为商家创建忠诚度计划
// 每个商家仅允许一个计划：已存在时返回 409 并携带现有计划。
func (h *Handler) CreateBusinessProgram(c *gin.Context) {
	businessID, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	program, err := h.ProgramService.CreateProgram(businessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramExists):
			msg := i18n.T(i18n.ResolveLocale(c), "error.program_exists")
			response.ErrorWithData(c, response.CodeConflict, msg, gin.H{"program": program})
		case errors.Is(err, service.ErrBusinessNotFound):
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
		case errors.Is(err, service.ErrProgramInvalid):
			respondError(c, response.CodeBadRequest, "error.program_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.program_create_failed", err)
		}
		return
	}

	response.Success(c, program)
}

// UpdateBusinessProgram 更新商家的忠诚度计划
func (h *Handler) UpdateBusinessProgram(c *gin.Context) {
	businessID, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	program, err := h.ProgramService.UpdateProgram(businessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			respondError(c, response.CodeNotFound, "error.program_not_found", nil)
		case errors.Is(err, service.ErrProgramInvalid):
			respondError(c, response.CodeBadRequest, "error.program_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.program_update_failed", err)
		}
		return
	}

	response.Success(c, program)
}
