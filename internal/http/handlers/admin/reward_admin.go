package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/repository"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RewardRequest 创建/更新奖励请求
type RewardRequest struct {
	BusinessID     uint   `json:"business_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired *int   `json:"points_required"`
	Quantity       *int   `json:"quantity"`
	IsActive       *bool  `json:"is_active"`
}

func (r RewardRequest) toServiceInput() service.RewardInput {
	return service.RewardInput{
		Name:           r.Name,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		Quantity:       r.Quantity,
		IsActive:       r.IsActive,
	}
}

// GetRewards 获取奖励列表
func (h *Handler) GetRewards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	programID, ok := parseQueryUint(c, "program_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	filter := repository.RewardListFilter{
		Page:       page,
		PageSize:   pageSize,
		BusinessID: businessID,
		ProgramID:  programID,
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	rewards, total, err := h.RewardService.ListRewards(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.reward_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, rewards, response.BuildPagination(page, pageSize, total))
}

// GetReward 获取奖励详情
func (h *Handler) GetReward(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	reward, err := h.RewardService.GetReward(id)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.reward_fetch_failed", err)
		return
	}

	response.Success(c, reward)
}

// CreateReward 创建奖励
func (h *Handler) CreateReward(c *gin.Context) {
	var req RewardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BusinessID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	reward, err := h.RewardService.CreateReward(req.BusinessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			respondError(c, response.CodeNotFound, "error.program_not_found", nil)
		case errors.Is(err, service.ErrRewardInvalid):
			respondError(c, response.CodeBadRequest, "error.reward_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.reward_create_failed", err)
		}
		return
	}

	response.Success(c, reward)
}

// UpdateReward 更新奖励
func (h *Handler) UpdateReward(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req RewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	reward, err := h.RewardService.UpdateReward(id, req.BusinessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
		case errors.Is(err, service.ErrRewardInvalid):
			respondError(c, response.CodeBadRequest, "error.reward_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.reward_update_failed", err)
		}
		return
	}

	response.Success(c, reward)
}

// DeleteReward 删除奖励（软删除）
func (h *Handler) DeleteReward(c *gin.Context) {
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

	if err := h.RewardService.DeleteReward(id, businessID); err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
		case errors.Is(err, service.ErrRewardInvalid):
			respondError(c, response.CodeBadRequest, "error.reward_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.reward_delete_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
