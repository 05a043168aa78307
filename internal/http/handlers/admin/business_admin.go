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

// CreateBusinessRequest 创建商家请求
type CreateBusinessRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug"`
	OwnerID      *uint  `json:"owner_id"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

// UpdateBusinessRequest 更新商家请求
type UpdateBusinessRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
}

// GetBusinesses 获取商家列表
func (h *Handler) GetBusinesses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.BusinessListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	businesses, total, err := h.BusinessService.ListBusinesses(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.business_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, businesses, response.BuildPagination(page, pageSize, total))
}

// GetBusiness 获取商家详情
func (h *Handler) GetBusiness(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	business, err := h.BusinessService.GetBusiness(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.business_fetch_failed", err)
		return
	}

	response.Success(c, business)
}

// CreateBusiness 创建商家
func (h *Handler) CreateBusiness(c *gin.Context) {
	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	business, err := h.BusinessService.CreateBusiness(service.CreateBusinessInput{
		Name:         req.Name,
		Slug:         req.Slug,
		OwnerID:      req.OwnerID,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessInvalid):
			respondError(c, response.CodeBadRequest, "error.business_invalid", nil)
		case errors.Is(err, service.ErrBusinessSlugExists):
			respondError(c, response.CodeBadRequest, "error.business_slug_exists", nil)
		default:
			respondError(c, response.CodeInternal, "error.business_create_failed", err)
		}
		return
	}

	response.Success(c, business)
}

// UpdateBusiness 更新商家
func (h *Handler) UpdateBusiness(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	business, err := h.BusinessService.UpdateBusiness(id, service.UpdateBusinessInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		IsActive:     req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
		case errors.Is(err, service.ErrBusinessInvalid):
			respondError(c, response.CodeBadRequest, "error.business_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.business_update_failed", err)
		}
		return
	}

	response.Success(c, business)
}
