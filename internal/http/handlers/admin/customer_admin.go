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

// IssuePointsRequest 手动发放/调整积分请求
type IssuePointsRequest struct {
	BusinessID uint   `json:"business_id" binding:"required"`
	Points     int    `json:"points" binding:"required"`
	Remark     string `json:"remark"`
}

// GetCustomers 获取顾客列表
func (h *Handler) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	filter := repository.CustomerListFilter{
		Page:       page,
		PageSize:   pageSize,
		BusinessID: businessID,
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("min_points")); raw != "" {
		minPoints, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		filter.MinPoints = &minPoints
	}

	customers, total, err := h.CustomerService.ListCustomers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.customer_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, customers, response.BuildPagination(page, pageSize, total))
}

// GetCustomer 获取顾客详情
func (h *Handler) GetCustomer(c *gin.Context) {
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

	customer, err := h.CustomerService.GetCustomer(id, businessID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.customer_fetch_failed", err)
		return
	}

	response.Success(c, customer)
}

// IssueCustomerPoints 手动发放或扣减顾客积分
func (h *Handler) IssueCustomerPoints(c *gin.Context) {
	customerID, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req IssuePointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	card, err := h.CustomerService.IssueManualPoints(service.ManualPointsInput{
		BusinessID: req.BusinessID,
		CustomerID: customerID,
		Points:     req.Points,
		Remark:     req.Remark,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
		case errors.Is(err, service.ErrPointsInvalid):
			respondError(c, response.CodeBadRequest, "error.points_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.points_issue_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"card": card})
}
