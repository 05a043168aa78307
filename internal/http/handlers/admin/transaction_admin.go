package admin

import (
	"strconv"
	"strings"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetTransactions 获取积分流水列表
func (h *Handler) GetTransactions(c *gin.Context) {
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
	programID, ok := parseQueryUint(c, "program_id")
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

	transactions, total, listErr := h.PointsService.ListTransactions(repository.TransactionListFilter{
		Page:        page,
		PageSize:    pageSize,
		BusinessID:  businessID,
		CustomerID:  customerID,
		ProgramID:   programID,
		Type:        strings.TrimSpace(strings.ToLower(c.Query("type"))),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if listErr != nil {
		respondError(c, response.CodeInternal, "error.transaction_fetch_failed", listErr)
		return
	}

	response.SuccessWithPage(c, transactions, response.BuildPagination(page, pageSize, total))
}
