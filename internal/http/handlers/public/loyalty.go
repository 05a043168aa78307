package public

import (
	"strconv"

	"github.com/loyalty-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyCards 获取当前用户的会员卡
func (h *Handler) GetMyCards(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cards, err := h.PointsService.ListCards(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.card_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"cards": cards})
}

// GetMyTransactions 获取当前用户的积分流水
func (h *Handler) GetMyTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, _ := strconv.ParseUint(c.Query("business_id"), 10, 64)

	txns, total, err := h.PointsService.ListUserTransactions(uid, uint(businessID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.transaction_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, txns, response.BuildPagination(page, pageSize, total))
}

// GetMyCodes 获取当前用户的兑换码
func (h *Handler) GetMyCodes(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, _ := strconv.ParseUint(c.Query("business_id"), 10, 64)

	codes, total, err := h.CodeService.ListUserCodes(uid, uint(businessID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.code_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, codes, response.BuildPagination(page, pageSize, total))
}
