package admin

import (
	"strconv"

	"github.com/loyalty-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取运营看板概览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	businessID, ok := requireQueryBusinessID(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	overview, err := h.DashboardService.GetOverview(businessID, days)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, overview)
}

// GetDashboardTrends 获取积分发放/消耗趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	businessID, ok := requireQueryBusinessID(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trends, err := h.DashboardService.GetTrends(businessID, days)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"trends": trends})
}

// GetDashboardTopRewards 获取兑换热度最高的奖励排行
func (h *Handler) GetDashboardTopRewards(c *gin.Context) {
	businessID, ok := requireQueryBusinessID(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rewards, err := h.DashboardService.GetTopRewards(businessID, days, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"rewards": rewards})
}
