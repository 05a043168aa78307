package service

import (
	"time"

	"github.com/loyalty-next/internal/repository"
)

// DashboardService 商家看板服务
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建看板服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardOverview 看板总览
type DashboardOverview struct {
	CustomersTotal int64 `json:"customers_total"`
	NewCustomers   int64 `json:"new_customers"`
	PointsIssued   int64 `json:"points_issued"`
	PointsRedeemed int64 `json:"points_redeemed"`
	CodesActive    int64 `json:"codes_active"`
	CodesRedeemed  int64 `json:"codes_redeemed"`
	QRScansTotal   int64 `json:"qr_scans_total"`
	QRUniqueScans  int64 `json:"qr_unique_scans"`
	ActiveRewards  int64 `json:"active_rewards"`
	RangeDays      int   `json:"range_days"`
}

// DashboardTrendPoint 按天趋势点
type DashboardTrendPoint struct {
	Day            string `json:"day"`
	PointsIssued   int64  `json:"points_issued"`
	PointsRedeemed int64  `json:"points_redeemed"`
	Transactions   int64  `json:"transactions"`
}

// DashboardRewardRank 奖励兑换排行
type DashboardRewardRank struct {
	RewardID    uint   `json:"reward_id"`
	Name        string `json:"name"`
	Redemptions int64  `json:"redemptions"`
}

// GetOverview 获取看板总览
func (s *DashboardService) GetOverview(businessID uint, days int) (*DashboardOverview, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrDashboardFailed
	}
	days = normalizeRangeDays(days)
	startAt, endAt := resolveRange(days)
	row, err := s.repo.GetOverview(businessID, startAt, endAt)
	if err != nil {
		return nil, ErrDashboardFailed
	}
	return &DashboardOverview{
		CustomersTotal: row.CustomersTotal,
		NewCustomers:   row.NewCustomers,
		PointsIssued:   row.PointsIssued,
		PointsRedeemed: row.PointsRedeemed,
		CodesActive:    row.CodesActive,
		CodesRedeemed:  row.CodesRedeemed,
		QRScansTotal:   row.QRScansTotal,
		QRUniqueScans:  row.QRUniqueScans,
		ActiveRewards:  row.ActiveRewards,
		RangeDays:      days,
	}, nil
}

// GetTrends 获取按天积分趋势
func (s *DashboardService) GetTrends(businessID uint, days int) ([]DashboardTrendPoint, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrDashboardFailed
	}
	startAt, endAt := resolveRange(normalizeRangeDays(days))
	rows, err := s.repo.GetPointsTrends(businessID, startAt, endAt)
	if err != nil {
		return nil, ErrDashboardFailed
	}
	points := make([]DashboardTrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, DashboardTrendPoint{
			Day:            row.Day,
			PointsIssued:   row.PointsIssued,
			PointsRedeemed: row.PointsRedeemed,
			Transactions:   row.Transactions,
		})
	}
	return points, nil
}

// GetTopRewards 获取奖励兑换排行
func (s *DashboardService) GetTopRewards(businessID uint, days, limit int) ([]DashboardRewardRank, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrDashboardFailed
	}
	startAt, endAt := resolveRange(normalizeRangeDays(days))
	rows, err := s.repo.GetTopRewards(businessID, startAt, endAt, limit)
	if err != nil {
		return nil, ErrDashboardFailed
	}
	ranks := make([]DashboardRewardRank, 0, len(rows))
	for _, row := range rows {
		ranks = append(ranks, DashboardRewardRank{
			RewardID:    row.RewardID,
			Name:        row.Name,
			Redemptions: row.Redemptions,
		})
	}
	return ranks, nil
}

func normalizeRangeDays(days int) int {
	if days <= 0 {
		return 30
	}
	if days > 365 {
		return 365
	}
	return days
}

func resolveRange(days int) (time.Time, time.Time) {
	endAt := time.Now()
	startAt := endAt.Add(-time.Duration(days) * 24 * time.Hour)
	return startAt, endAt
}
