package repository

import (
	"fmt"
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 商家看板聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(businessID uint, startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetPointsTrends(businessID uint, startAt, endAt time.Time) ([]DashboardPointsTrendRow, error)
	GetTopRewards(businessID uint, startAt, endAt time.Time, limit int) ([]DashboardRewardRankingRow, error)
}

// DashboardOverviewRow 看板总览原始统计结果
type DashboardOverviewRow struct {
	CustomersTotal int64
	NewCustomers   int64
	PointsIssued   int64
	PointsRedeemed int64
	CodesActive    int64
	CodesRedeemed  int64
	QRScansTotal   int64
	QRUniqueScans  int64
	ActiveRewards  int64
}

// DashboardPointsTrendRow 积分趋势统计
type DashboardPointsTrendRow struct {
	Day            string
	PointsIssued   int64
	PointsRedeemed int64
	Transactions   int64
}

// DashboardRewardRankingRow 奖励兑换排行原始行
type DashboardRewardRankingRow struct {
	RewardID    uint
	Name        string
	Redemptions int64
}

// GormDashboardRepository GORM 看板聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建看板仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(businessID uint, startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.Customer{}).
		Where("business_id = ?", businessID).
		Count(&result.CustomersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Customer{}).
		Where("business_id = ? AND created_at >= ? AND created_at < ?", businessID, startAt, endAt).
		Count(&result.NewCustomers).Error; err != nil {
		return result, err
	}

	txnBase := func() *gorm.DB {
		return r.db.Model(&models.Transaction{}).
			Where("business_id = ? AND created_at >= ? AND created_at < ?", businessID, startAt, endAt)
	}
	var issued struct{ Total int64 }
	if err := txnBase().
		Where("points_earned > 0").
		Select("COALESCE(SUM(points_earned), 0) AS total").
		Scan(&issued).Error; err != nil {
		return result, err
	}
	result.PointsIssued = issued.Total

	var redeemed struct{ Total int64 }
	if err := txnBase().
		Where("points_earned < 0").
		Select("COALESCE(SUM(-points_earned), 0) AS total").
		Scan(&redeemed).Error; err != nil {
		return result, err
	}
	result.PointsRedeemed = redeemed.Total

	if err := r.db.Model(&models.RedemptionCode{}).
		Where("business_id = ? AND status = ?", businessID, constants.RedemptionCodeStatusActive).
		Count(&result.CodesActive).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.RedemptionCode{}).
		Where("business_id = ? AND status = ? AND redeemed_at >= ? AND redeemed_at < ?",
			businessID, constants.RedemptionCodeStatusRedeemed, startAt, endAt).
		Count(&result.CodesRedeemed).Error; err != nil {
		return result, err
	}

	var scans struct {
		ScansTotal  int64
		ScansUnique int64
	}
	if err := r.db.Model(&models.QRCode{}).
		Where("business_id = ?", businessID).
		Select("COALESCE(SUM(scans_count), 0) AS scans_total, COALESCE(SUM(unique_scans_count), 0) AS scans_unique").
		Scan(&scans).Error; err != nil {
		return result, err
	}
	result.QRScansTotal = scans.ScansTotal
	result.QRUniqueScans = scans.ScansUnique

	if err := r.db.Model(&models.Reward{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&result.ActiveRewards).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetPointsTrends 按天统计积分发放与消耗
func (r *GormDashboardRepository) GetPointsTrends(businessID uint, startAt, endAt time.Time) ([]DashboardPointsTrendRow, error) {
	dayExpr := dayBucketExpr(r.db, "created_at")
	var rows []DashboardPointsTrendRow
	err := r.db.Model(&models.Transaction{}).
		Where("business_id = ? AND created_at >= ? AND created_at < ?", businessID, startAt, endAt).
		Select(fmt.Sprintf(
			"%s AS day, "+
				"COALESCE(SUM(CASE WHEN points_earned > 0 THEN points_earned ELSE 0 END), 0) AS points_issued, "+
				"COALESCE(SUM(CASE WHEN points_earned < 0 THEN -points_earned ELSE 0 END), 0) AS points_redeemed, "+
				"COUNT(*) AS transactions", dayExpr)).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopRewards 获取兑换次数最多的奖励
func (r *GormDashboardRepository) GetTopRewards(businessID uint, startAt, endAt time.Time, limit int) ([]DashboardRewardRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardRewardRankingRow
	err := r.db.Model(&models.RedemptionCode{}).
		Joins("JOIN rewards ON rewards.id = redemption_codes.reward_id").
		Where("redemption_codes.business_id = ? AND redemption_codes.status = ? AND redemption_codes.redeemed_at >= ? AND redemption_codes.redeemed_at < ?",
			businessID, constants.RedemptionCodeStatusRedeemed, startAt, endAt).
		Select("rewards.id AS reward_id, rewards.name AS name, COUNT(*) AS redemptions").
		Group("rewards.id, rewards.name").
		Order("redemptions desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
