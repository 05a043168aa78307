package models

import (
	"time"

	"gorm.io/gorm"
)

// LoyaltyProgram 积分计划表（每个商家至多一个）
type LoyaltyProgram struct {
	ID                uint           `gorm:"primarykey" json:"id"`                        // 主键
	BusinessID        uint           `gorm:"index;not null" json:"business_id"`           // 商家ID
	Name              string         `gorm:"type:varchar(120);not null" json:"name"`      // 计划名称
	Description       string         `gorm:"type:text" json:"description"`                // 描述
	Rules             JSON           `gorm:"type:json" json:"rules"`                      // 自定义规则
	Tiers             JSONArray      `gorm:"type:json" json:"tiers"`                      // 等级配置（{name, min_points} 升序）
	PointsPerPurchase int            `gorm:"not null;default:0" json:"points_per_purchase"` // 每笔消费积分
	PointsPerReferral int            `gorm:"not null;default:0" json:"points_per_referral"` // 每次推荐积分
	PointsPerCurrency Money          `gorm:"type:decimal(20,2);not null;default:0" json:"points_per_currency"` // 每货币单位积分
	IsActive          bool           `gorm:"not null" json:"is_active"`                   // 是否启用（建档时显式写入）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                     // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                     // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (LoyaltyProgram) TableName() string {
	return "loyalty_programs"
}
