package models

import (
	"time"

	"gorm.io/gorm"
)

// LoyaltyCard 会员卡表（顾客在某个积分计划下的余额与等级）
type LoyaltyCard struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                              // 主键
	CustomerID    uint           `gorm:"uniqueIndex:idx_card_customer_program;not null" json:"customer_id"` // 顾客ID
	ProgramID     uint           `gorm:"uniqueIndex:idx_card_customer_program;index;not null" json:"program_id"` // 积分计划ID
	PointsBalance int            `gorm:"not null;default:0" json:"points_balance"`                          // 可用积分余额
	Tier          string         `gorm:"type:varchar(40);not null;default:'member'" json:"tier"`            // 当前等级
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                           // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间
}

// TableName 指定表名
func (LoyaltyCard) TableName() string {
	return "loyalty_cards"
}
