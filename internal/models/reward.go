package models

import (
	"time"

	"gorm.io/gorm"
)

// Reward 奖励表
type Reward struct {
	ID             uint           `gorm:"primarykey" json:"id"`                     // 主键
	BusinessID     uint           `gorm:"index;not null" json:"business_id"`        // 商家ID
	ProgramID      uint           `gorm:"index;not null" json:"program_id"`         // 积分计划ID
	Name           string         `gorm:"type:varchar(120);not null" json:"name"`   // 奖励名称
	Description    string         `gorm:"type:text" json:"description"`             // 描述
	PointsRequired int            `gorm:"not null" json:"points_required"`          // 兑换所需积分
	Quantity       int            `gorm:"not null;default:0" json:"quantity"`       // 库存（0 表示不限量）
	RedeemedCount  int            `gorm:"not null;default:0" json:"redeemed_count"` // 已兑换次数
	IsActive       bool           `gorm:"not null" json:"is_active"`                // 是否启用（建档时显式写入，避免零值被列默认值覆盖）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间
}

// TableName 指定表名
func (Reward) TableName() string {
	return "rewards"
}
