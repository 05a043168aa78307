package models

import (
	"time"

	"gorm.io/gorm"
)

// RedemptionCode 兑换码表。
// 状态机：active -> redeemed / expired / cancelled，redeemed 为终态。
type RedemptionCode struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Code        string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`              // 兑换码
	BusinessID  uint           `gorm:"index;not null" json:"business_id"`                              // 商家ID
	RewardID    *uint          `gorm:"index" json:"reward_id,omitempty"`                               // 关联奖励ID（value_type=reward）
	CustomerID  *uint          `gorm:"index" json:"customer_id,omitempty"`                             // 定向顾客ID（为空则任何顾客可用）
	ValueType   string         `gorm:"type:varchar(24);not null" json:"value_type"`                    // 面值类型（points/reward）
	ValueAmount int            `gorm:"not null;default:0" json:"value_amount"`                         // 积分面值
	Status      string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"` // 状态
	RedeemedBy  *uint          `gorm:"index" json:"redeemed_by,omitempty"`                             // 兑换顾客ID
	RedeemedAt  *time.Time     `gorm:"index" json:"redeemed_at"`                                       // 兑换时间
	ExpiresAt   *time.Time     `gorm:"index" json:"expires_at"`                                        // 过期时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
	Reward      *Reward        `gorm:"foreignKey:RewardID" json:"reward,omitempty"`                    // 奖励信息
}

// TableName 指定表名
func (RedemptionCode) TableName() string {
	return "redemption_codes"
}
