package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 顾客表（用户在某个商家下的会员身份）
type Customer struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                          // 主键
	UserID       uint           `gorm:"uniqueIndex:idx_customer_user_business;not null" json:"user_id"` // 用户ID
	BusinessID   uint           `gorm:"uniqueIndex:idx_customer_user_business;index;not null" json:"business_id"` // 商家ID
	TotalPoints  int            `gorm:"not null;default:0" json:"total_points"`                        // 累计积分
	ReferralCode string         `gorm:"type:varchar(20);uniqueIndex" json:"referral_code"`             // 推荐码
	ReferredBy   *uint          `gorm:"index" json:"referred_by,omitempty"`                            // 推荐人顾客ID
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`                       // 用户信息
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
