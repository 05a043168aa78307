package models

import (
	"time"

	"gorm.io/gorm"
)

// Business 商家表
type Business struct {
	ID           uint           `gorm:"primarykey" json:"id"`                              // 主键
	Name         string         `gorm:"type:varchar(120);not null" json:"name"`            // 商家名称
	Slug         string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"` // URL 标识
	OwnerID      *uint          `gorm:"index" json:"owner_id,omitempty"`                   // 店主用户ID
	ContactEmail string         `gorm:"type:varchar(160)" json:"contact_email"`            // 联系邮箱
	ContactPhone string         `gorm:"type:varchar(40)" json:"contact_phone"`             // 联系电话
	Address      string         `gorm:"type:varchar(255)" json:"address"`                  // 地址
	IsActive     bool           `gorm:"not null" json:"is_active"`                         // 是否启用（建档时显式写入）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Business) TableName() string {
	return "businesses"
}
