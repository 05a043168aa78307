package models

import (
	"time"

	"gorm.io/gorm"
)

// QRCode 二维码表
type QRCode struct {
	ID               uint           `gorm:"primarykey" json:"id"`                              // 主键
	BusinessID       uint           `gorm:"index;not null" json:"business_id"`                 // 商家ID
	Code             string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"` // 扫码标识
	CodeType         string         `gorm:"type:varchar(24);index;not null" json:"code_type"`  // 类型（loyalty/product/promotion/payment）
	Name             string         `gorm:"type:varchar(120)" json:"name"`                     // 名称
	Content          string         `gorm:"type:text" json:"content"`                          // 内容
	LinkURL          string         `gorm:"type:varchar(500)" json:"link_url"`                 // 跳转链接
	ScansCount       int            `gorm:"not null;default:0" json:"scans_count"`             // 总扫码次数
	UniqueScansCount int            `gorm:"not null;default:0" json:"unique_scans_count"`      // 去重扫码次数
	IsActive         bool           `gorm:"not null" json:"is_active"`                         // 是否启用（建档时显式写入）
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (QRCode) TableName() string {
	return "qr_codes"
}

// QRScan 扫码记录表（按指纹去重）
type QRScan struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                            // 主键
	QRCodeID    uint      `gorm:"uniqueIndex:idx_scan_code_fingerprint;not null" json:"qr_code_id"` // 二维码ID
	Fingerprint string    `gorm:"type:varchar(120);uniqueIndex:idx_scan_code_fingerprint;not null" json:"fingerprint"` // 客户端指纹
	ScannedAt   time.Time `gorm:"index" json:"scanned_at"`                                         // 首次扫码时间
}

// TableName 指定表名
func (QRScan) TableName() string {
	return "qr_scans"
}
