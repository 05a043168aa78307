package models

import "time"

// Setting 商家设置表（business_id + settings_key 键值对存储）
type Setting struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                              // 主键
	BusinessID  uint      `gorm:"uniqueIndex:idx_setting_business_key;not null" json:"business_id"`  // 商家ID
	SettingsKey string    `gorm:"type:varchar(80);uniqueIndex:idx_setting_business_key;not null" json:"settings_key"` // 配置键
	ValueJSON   JSON      `gorm:"type:json" json:"settings_value"`                                   // 配置值
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
