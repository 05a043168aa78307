package models

import "time"

// Transaction 积分流水表（消费/退款/兑换/推荐/人工调整）
type Transaction struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	BusinessID   uint      `gorm:"index;not null" json:"business_id"`                     // 商家ID
	CustomerID   uint      `gorm:"index;not null" json:"customer_id"`                     // 顾客ID
	ProgramID    *uint     `gorm:"index" json:"program_id,omitempty"`                     // 积分计划ID
	Type         string    `gorm:"type:varchar(32);index;not null" json:"type"`           // 流水类型
	Amount       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`   // 消费金额
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`               // 积分变动（可为负）
	Reference    string    `gorm:"type:varchar(120);index" json:"reference"`              // 业务引用（code:XX / reward:ID）
	Remark       string    `gorm:"type:varchar(255)" json:"remark"`                       // 备注
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
