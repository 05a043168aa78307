package repository

import "time"

// BusinessListFilter 查询商家列表的过滤条件
type BusinessListFilter struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
}

// CustomerListFilter 查询顾客列表的过滤条件
type CustomerListFilter struct {
	Page       int
	PageSize   int
	BusinessID uint
	UserID     uint
	Search     string
	MinPoints  *int
}

// RewardListFilter 查询奖励列表的过滤条件
type RewardListFilter struct {
	Page       int
	PageSize   int
	BusinessID uint
	ProgramID  uint
	IsActive   *bool
}

// RedemptionCodeListFilter 查询兑换码列表的过滤条件
type RedemptionCodeListFilter struct {
	Page          int
	PageSize      int
	BusinessID    uint
	CustomerID    uint
	RewardID      uint
	Status        string
	Code          string
	ExpiresFrom   *time.Time
	ExpiresTo     *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string
	SortDirection string
}

// QRCodeListFilter 查询二维码列表的过滤条件
type QRCodeListFilter struct {
	Page       int
	PageSize   int
	BusinessID uint
	CodeType   string
	IsActive   *bool
}

// TransactionListFilter 查询积分流水列表的过滤条件
type TransactionListFilter struct {
	Page        int
	PageSize    int
	BusinessID  uint
	CustomerID  uint
	ProgramID   uint
	Type        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	Role       string
	Status     string
	BusinessID uint
}
