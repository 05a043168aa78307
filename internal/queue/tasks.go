package queue

import (
	"encoding/json"

	"github.com/loyalty-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskRedemptionCodeExpire 兑换码到期任务
	TaskRedemptionCodeExpire = constants.TaskTypeRedemptionCodeExpire
	// TaskPointsEarnedEmail 积分到账邮件任务
	TaskPointsEarnedEmail = constants.TaskTypePointsEarnedEmail
	// TaskWelcomeEmail 注册欢迎邮件任务
	TaskWelcomeEmail = constants.TaskTypeWelcomeEmail
)

// RedemptionCodeExpirePayload 兑换码到期任务载荷
type RedemptionCodeExpirePayload struct {
	CodeID uint `json:"code_id"`
}

// PointsEarnedEmailPayload 积分到账邮件任务载荷
type PointsEarnedEmailPayload struct {
	CustomerID uint   `json:"customer_id"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

// WelcomeEmailPayload 欢迎邮件任务载荷
type WelcomeEmailPayload struct {
	UserID uint `json:"user_id"`
}

// NewRedemptionCodeExpireTask 创建兑换码到期任务
func NewRedemptionCodeExpireTask(payload RedemptionCodeExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRedemptionCodeExpire, body), nil
}

// NewPointsEarnedEmailTask 创建积分到账邮件任务
func NewPointsEarnedEmailTask(payload PointsEarnedEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPointsEarnedEmail, body), nil
}

// NewWelcomeEmailTask 创建欢迎邮件任务
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, body), nil
}
