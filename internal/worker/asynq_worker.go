package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/provider"
	"github.com/loyalty-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskRedemptionCodeExpire, c.handleRedemptionCodeExpire)
	mux.HandleFunc(queue.TaskPointsEarnedEmail, c.handlePointsEarnedEmail)
	mux.HandleFunc(queue.TaskWelcomeEmail, c.handleWelcomeEmail)
}

func (c *Consumer) handleRedemptionCodeExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_code_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RedemptionCodeExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_code_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.CodeID == 0 {
		logger.Debugw("worker_code_expire_skip_invalid_payload", "code_id", payload.CodeID)
		return nil
	}
	if c.CodeService == nil {
		logger.Warnw("worker_code_expire_skip_code_service_nil", "code_id", payload.CodeID)
		return nil
	}
	expired, err := c.CodeService.ExpireCode(payload.CodeID)
	if err != nil {
		logger.Warnw("worker_code_expire_failed", "code_id", payload.CodeID, "error", err)
		return err
	}
	if !expired {
		// 已被兑换、已作废或到期时间被后移，均视为正常
		logger.Debugw("worker_code_expire_noop", "code_id", payload.CodeID)
	}
	return nil
}

func (c *Consumer) handlePointsEarnedEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_points_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PointsEarnedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_points_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.CustomerID == 0 || payload.Points <= 0 {
		logger.Debugw("worker_points_email_skip_invalid_payload",
			"customer_id", payload.CustomerID,
			"points", payload.Points,
		)
		return nil
	}
	customer, err := c.CustomerRepo.GetByID(payload.CustomerID)
	if err != nil {
		logger.Warnw("worker_points_email_fetch_customer_failed", "customer_id", payload.CustomerID, "error", err)
		return err
	}
	if customer == nil {
		logger.Debugw("worker_points_email_skip_customer_not_found", "customer_id", payload.CustomerID)
		return nil
	}
	user, err := c.UserRepo.GetByID(customer.UserID)
	if err != nil {
		logger.Warnw("worker_points_email_fetch_user_failed",
			"customer_id", customer.ID,
			"user_id", customer.UserID,
			"error", err,
		)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_points_email_skip_empty_receiver", "customer_id", customer.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_points_email_skip_email_service_nil", "customer_id", customer.ID)
		return nil
	}
	if err := c.EmailService.SendPointsEarnedEmail(user.Email, payload.Points, payload.Reason, user.Locale); err != nil {
		logger.Warnw("worker_points_email_send_failed",
			"customer_id", customer.ID,
			"receiver_email", user.Email,
			"points", payload.Points,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleWelcomeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_welcome_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_welcome_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_welcome_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_welcome_email_fetch_user_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_welcome_email_skip_empty_receiver", "user_id", payload.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_welcome_email_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendWelcomeEmail(user.Email, user.DisplayName, user.Locale); err != nil {
		logger.Warnw("worker_welcome_email_send_failed",
			"user_id", user.ID,
			"receiver_email", user.Email,
			"error", err,
		)
		return err
	}
	return nil
}
