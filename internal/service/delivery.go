package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/queue/task"
	"github.com/rubbishit/backend/pkg/logger"
)

// VerificationDelivery is a freshly issued code on its way to the user.
type VerificationDelivery struct {
	Email     string
	Code      string
	Username  string
	ExpiresAt time.Time
}

// CodeDelivery hands an issued code to the user. A returned error means the
// code never left and must be discarded.
type CodeDelivery interface {
	Deliver(ctx context.Context, d VerificationDelivery) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func newCodeDelivery(mode string, emails *EmailService, enqueuer TaskEnqueuer, queueConfig config.QueueConfig, m *metrics.Metrics) (CodeDelivery, error) {
	switch mode {
	case config.DeliveryModeSync, "":
		return &emailDelivery{emails: emails, metrics: m}, nil
	case config.DeliveryModeQueue:
		if enqueuer == nil {
			return nil, errors.New("queue delivery requires a task enqueuer")
		}
		return &queueDelivery{enqueuer: enqueuer, maxRetry: queueConfig.MaxRetry, metrics: m}, nil
	case config.DeliveryModeLog:
		return &logDelivery{metrics: m}, nil
	default:
		return nil, fmt.Errorf("unknown delivery mode %q", mode)
	}
}

type emailDelivery struct {
	emails  *EmailService
	metrics *metrics.Metrics
}

func (d *emailDelivery) Deliver(ctx context.Context, v VerificationDelivery) error {
	err := d.emails.SendVerificationEmail(ctx, VerificationEmailInput{
		Email:    v.Email,
		Username: v.Username,
		Code:     v.Code,
	})
	if err != nil {
		d.metrics.Deliveries.WithLabelValues(config.DeliveryModeSync, "failed").Inc()
		return fmt.Errorf("send verification email failed: %w", err)
	}

	d.metrics.Deliveries.WithLabelValues(config.DeliveryModeSync, "ok").Inc()
	return nil
}

type queueDelivery struct {
	enqueuer TaskEnqueuer
	maxRetry int
	metrics  *metrics.Metrics
}

func (d *queueDelivery) Deliver(ctx context.Context, v VerificationDelivery) error {
	t, err := task.NewSendVerificationEmailTask(task.SendVerificationEmail{
		Email:            v.Email,
		Username:         v.Username,
		VerificationCode: v.Code,
		ExpiresAt:        v.ExpiresAt,
	}, d.maxRetry)
	if err != nil {
		d.metrics.Deliveries.WithLabelValues(config.DeliveryModeQueue, "failed").Inc()
		return fmt.Errorf("create send verification email task failed: %w", err)
	}

	info, err := d.enqueuer.EnqueueContext(ctx, t)
	if err != nil {
		d.metrics.Deliveries.WithLabelValues(config.DeliveryModeQueue, "failed").Inc()
		return fmt.Errorf("enqueue send verification email task failed: %w", err)
	}

	logger.Debug("send verification email task enqueued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	d.metrics.Deliveries.WithLabelValues(config.DeliveryModeQueue, "ok").Inc()
	return nil
}

type logDelivery struct {
	metrics *metrics.Metrics
}

func (d *logDelivery) Deliver(_ context.Context, v VerificationDelivery) error {
	logger.Info("verification code",
		zap.String("email", v.Email),
		zap.String("username", v.Username),
		zap.String("code", v.Code))
	d.metrics.Deliveries.WithLabelValues(config.DeliveryModeLog, "ok").Inc()
	return nil
}
