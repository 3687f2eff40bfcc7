package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/queue/task"
	"github.com/rubbishit/backend/internal/worker"
	"github.com/rubbishit/backend/pkg/logger"
)

type sendEmailProcessor struct {
	workers *worker.Workers
	now     func() time.Time
}

func NewSendEmailProcessor(workers *worker.Workers) *sendEmailProcessor {
	return &sendEmailProcessor{
		workers: workers,
		now:     time.Now,
	}
}

func (p *sendEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	data, err := task.ParseSendVerificationEmail(t)
	if err != nil {
		// A malformed payload will not parse on retry either.
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	// An expired code must not reach the inbox.
	if data.Expired(p.now()) {
		logger.Warn("verification code expired before delivery",
			zap.String("email", data.Email),
			zap.Time("expires_at", data.ExpiresAt))
		return nil
	}

	if err = p.workers.EmailSender.SendVerificationEmail(ctx, data.Email, data.Username, data.VerificationCode); err != nil {
		return errors.Wrap(err, "send verification email failed")
	}

	logger.Info("verification email sent", zap.String("email", data.Email))

	return nil
}
