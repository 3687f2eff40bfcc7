package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	SendVerificationEmailTaskName  = "sendVerificationEmailTask"
	SendVerificationEmailQueueName = "sendVerificationEmailQueue"

	defaultMaxRetry = 5
)

type SendVerificationEmail struct {
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	VerificationCode string    `json:"verification_code"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Expired reports whether the code in the payload can no longer be used at now.
func (s SendVerificationEmail) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func NewSendVerificationEmailTask(data SendVerificationEmail, maxRetry int) (*asynq.Task, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(SendVerificationEmailTaskName, payload, sendVerificationEmailOptions(data, maxRetry)...), nil
}

// sendVerificationEmailOptions stops retries once the code has expired.
func sendVerificationEmailOptions(data SendVerificationEmail, maxRetry int) []asynq.Option {
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}

	opts := []asynq.Option{
		asynq.MaxRetry(maxRetry),
		asynq.Queue(SendVerificationEmailQueueName),
		asynq.TaskID(uuid.NewString()),
	}
	if !data.ExpiresAt.IsZero() {
		opts = append(opts, asynq.Deadline(data.ExpiresAt))
	}

	return opts
}

func ParseSendVerificationEmail(t *asynq.Task) (SendVerificationEmail, error) {
	var data SendVerificationEmail
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return data, fmt.Errorf("send verification email payload unmarshal failed: %w", err)
	}
	return data, nil
}
