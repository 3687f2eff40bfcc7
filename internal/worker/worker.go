package worker

import (
	"context"

	"github.com/rubbishit/backend/internal/service"
)

type Workers struct {
	EmailSender EmailSender
}

type Deps struct {
	Services *service.Services
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, username, verificationCode string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.Services.Emails),
	}
}
