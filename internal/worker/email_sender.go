package worker

import (
	"context"
	"fmt"

	"github.com/rubbishit/backend/internal/service"
)

type verificationMailer interface {
	SendVerificationEmail(ctx context.Context, input service.VerificationEmailInput) error
}

type emailSender struct {
	mailer verificationMailer
}

func newEmailSender(mailer verificationMailer) *emailSender {
	return &emailSender{
		mailer: mailer,
	}
}

func (s *emailSender) SendVerificationEmail(ctx context.Context, email, username, verificationCode string) error {
	err := s.mailer.SendVerificationEmail(ctx, service.VerificationEmailInput{
		Email:    email,
		Username: username,
		Code:     verificationCode,
	})
	if err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
