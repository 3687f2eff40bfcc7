package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rubbishit/backend/internal/config"
	emailProvider "github.com/rubbishit/backend/pkg/email"
)

const verificationSubjectFormat = "[Rubbishit Journal] Your Verification Code: %s"

type EmailService struct {
	sender       emailProvider.Sender
	config       config.EmailConfig
	validMinutes int
}

func NewEmailService(sender emailProvider.Sender, config config.EmailConfig, codeTTL time.Duration) *EmailService {
	return &EmailService{
		sender:       sender,
		config:       config,
		validMinutes: int(codeTTL / time.Minute),
	}
}

type verificationEmailInput struct {
	Username     string
	Code         string
	ValidMinutes int
}

type VerificationEmailInput struct {
	Email    string
	Username string
	Code     string
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, input VerificationEmailInput) error {
	if s.sender == nil {
		return fmt.Errorf("email sender is not configured")
	}

	templateInput := verificationEmailInput{
		Username:     input.Username,
		Code:         input.Code,
		ValidMinutes: s.validMinutes,
	}
	sendInput := emailProvider.SendEmailInput{
		Subject: fmt.Sprintf(verificationSubjectFormat, input.Code),
		To:      input.Email,
	}

	templatePath := filepath.Join(s.config.Templates.Dir, s.config.Templates.Verification)
	if err := sendInput.GenerateBodyFromHTML(templatePath, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(ctx, sendInput)
}
