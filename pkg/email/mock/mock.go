package mock_email

import (
	"context"

	"github.com/rubbishit/backend/pkg/email"

	"github.com/stretchr/testify/mock"
)

type EmailSender struct {
	mock.Mock
}

func (m *EmailSender) Send(ctx context.Context, inp email.SendEmailInput) error {
	args := m.Called(ctx, inp)

	return args.Error(0)
}
