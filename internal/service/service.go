package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/domain"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/repository"
	emailProvider "github.com/rubbishit/backend/pkg/email"
	"github.com/rubbishit/backend/pkg/hash"
	"github.com/rubbishit/backend/pkg/otp"
	"github.com/rubbishit/backend/pkg/validator"
)

type Services struct {
	Users        Users
	Verification Verification
	Emails       *EmailService
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	OtpGenerator otp.Generator
	EmailSender  emailProvider.Sender
	// Enqueuer is required when email delivery runs through the queue.
	Enqueuer TaskEnqueuer
	Repos    *repository.Repositories
	Metrics  *metrics.Metrics
	// Clock defaults to time.Now in UTC.
	Clock func() time.Time
}

func NewServices(deps Deps) (*Services, error) {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	m := deps.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	emails := NewEmailService(deps.EmailSender, deps.Config.Email, deps.Config.Auth.CodeTTL)

	delivery, err := newCodeDelivery(deps.Config.Email.DeliveryMode, emails, deps.Enqueuer, deps.Config.Queue, m)
	if err != nil {
		return nil, fmt.Errorf("create code delivery failed: %w", err)
	}

	v := validator.New()

	return &Services{
		Users: newUserService(
			deps.Repos.Accounts,
			deps.Repos.VerificationCodes,
			deps.Repos.Transactor,
			deps.Hasher,
			v,
			m,
			clock,
		),
		Verification: newVerificationService(
			deps.Repos.Accounts,
			deps.Repos.VerificationCodes,
			deps.Repos.Transactor,
			deps.OtpGenerator,
			delivery,
			deps.Config.Auth,
			v,
			m,
			clock,
		),
		Emails: emails,
	}, nil
}

type Verification interface {
	// RequestCode issues a new code for the address and hands it to delivery.
	RequestCode(ctx context.Context, input SendCodeInput) error
}

type Users interface {
	CompleteRegistration(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, input LoginInput) (*domain.Account, error)
	GetOneByID(ctx context.Context, id int64) (*domain.Account, error)
}
