package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/domain"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/repository"
	"github.com/rubbishit/backend/pkg/logger"
	"github.com/rubbishit/backend/pkg/otp"
)

type verificationService struct {
	accountRepository repository.Accounts
	codeRepository    repository.VerificationCodes
	transactor        repository.Transactor
	otpGenerator      otp.Generator
	delivery          CodeDelivery
	authConfig        config.AuthConfig
	validate          *validator.Validate
	metrics           *metrics.Metrics
	now               func() time.Time
}

func newVerificationService(accountRepository repository.Accounts,
	codeRepository repository.VerificationCodes,
	transactor repository.Transactor,
	otpGenerator otp.Generator,
	delivery CodeDelivery,
	authConfig config.AuthConfig,
	validate *validator.Validate,
	metrics *metrics.Metrics,
	now func() time.Time,
) *verificationService {
	return &verificationService{
		accountRepository: accountRepository,
		codeRepository:    codeRepository,
		transactor:        transactor,
		otpGenerator:      otpGenerator,
		delivery:          delivery,
		authConfig:        authConfig,
		validate:          validate,
		metrics:           metrics,
		now:               now,
	}
}

func (s *verificationService) RequestCode(ctx context.Context, input SendCodeInput) error {
	input.normalize()
	if err := validateInput(s.validate, input); err != nil {
		s.metrics.CodeRequests.WithLabelValues("invalid").Inc()
		return err
	}

	issued, err := s.issue(ctx, input)
	if err != nil {
		s.metrics.CodeRequests.WithLabelValues(resultLabel(err)).Inc()
		return err
	}

	err = s.delivery.Deliver(ctx, VerificationDelivery{
		Email:     issued.Email,
		Code:      issued.Code,
		Username:  input.Username,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		logger.Error("verification code delivery failed",
			zap.String("email", issued.Email),
			zap.Int64("code_id", issued.ID),
			zap.Error(err))

		// The code was never sent, so it must not stay usable.
		if delErr := s.codeRepository.Delete(context.WithoutCancel(ctx), issued.ID); delErr != nil {
			logger.Error("delete undelivered verification code failed",
				zap.Int64("code_id", issued.ID),
				zap.Error(delErr))
		}

		s.metrics.CodeRequests.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.metrics.CodeRequests.WithLabelValues("sent").Inc()
	logger.Info("verification code issued", zap.String("email", issued.Email), zap.Int64("code_id", issued.ID))

	return nil
}

// issue runs the registration checks, the rate limit and the insert in one
// transaction. The rate limit window is anchored on expires_at.
func (s *verificationService) issue(ctx context.Context, input SendCodeInput) (*domain.VerificationCode, error) {
	now := s.now()

	var issued *domain.VerificationCode
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.accountRepository.GetVerifiedByEmail(ctx, input.Email)
		if err == nil {
			return ErrEmailAlreadyRegistered
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get verified account by email failed: %w", err)
		}

		account, err := s.accountRepository.GetByUsername(ctx, input.Username)
		switch {
		case err == nil && account.Verified:
			return ErrUsernameTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("get account by username failed: %w", err)
		}

		count, err := s.codeRepository.CountExpiringAfter(ctx, input.Email, now.Add(-s.authConfig.RateWindow))
		if err != nil {
			return fmt.Errorf("count recent verification codes failed: %w", err)
		}
		if count >= s.authConfig.MaxCodes {
			return ErrTooManyCodes
		}

		code, err := s.otpGenerator.Generate()
		if err != nil {
			return fmt.Errorf("generate verification code failed: %w", err)
		}

		issued = &domain.VerificationCode{
			Email:     input.Email,
			Code:      code,
			ExpiresAt: now.Add(s.authConfig.CodeTTL),
		}
		if err := s.codeRepository.Create(ctx, issued); err != nil {
			return fmt.Errorf("create verification code failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return issued, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrAuth):
		return "unauthorized"
	case errors.Is(err, ErrDelivery):
		return "delivery_failed"
	default:
		return "error"
	}
}
