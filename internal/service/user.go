package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/domain"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/repository"
	"github.com/rubbishit/backend/pkg/hash"
	"github.com/rubbishit/backend/pkg/logger"
)

type userService struct {
	accountRepository repository.Accounts
	codeRepository    repository.VerificationCodes
	transactor        repository.Transactor
	hasher            hash.PasswordHasher
	validate          *validator.Validate
	metrics           *metrics.Metrics
	now               func() time.Time
}

func newUserService(accountRepository repository.Accounts,
	codeRepository repository.VerificationCodes,
	transactor repository.Transactor,
	hasher hash.PasswordHasher,
	validate *validator.Validate,
	metrics *metrics.Metrics,
	now func() time.Time,
) *userService {
	return &userService{
		accountRepository: accountRepository,
		codeRepository:    codeRepository,
		transactor:        transactor,
		hasher:            hasher,
		validate:          validate,
		metrics:           metrics,
		now:               now,
	}
}

// CompleteRegistration consumes a verification code and creates or
// overwrites the account for the email.
func (s *userService) CompleteRegistration(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	input.normalize()
	if err := validateInput(s.validate, input); err != nil {
		s.metrics.Registrations.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	now := s.now()

	var account *domain.Account
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		code, err := s.codeRepository.GetNewestUsable(ctx, input.Email, input.Code, now)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrInvalidCode
			}
			return fmt.Errorf("get verification code failed: %w", err)
		}

		if err := s.codeRepository.MarkUsed(ctx, code.ID); err != nil {
			if errors.Is(err, domain.ErrNoRowsAffected) {
				return ErrInvalidCode
			}
			return fmt.Errorf("mark verification code used failed: %w", err)
		}

		account, err = s.upsertAccount(ctx, input, passwordHash)
		return err
	})
	if err != nil {
		s.metrics.Registrations.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	s.metrics.Registrations.WithLabelValues("registered").Inc()
	logger.Info("account registered", zap.Int64("user_id", account.ID), zap.String("username", account.Username))

	return account, nil
}

func (s *userService) upsertAccount(ctx context.Context, input RegisterInput, passwordHash string) (*domain.Account, error) {
	account, err := s.accountRepository.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get account by email failed: %w", err)
	}

	if account == nil {
		account = &domain.Account{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: passwordHash,
			Verified:     true,
		}
		if err := s.accountRepository.Create(ctx, account); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				return nil, ErrUsernameTaken
			}
			return nil, fmt.Errorf("create account failed: %w", err)
		}
		return account, nil
	}

	account.Username = input.Username
	account.PasswordHash = passwordHash
	account.Verified = true
	if err := s.accountRepository.Update(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update account failed: %w", err)
	}

	return account, nil
}

func (s *userService) Login(ctx context.Context, input LoginInput) (*domain.Account, error) {
	input.normalize()

	account, err := s.accountRepository.GetVerifiedByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.Logins.WithLabelValues("not_registered").Inc()
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("get verified account by email failed: %w", err)
	}

	ok, err := s.hasher.Verify(input.Password, account.PasswordHash)
	if err != nil && !errors.Is(err, hash.ErrEmptyPassword) {
		return nil, fmt.Errorf("verify password failed: %w", err)
	}
	if !ok {
		s.metrics.Logins.WithLabelValues("wrong_password").Inc()
		return nil, ErrWrongPassword
	}

	if s.hasher.NeedsUpgrade(account.PasswordHash) {
		s.upgradePasswordHash(ctx, account, input.Password)
	}

	s.metrics.Logins.WithLabelValues("ok").Inc()

	return account, nil
}

// upgradePasswordHash rehashes a legacy digest. Failure keeps the old hash.
func (s *userService) upgradePasswordHash(ctx context.Context, account *domain.Account, password string) {
	upgraded, err := s.hasher.Hash(password)
	if err != nil {
		logger.Warn("rehash legacy password failed", zap.Int64("user_id", account.ID), zap.Error(err))
		return
	}

	if err := s.accountRepository.UpdatePasswordHash(ctx, account.ID, upgraded); err != nil {
		logger.Warn("store upgraded password hash failed", zap.Int64("user_id", account.ID), zap.Error(err))
		return
	}

	account.PasswordHash = upgraded
}

func (s *userService) GetOneByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accountRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get account by id failed: %w", err)
	}

	return account, nil
}
