package repository

import (
	"context"
	"time"

	"github.com/rubbishit/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Accounts          Accounts
	VerificationCodes VerificationCodes
	Transactor        Transactor
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Accounts:          newAccountRepository(db),
		VerificationCodes: newVerificationCodeRepository(db),
		Transactor:        newTransactor(db),
	}
}

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Accounts interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// GetByEmail locks the matching row (or gap) when called inside a transaction.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetVerifiedByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type VerificationCodes interface {
	Create(ctx context.Context, code *domain.VerificationCode) error
	// CountExpiringAfter counts codes for email whose expires_at is after t.
	CountExpiringAfter(ctx context.Context, email string, t time.Time) (int, error)
	// GetNewestUsable returns the most recently issued unused code matching
	// email and code that has not expired at now.
	GetNewestUsable(ctx context.Context, email string, code string, now time.Time) (*domain.VerificationCode, error)
	MarkUsed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
