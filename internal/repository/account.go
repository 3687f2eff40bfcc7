package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rubbishit/backend/internal/db"
	"github.com/rubbishit/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

const accountColumns = "id, username, email, password_hash, verified, created_at"

type accountRepository struct {
	db *sqlx.DB
}

func newAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const op = "repository.account.Create"

	const query = `
	INSERT INTO accounts (username, email, password_hash, verified)
	VALUES (?, ?, ?, ?)
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Verified,
	)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert account failed: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: get last insert id failed: %w", op, err)
	}
	account.ID = id

	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const op = "repository.account.Update"

	const query = `
	UPDATE accounts SET username = ?, password_hash = ?, verified = ? WHERE id = ?
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Verified,
		account.ID,
	)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: update account failed: %w", op, err)
	}

	// MySQL reports 0 affected rows when nothing changed, so only the
	// error path is meaningful here.
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return nil
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	const op = "repository.account.UpdatePasswordHash"

	const query = `UPDATE accounts SET password_hash = ? WHERE id = ?`

	if _, err := executor(ctx, r.db).ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("%s: update password hash failed: %w", op, err)
	}

	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	return r.getOne(ctx, "repository.account.GetByID", query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	if _, ok := txFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	return r.getOne(ctx, "repository.account.GetByEmail", query, email)
}

func (r *accountRepository) GetVerifiedByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = ? AND verified = TRUE`

	return r.getOne(ctx, "repository.account.GetVerifiedByEmail", query, email)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`

	return r.getOne(ctx, "repository.account.GetByUsername", query, username)
}

func (r *accountRepository) getOne(ctx context.Context, op string, query string, args ...interface{}) (*domain.Account, error) {
	var account domain.Account
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &account, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select account failed: %w", op, err)
	}

	return &account, nil
}
