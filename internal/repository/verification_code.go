package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rubbishit/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

type verificationCodeRepository struct {
	db *sqlx.DB
}

func newVerificationCodeRepository(db *sqlx.DB) *verificationCodeRepository {
	return &verificationCodeRepository{
		db: db,
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	const op = "repository.verificationCode.Create"

	const query = `
	INSERT INTO verification_codes (email, code, expires_at, used)
	VALUES (?, ?, ?, ?)
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, code.Email, code.Code, code.ExpiresAt, code.Used)
	if err != nil {
		return fmt.Errorf("%s: insert verification code failed: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: get last insert id failed: %w", op, err)
	}
	code.ID = id

	return nil
}

func (r *verificationCodeRepository) CountExpiringAfter(ctx context.Context, email string, t time.Time) (int, error) {
	const op = "repository.verificationCode.CountExpiringAfter"

	query := `SELECT COUNT(*) FROM verification_codes WHERE email = ? AND expires_at > ?`
	if _, ok := txFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	var count int
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, email, t); err != nil {
		return 0, fmt.Errorf("%s: count verification codes failed: %w", op, err)
	}

	return count, nil
}

func (r *verificationCodeRepository) GetNewestUsable(ctx context.Context, email string, code string, now time.Time) (*domain.VerificationCode, error) {
	const op = "repository.verificationCode.GetNewestUsable"

	query := `
	SELECT id, email, code, expires_at, used
	FROM verification_codes
	WHERE email = ? AND code = ? AND used = FALSE AND expires_at > ?
	ORDER BY id DESC
	LIMIT 1`
	if _, ok := txFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	var vc domain.VerificationCode
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &vc, query, email, code, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification code failed: %w", op, err)
	}

	return &vc, nil
}

func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	const op = "repository.verificationCode.MarkUsed"

	const query = `UPDATE verification_codes SET used = TRUE WHERE id = ? AND used = FALSE`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: update verification code failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *verificationCodeRepository) Delete(ctx context.Context, id int64) error {
	const op = "repository.verificationCode.Delete"

	const query = `DELETE FROM verification_codes WHERE id = ?`

	if _, err := executor(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: delete verification code failed: %w", op, err)
	}

	return nil
}
