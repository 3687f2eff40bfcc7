package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubbishit/backend/internal/domain"
)

func TestVerificationCodeRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)
	expires := time.Date(2026, 1, 1, 12, 10, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO verification_codes`).
		WithArgs("a@x.com", "4821", expires, false).
		WillReturnResult(sqlmock.NewResult(11, 1))

	vc := &domain.VerificationCode{Email: "a@x.com", Code: "4821", ExpiresAt: expires}
	require.NoError(t, repo.Create(context.Background(), vc))
	assert.Equal(t, int64(11), vc.ID)
}

func TestVerificationCodeRepository_CountExpiringAfter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)
	since := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM verification_codes WHERE email = \? AND expires_at > \?$`).
		WithArgs("a@x.com", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountExpiringAfter(context.Background(), "a@x.com", since)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestVerificationCodeRepository_CountLocksInsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)
	tr := newTransactor(db)
	since := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM verification_codes WHERE email = \? AND expires_at > \? FOR UPDATE`).
		WithArgs("a@x.com", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		n, err := repo.CountExpiringAfter(ctx, "a@x.com", since)
		assert.Zero(t, n)
		return err
	})
	require.NoError(t, err)
}

func TestVerificationCodeRepository_GetNewestUsable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE email = \? AND code = \? AND used = FALSE AND expires_at > \?\s+ORDER BY id DESC\s+LIMIT 1`).
		WithArgs("a@x.com", "4821", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "code", "expires_at", "used"}).
			AddRow(5, "a@x.com", "4821", now.Add(5*time.Minute), false))

	vc, err := repo.GetNewestUsable(context.Background(), "a@x.com", "4821", now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), vc.ID)
	assert.True(t, vc.Usable(now))
}

func TestVerificationCodeRepository_GetNewestUsableNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)

	mock.ExpectQuery(`FROM verification_codes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "code", "expires_at", "used"}))

	_, err := repo.GetNewestUsable(context.Background(), "a@x.com", "0000", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationCodeRepository_MarkUsed(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "marked", rows: 1},
		{name: "already used", rows: 0, wantErr: domain.ErrNoRowsAffected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := newVerificationCodeRepository(db)

			mock.ExpectExec(`UPDATE verification_codes SET used = TRUE WHERE id = \? AND used = FALSE`).
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.MarkUsed(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVerificationCodeRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newVerificationCodeRepository(db)

	mock.ExpectExec(`DELETE FROM verification_codes WHERE id = \?`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 9))
}
