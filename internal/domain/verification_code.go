package domain

import "time"

// VerificationCode is a single issued code. Several may be outstanding for
// one email at a time.
type VerificationCode struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}

// Usable reports whether the code can still be consumed at now.
func (v *VerificationCode) Usable(now time.Time) bool {
	return !v.Used && now.Before(v.ExpiresAt)
}
