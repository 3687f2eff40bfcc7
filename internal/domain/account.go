package domain

import "time"

type Account struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Verified     bool      `db:"verified" json:"verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
