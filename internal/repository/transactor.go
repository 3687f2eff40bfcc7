package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rubbishit/backend/internal/db"
)

type txCtxKey struct{}

type transactor struct {
	db *sqlx.DB
}

func newTransactor(db *sqlx.DB) *transactor {
	return &transactor{
		db: db,
	}
}

// WithinTransaction runs fn in a transaction carried by ctx. Nested calls
// join the outer transaction. A deadlock victim is retried once from the start.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	err := t.run(ctx, fn)
	if db.IsDeadlock(err) {
		err = t.run(ctx, fn)
	}
	return err
}

func (t *transactor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}

	return nil
}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx)
	return tx, ok
}

// executor returns the transaction bound to ctx, or db outside of one.
func executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}
