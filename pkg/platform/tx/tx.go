// Package tx carries a SQL transaction through context so stores can join an
// in-flight transaction without changing their signatures. The submission
// write sequence (employer ref, report, contact, audit events) relies on this
// to stay atomic.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner executes a function within a transactional boundary. The SQL
// implementation opens a real transaction; in-memory stores use Noop.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner wraps a *sql.DB and runs fn inside BEGIN/COMMIT, rolling back on
// error or panic.
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	t, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = t.Rollback()
			panic(p)
		}
	}()
	if err = fn(WithTx(ctx, t)); err != nil {
		_ = t.Rollback()
		return err
	}
	if err = t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Noop runs fn without a transaction. Used with in-memory stores.
type Noop struct{}

func (Noop) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
