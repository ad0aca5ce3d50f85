package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "memento/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// Runner executes fn inside a unit of work. Stores called with the ctx passed
// to fn participate in the same transaction.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs units of work in a database/sql transaction.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	// Nested call: join the outer transaction.
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// LocalRunner serializes units of work in-process. It backs the in-memory
// stores, which have no rollback; callers order writes so the first one is the
// conditional guard.
type LocalRunner struct {
	mu sync.Mutex
}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

func (r *LocalRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if inLocal(ctx) {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(context.WithValue(ctx, localKey{}, true))
}

type localKey struct{}

func inLocal(ctx context.Context) bool {
	v, _ := ctx.Value(localKey{}).(bool)
	return v
}
