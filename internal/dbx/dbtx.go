// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and post-commit hooks.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type hooksKey struct{}

type hooks struct {
	fns []func()
}

// OnCommit registers fn to run after the transaction carried by ctx commits.
// Hooks are dropped on rollback. Outside of WithTx, fn runs immediately.
func OnCommit(ctx context.Context, fn func()) {
	h, ok := ctx.Value(hooksKey{}).(*hooks)
	if !ok {
		fn()
		return
	}
	h.fns = append(h.fns, fn)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
// Hooks registered with OnCommit run in registration order once the commit
// succeeds.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    dbx.OnCommit(ctx, func() { feed.Publish(change) })
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	h := &hooks{}
	ctx = context.WithValue(ctx, hooksKey{}, h)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			return
		}
		for _, f := range h.fns {
			f()
		}
	}()

	err = fn(ctx, tx)
	return err
}
