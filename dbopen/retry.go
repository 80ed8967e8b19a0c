// CLAUDE:SUMMARY Transaction and exec helpers that retry on SQLITE_BUSY with linear backoff.
package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Attempts is how many times RunTx and Exec try before giving up on BUSY.
const Attempts = 3

// IsBusy reports whether err indicates an SQLite BUSY or locked condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"SQLITE_BUSY", "database is locked", "database table is locked"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// retry runs fn until it succeeds, fails with a non-BUSY error, the
// context ends or Attempts is reached. Waits 100, 200, 300 ms between tries.
func retry[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for i := range Attempts {
		if v, err = fn(); err == nil || !IsBusy(err) {
			return v, err
		}
		t := time.NewTimer(time.Duration(100*(i+1)) * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return v, fmt.Errorf("dbopen: %s: context done during retry: %w", op, ctx.Err())
		case <-t.C:
		}
	}
	return v, fmt.Errorf("dbopen: %s: still busy after %d attempts: %w", op, Attempts, err)
}

// RunTx executes fn inside a transaction, retrying the whole transaction
// while the database is busy. fn must be safe to run more than once.
func RunTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	_, err := retry(ctx, "tx", func() (struct{}, error) {
		return struct{}{}, runOnce(ctx, db, fn)
	})
	return err
}

func runOnce(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dbopen: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dbopen: commit: %w", err)
	}
	return nil
}

// Exec executes one statement with the same retry policy as RunTx.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	return retry(ctx, "exec", func() (sql.Result, error) {
		return db.ExecContext(ctx, query, args...)
	})
}
