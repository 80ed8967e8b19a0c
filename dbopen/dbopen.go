// CLAUDE:SUMMARY Opens the docbleach SQLite stores with per-connection pragmas in the DSN, optional mkdir and schema bootstrap.
// Package dbopen opens the SQLite databases behind the run journal and the
// metrics store.
//
// Pragmas are passed as _pragma DSN parameters, so modernc.org/sqlite
// applies them to every pooled connection, not only the first one:
//
//	foreign_keys = ON
//	journal_mode = WAL
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	db, err := dbopen.Open("docbleach.db", dbopen.WithSchema(schema))
//
// In tests:
//
//	db := dbopen.OpenMemory(t)
package dbopen

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type config struct {
	driver       string
	busyTimeout  int
	synchronous  string
	mkdirAll     bool
	schemas      []string
	ping         bool
	maxOpenConns int
}

// Option customises Open behaviour.
type Option func(*config)

// WithDriver selects the database/sql driver (default "sqlite"). The
// tracing driver registers as "sqlite-trace".
func WithDriver(name string) Option { return func(c *config) { c.driver = name } }

// WithBusyTimeout sets busy_timeout in milliseconds (default 10000).
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets the synchronous pragma (default NORMAL).
func WithSynchronous(mode string) Option { return func(c *config) { c.synchronous = mode } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithSchema queues DDL to execute once the database is open.
func WithSchema(s string) Option { return func(c *config) { c.schemas = append(c.schemas, s) } }

// WithoutPing skips the connectivity check after opening.
func WithoutPing() Option { return func(c *config) { c.ping = false } }

// WithMaxOpenConns caps the pool. 0 leaves database/sql's default.
func WithMaxOpenConns(n int) Option { return func(c *config) { c.maxOpenConns = n } }

// DSN returns path with the pragma parameters appended.
func DSN(path string, opts ...Option) string {
	cfg := build(opts)
	return dsn(path, &cfg)
}

func build(opts []Option) config {
	cfg := config{
		driver:      "sqlite",
		busyTimeout: 10_000,
		synchronous: "NORMAL",
		ping:        true,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func dsn(path string, cfg *config) string {
	q := url.Values{}
	for _, p := range []string{
		"foreign_keys(1)",
		"journal_mode(WAL)",
		fmt.Sprintf("busy_timeout(%d)", cfg.busyTimeout),
		fmt.Sprintf("synchronous(%s)", cfg.synchronous),
	} {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Open opens an SQLite database at path. The caller must blank-import the
// driver (modernc.org/sqlite registers "sqlite").
func Open(path string, opts ...Option) (*sql.DB, error) {
	cfg := build(opts)

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("dbopen: mkdir: %w", err)
		}
	}

	db, err := sql.Open(cfg.driver, dsn(path, &cfg))
	if err != nil {
		return nil, fmt.Errorf("dbopen: open: %w", err)
	}
	if cfg.maxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.maxOpenConns)
	}

	if cfg.ping {
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: ping: %w", err)
		}
	}
	for _, s := range cfg.schemas {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: exec schema: %w", err)
		}
	}
	return db, nil
}

// OpenMemory opens an in-memory database for tests. The pool holds a single
// connection so every query sees the same database; t.Cleanup closes it.
func OpenMemory(t testing.TB, opts ...Option) *sql.DB {
	t.Helper()
	db, err := Open(":memory:", append([]Option{WithMaxOpenConns(1)}, opts...)...)
	if err != nil {
		t.Fatalf("dbopen.OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
