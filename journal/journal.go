// CLAUDE:SUMMARY SQLite journal of sanitization runs; implements bleach.Recorder and lists recent verdicts.
// CLAUDE:DEPENDS dbopen, idgen, bleach/pipeline.go
// CLAUDE:EXPORTS Journal, Entry, Open, New
// Package journal persists one row per sanitization run: what was
// submitted (name, digest, size), what was found and how it ended.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/docbleach/bleach"
	"github.com/hazyhaar/docbleach/dbopen"
	"github.com/hazyhaar/docbleach/idgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS sanitize_runs (
	id           TEXT PRIMARY KEY,
	request_id   TEXT NOT NULL DEFAULT '',
	name         TEXT NOT NULL,
	sha256       TEXT NOT NULL,
	size         INTEGER NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	modified     INTEGER NOT NULL DEFAULT 0,
	threat_count INTEGER NOT NULL DEFAULT 0,
	threats      TEXT NOT NULL DEFAULT '[]',
	error        TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sanitize_runs_created ON sanitize_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_sanitize_runs_sha256 ON sanitize_runs(sha256);
`

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("journal: run not found")

// Entry is one journal row.
type Entry struct {
	ID          string          `json:"id"`
	RequestID   string          `json:"request_id,omitempty"`
	Name        string          `json:"name"`
	SHA256      string          `json:"sha256"`
	Size        int64           `json:"size"`
	ContentType string          `json:"content_type,omitempty"`
	Modified    bool            `json:"modified"`
	ThreatCount int             `json:"threat_count"`
	Threats     []bleach.Threat `json:"threats"`
	Error       string          `json:"error,omitempty"`
	Duration    time.Duration   `json:"duration"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Journal is a bleach.Recorder backed by SQLite. Safe for concurrent use.
type Journal struct {
	db    *sql.DB
	newID idgen.Generator
	now   func() time.Time
}

// Open opens (creating if needed) the journal database at path. Extra
// options (e.g. a tracing driver) are applied after the defaults.
func Open(path string, opts ...dbopen.Option) (*Journal, error) {
	opts = append([]dbopen.Option{dbopen.WithMkdirAll(), dbopen.WithSchema(schema)}, opts...)
	db, err := dbopen.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return &Journal{db: db, newID: idgen.RunID, now: time.Now}, nil
}

// New wraps an already opened database and applies the schema.
func New(db *sql.DB) (*Journal, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("journal: schema: %w", err)
	}
	return &Journal{db: db, newID: idgen.RunID, now: time.Now}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// Record inserts one run.
func (j *Journal) Record(ctx context.Context, run bleach.Run) error {
	var (
		contentType string
		modified    bool
		threats     = []bleach.Threat{}
	)
	if run.Result != nil {
		contentType = run.Result.ContentType
		modified = run.Result.ModifiedContent
		if run.Result.Threats != nil {
			threats = run.Result.Threats
		}
	}
	payload, err := json.Marshal(threats)
	if err != nil {
		return fmt.Errorf("journal: marshal threats: %w", err)
	}
	var errText string
	if run.Err != nil {
		errText = run.Err.Error()
	}

	_, err = dbopen.Exec(ctx, j.db, `
		INSERT INTO sanitize_runs
			(id, request_id, name, sha256, size, content_type, modified,
			 threat_count, threats, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.newID(), run.RequestID, run.Name, run.SHA256, run.Size, contentType, modified,
		len(threats), string(payload), errText, run.Duration.Milliseconds(), j.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("journal: insert run: %w", err)
	}
	return nil
}

const selectColumns = `id, request_id, name, sha256, size, content_type, modified,
	threat_count, threats, error, duration_ms, created_at`

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM sanitize_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the run with the given id.
func (j *Journal) Get(ctx context.Context, id string) (*Entry, error) {
	id, err := idgen.ParseRunID(id)
	if err != nil {
		return nil, err
	}
	row := j.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sanitize_runs WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Prune deletes runs older than before and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := dbopen.Exec(ctx, j.db, `DELETE FROM sanitize_runs WHERE created_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("journal: prune: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		threats   string
		duration  int64
		createdAt int64
	)
	err := s.Scan(&e.ID, &e.RequestID, &e.Name, &e.SHA256, &e.Size, &e.ContentType, &e.Modified,
		&e.ThreatCount, &threats, &e.Error, &duration, &createdAt)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal([]byte(threats), &e.Threats); err != nil {
		return e, fmt.Errorf("journal: decode threats of %s: %w", e.ID, err)
	}
	e.Duration = time.Duration(duration) * time.Millisecond
	e.CreatedAt = time.UnixMilli(createdAt)
	return e, nil
}
