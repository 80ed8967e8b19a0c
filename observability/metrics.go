// CLAUDE:SUMMARY SQLite-native scan metrics: buffered timeseries writer, filtered query, per-name totals, retention cleanup.
// CLAUDE:DEPENDS observability/schema.go, dbopen
// CLAUDE:EXPORTS Metric, MetricsManager, NewMetricsManager, Filter, Total, OpenManager
// Package observability records sanitizer metrics (scan latency, input
// size, threats removed per section, failures per kind) as a timeseries in
// SQLite, next to or apart from the run journal.
//
// Persistence is async: Record only appends to a buffer that is flushed in
// one transaction when full, on a timer and on Close.
package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/docbleach/dbopen"
)

// Metric is a single timeseries datapoint.
type Metric struct {
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Unit      string            `json:"unit"`
}

// MetricsManager buffers metrics and flushes them to SQLite in batches.
type MetricsManager struct {
	db            *sql.DB
	ownDB         bool
	logger        *slog.Logger
	bufferSize    int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []*Metric

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMetricsManager applies the schema and starts the flush loop.
// Defaults: bufferSize 100, flushInterval 5s.
func NewMetricsManager(db *sql.DB, bufferSize int, flushInterval time.Duration, logger *slog.Logger) (*MetricsManager, error) {
	if err := Init(db); err != nil {
		return nil, fmt.Errorf("observability: init schema: %w", err)
	}
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	mm := &MetricsManager{
		db:            db,
		logger:        logger,
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		buffer:        make([]*Metric, 0, bufferSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go mm.flushLoop()
	return mm, nil
}

// OpenManager opens (or creates) a dedicated metrics database at path.
// Close also closes that database.
func OpenManager(path string, bufferSize int, flushInterval time.Duration, logger *slog.Logger, opts ...dbopen.Option) (*MetricsManager, error) {
	db, err := dbopen.Open(path, append([]dbopen.Option{dbopen.WithMkdirAll()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("observability: open %s: %w", path, err)
	}
	mm, err := NewMetricsManager(db, bufferSize, flushInterval, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	mm.ownDB = true
	return mm, nil
}

// Record queues a metric for async persistence.
func (mm *MetricsManager) Record(m *Metric) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.buffer = append(mm.buffer, m)
	if len(mm.buffer) >= mm.bufferSize {
		mm.flushLocked()
	}
}

// Flush writes the buffered metrics now.
func (mm *MetricsManager) Flush() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.flushLocked()
}

// Filter selects metrics. Zero values mean unbounded.
type Filter struct {
	Name  string
	Since time.Time
	Until time.Time
	Limit int
}

// Query returns metrics matching f, newest first.
func (mm *MetricsManager) Query(ctx context.Context, f Filter) ([]Metric, error) {
	q, args := where("SELECT metric_name, timestamp, value, labels, unit FROM metrics_timeseries", f)
	q += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := mm.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	out := []Metric{}
	for rows.Next() {
		var (
			m          Metric
			ts         int64
			labelsJSON sql.NullString
			unit       sql.NullString
		)
		if err := rows.Scan(&m.Name, &ts, &m.Value, &labelsJSON, &unit); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m.Timestamp = time.Unix(ts, 0)
		m.Unit = unit.String
		if labelsJSON.Valid {
			json.Unmarshal([]byte(labelsJSON.String), &m.Labels)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Total is the aggregate of one metric name.
type Total struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Max   float64 `json:"max"`
}

// Totals aggregates metrics matching f per name, sorted by name.
func (mm *MetricsManager) Totals(ctx context.Context, f Filter) ([]Total, error) {
	q, args := where("SELECT metric_name, COUNT(*), SUM(value), MAX(value) FROM metrics_timeseries", f)
	q += " GROUP BY metric_name ORDER BY metric_name"

	rows, err := mm.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	out := []Total{}
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Name, &t.Count, &t.Sum, &t.Max); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func where(base string, f Filter) (string, []any) {
	q := base + " WHERE 1=1"
	var args []any
	if f.Name != "" {
		q += " AND metric_name = ?"
		args = append(args, f.Name)
	}
	if !f.Since.IsZero() {
		q += " AND timestamp >= ?"
		args = append(args, f.Since.Unix())
	}
	if !f.Until.IsZero() {
		q += " AND timestamp <= ?"
		args = append(args, f.Until.Unix())
	}
	return q, args
}

// Cleanup deletes metrics older than retentionDays and returns the count removed.
func (mm *MetricsManager) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -retentionDays).Unix()
	res, err := mm.db.ExecContext(ctx, "DELETE FROM metrics_timeseries WHERE timestamp < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup metrics: %w", err)
	}
	return res.RowsAffected()
}

// Close flushes remaining metrics and stops the flush loop. It is safe to
// call more than once.
func (mm *MetricsManager) Close() error {
	var err error
	mm.closeOnce.Do(func() {
		close(mm.stop)
		<-mm.done
		if mm.ownDB {
			err = mm.db.Close()
		}
	})
	return err
}

func (mm *MetricsManager) flushLoop() {
	defer close(mm.done)
	ticker := time.NewTicker(mm.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-mm.stop:
			mm.Flush()
			return
		case <-ticker.C:
			mm.Flush()
		}
	}
}

func (mm *MetricsManager) flushLocked() {
	if len(mm.buffer) == 0 {
		return
	}
	batch := mm.buffer
	mm.buffer = make([]*Metric, 0, mm.bufferSize)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := dbopen.RunTx(ctx, mm.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO metrics_timeseries (metric_name, timestamp, value, labels, unit) VALUES (?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range batch {
			var labelsJSON sql.NullString
			if len(m.Labels) > 0 {
				if b, err := json.Marshal(m.Labels); err == nil {
					labelsJSON = sql.NullString{String: string(b), Valid: true}
				}
			}
			if _, err := stmt.ExecContext(ctx, m.Name, m.Timestamp.Unix(), m.Value, labelsJSON, m.Unit); err != nil {
				return fmt.Errorf("insert %s: %w", m.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		mm.logger.Error("metrics flush failed", "error", err, "dropped", len(batch))
	}
}
