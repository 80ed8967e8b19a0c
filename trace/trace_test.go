package trace

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/hazyhaar/docbleach/kit"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if json.Unmarshal([]byte(line), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	SetLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return buf
}

func openTraced(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDriverRegistered(t *testing.T) {
	for _, d := range sql.Drivers() {
		if d == DriverName {
			return
		}
	}
	t.Fatalf("%s driver not registered", DriverName)
}

func TestTracingDriver_LogsStatements(t *testing.T) {
	// WHAT: Every Exec and Query through the driver produces one log line
	// carrying the request id of the context.
	// WHY: Slow journal writes must be traceable to the request behind them.
	logs := captureLogs(t)
	db := openTraced(t)
	ctx := kit.WithRequestID(context.Background(), "req_abc")

	if _, err := db.ExecContext(ctx, "CREATE TABLE runs (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO runs VALUES (?)", 7); err != nil {
		t.Fatal(err)
	}
	var v int
	if err := db.QueryRowContext(ctx, "SELECT id FROM runs").Scan(&v); err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Fatalf("value = %d", v)
	}

	var ops []string
	for _, l := range logs.lines() {
		if l["component"] != "sql" {
			continue
		}
		ops = append(ops, l["op"].(string))
		if l["request_id"] != "req_abc" {
			t.Errorf("request_id = %v in %v", l["request_id"], l)
		}
	}
	if strings.Join(ops, ",") != "Exec,Exec,Query" {
		t.Errorf("ops = %v", ops)
	}
}

func TestTracingDriver_ErrorLevel(t *testing.T) {
	logs := captureLogs(t)
	db := openTraced(t)

	if _, err := db.Exec("INSERT INTO missing VALUES (1)"); err == nil {
		t.Fatal("expected error")
	}
	for _, l := range logs.lines() {
		if l["component"] == "sql" && l["level"] == "ERROR" && l["error"] != nil {
			return
		}
	}
	t.Errorf("no error trace in %v", logs.lines())
}

func TestTracingDriver_Transaction(t *testing.T) {
	// WHAT: Transactions work through the wrapped connection.
	captureLogs(t)
	db := openTraced(t)
	if _, err := db.Exec("CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatal(err)
	}
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Exec("INSERT INTO t VALUES ('a')"); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	var n int
	db.QueryRow("SELECT COUNT(*) FROM t").Scan(&n)
	if n != 1 {
		t.Errorf("rows = %d", n)
	}
}

func TestCompact(t *testing.T) {
	got := compact("SELECT id,\n\t\tname\n  FROM runs")
	if got != "SELECT id, name FROM runs" {
		t.Errorf("compact = %q", got)
	}
}
