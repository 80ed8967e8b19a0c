// CLAUDE:SUMMARY Registers the "sqlite-trace" driver: modernc.org/sqlite with every statement logged via slog, correlated by request id.
// CLAUDE:EXPORTS DriverName, TracingDriver, SetLogger, SlowQuery
// Package trace provides SQL tracing for the docbleach stores.
//
// It registers a "sqlite-trace" driver that wraps the standard "sqlite"
// driver and logs every Exec and Query through slog with adaptive levels:
// Debug normally, Warn above SlowQuery, Error on failure. Request and trace
// ids are read from the context so journal writes can be tied to the HTTP
// or MCP call that caused them.
//
//	db, _ := dbopen.Open("runs.db", dbopen.WithDriver(trace.DriverName))
package trace

import (
	"database/sql"
	"log/slog"
	"sync/atomic"
	"time"

	sqlite "modernc.org/sqlite"
)

// DriverName is the database/sql name of the tracing driver.
const DriverName = "sqlite-trace"

// SlowQuery is the duration above which a statement is logged at Warn.
const SlowQuery = 100 * time.Millisecond

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for SQL traces. nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func getLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func init() {
	sql.Register(DriverName, &TracingDriver{
		Driver: &sqlite.Driver{},
	})
}
