// CLAUDE:SUMMARY Assembles the pipeline from Config: scanners in configured order, size limit, journal and metrics recorders, retention loop.
// CLAUDE:DEPENDS engine/config.go, bleach, pdfbleach, htmlbleach, journal, observability, trace
// CLAUDE:EXPORTS Engine, Build
// Package engine wires configuration into a ready-to-use sanitization
// pipeline shared by the CLI, the HTTP API and the MCP server.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hazyhaar/docbleach/bleach"
	"github.com/hazyhaar/docbleach/dbopen"
	"github.com/hazyhaar/docbleach/htmlbleach"
	"github.com/hazyhaar/docbleach/journal"
	"github.com/hazyhaar/docbleach/observability"
	"github.com/hazyhaar/docbleach/pdfbleach"
	"github.com/hazyhaar/docbleach/trace"
)

// Engine is a configured pipeline plus the resources it owns.
type Engine struct {
	Pipeline *bleach.Pipeline
	Journal  *journal.Journal              // nil when disabled
	Metrics  *observability.MetricsManager // nil when disabled
	Prom     *observability.PromRecorder   // nil when disabled
	Config   *Config

	logger *slog.Logger
}

// Build validates cfg and assembles the engine. Close releases the stores.
func Build(cfg *Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{Config: cfg, logger: logger}
	var dbOpts []dbopen.Option
	if cfg.TraceSQL {
		trace.SetLogger(logger)
		dbOpts = append(dbOpts, dbopen.WithDriver(trace.DriverName))
	}

	var recorders bleach.Recorders
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.DBPath, dbOpts...)
		if err != nil {
			return nil, err
		}
		e.Journal = j
		recorders = append(recorders, j)
	}
	if cfg.Metrics.Enabled {
		flush := time.Duration(cfg.Metrics.FlushSeconds) * time.Second
		mm, err := observability.OpenManager(cfg.Metrics.DBPath, 100, flush, logger.With("component", "metrics"), dbOpts...)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.Metrics = mm
		recorders = append(recorders, observability.NewScanRecorder(mm))
	}

	if cfg.Metrics.Prometheus {
		e.Prom = observability.NewPromRecorder()
		recorders = append(recorders, e.Prom)
	}

	pcfg := bleach.Config{
		MaxInputSize: cfg.MaxInputBytes(),
		Logger:       logger,
	}
	switch len(recorders) {
	case 0:
	case 1:
		pcfg.Recorder = recorders[0]
	default:
		pcfg.Recorder = recorders
	}

	var scanners []bleach.Scanner
	for _, f := range cfg.Formats {
		switch f {
		case "pdf":
			c := cfg.PDF
			c.Logger = logger.With("scanner", "pdf")
			scanners = append(scanners, pdfbleach.New(c))
		case "html":
			c := cfg.HTML
			c.Logger = logger.With("scanner", "html")
			scanners = append(scanners, htmlbleach.New(c))
		}
	}
	e.Pipeline = bleach.NewPipeline(pcfg, scanners...)

	logger.Info("engine ready",
		"scanners", e.Pipeline.Scanners(),
		"max_input_mb", cfg.MaxInputMB,
		"journal", cfg.Journal.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)
	return e, nil
}

// Prune applies the configured retention once.
func (e *Engine) Prune(ctx context.Context) error {
	var errs []error
	if e.Journal != nil && e.Config.Journal.RetentionDays > 0 {
		before := time.Now().AddDate(0, 0, -e.Config.Journal.RetentionDays)
		n, err := e.Journal.Prune(ctx, before)
		if err != nil {
			errs = append(errs, err)
		} else if n > 0 {
			e.logger.Info("journal pruned", "runs", n)
		}
	}
	if e.Metrics != nil && e.Config.Metrics.RetentionDays > 0 {
		n, err := e.Metrics.Cleanup(ctx, e.Config.Metrics.RetentionDays)
		if err != nil {
			errs = append(errs, err)
		} else if n > 0 {
			e.logger.Info("metrics pruned", "datapoints", n)
		}
	}
	return errors.Join(errs...)
}

// RunRetention calls Prune now and then every interval until ctx is done.
func (e *Engine) RunRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := e.Prune(ctx); err != nil {
			e.logger.Warn("retention failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close releases resources owned by the engine.
func (e *Engine) Close() error {
	var errs []error
	if e.Metrics != nil {
		errs = append(errs, e.Metrics.Close())
	}
	if e.Journal != nil {
		errs = append(errs, e.Journal.Close())
	}
	return errors.Join(errs...)
}
