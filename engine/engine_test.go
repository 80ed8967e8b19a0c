package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/docbleach/observability"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docbleach.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MergesDefaults(t *testing.T) {
	// WHAT: Keys absent from the file keep their defaults.
	path := writeConfig(t, `
formats: [html, pdf]
pdf:
  scan_nested_outlines: true
html:
  policy: ugc
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxInputMB != 100 || cfg.Listen != ":8086" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if !cfg.PDF.ScanNestedOutlines || cfg.PDF.MaxEmbeddedDepth != 4 {
		t.Errorf("pdf = %+v", cfg.PDF)
	}
	if cfg.HTML.Policy != "ugc" || cfg.Formats[0] != "html" {
		t.Errorf("html/formats = %+v %v", cfg.HTML, cfg.Formats)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want string
	}{
		{"size", func(c *Config) { c.MaxInputMB = 0 }, "max_input_mb"},
		{"no formats", func(c *Config) { c.Formats = nil }, "formats"},
		{"unknown format", func(c *Config) { c.Formats = []string{"docx"} }, "unsupported format"},
		{"duplicate", func(c *Config) { c.Formats = []string{"pdf", "pdf"} }, "twice"},
		{"depth", func(c *Config) { c.PDF.MaxEmbeddedDepth = -1 }, "max_embedded_depth"},
		{"policy", func(c *Config) { c.HTML.Policy = "lax" }, "policy"},
		{"journal", func(c *Config) { c.Journal = JournalConfig{Enabled: true} }, "db_path"},
		{"metrics", func(c *Config) { c.Metrics = MetricsConfig{Enabled: true} }, "metrics.db_path"},
		{"retention", func(c *Config) { c.Journal.RetentionDays = -1 }, "retention_days"},
		{"mcp root", func(c *Config) { c.MCP.Root = "/nonexistent/docbleach-root" }, "mcp.root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestBuild_ScannerOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formats = []string{"html", "pdf"}
	e, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	got := e.Pipeline.Scanners()
	if len(got) != 2 || got[0] != "html" || got[1] != "pdf" {
		t.Errorf("scanners = %v", got)
	}
	if e.Journal != nil {
		t.Error("journal must be disabled by default")
	}
}

func TestBuild_WithJournal(t *testing.T) {
	// WHAT: An enabled journal records every pipeline run.
	cfg := DefaultConfig()
	cfg.Journal = JournalConfig{Enabled: true, DBPath: filepath.Join(t.TempDir(), "j", "runs.db")}
	e, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	var out bytes.Buffer
	if _, err := e.Pipeline.Scan(context.Background(), "plain.txt", strings.NewReader("plain"), &out, nil); err != nil {
		t.Fatal(err)
	}
	runs, err := e.Journal.Recent(context.Background(), 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
}

func TestBuild_JournalAndMetrics(t *testing.T) {
	// WHAT: With both stores enabled, one run lands in the journal and in metrics.
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Formats = []string{"html"}
	cfg.Journal = JournalConfig{Enabled: true, DBPath: filepath.Join(dir, "runs.db")}
	cfg.Metrics = MetricsConfig{Enabled: true, DBPath: filepath.Join(dir, "metrics.db"), FlushSeconds: 3600}
	e, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	ctx := context.Background()
	var out bytes.Buffer
	if _, err := e.Pipeline.Scan(ctx, "p.html", strings.NewReader(`<html><script>x()</script></html>`), &out, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := e.Journal.Recent(ctx, 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
	e.Metrics.Flush()
	got, err := e.Metrics.Query(ctx, observability.Filter{Name: observability.MetricThreatsRemoved})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Value != 1 {
		t.Errorf("threats metric = %+v", got)
	}
}

func TestPrune(t *testing.T) {
	// WHAT: Prune drops metrics older than the retention window.
	cfg := DefaultConfig()
	cfg.Metrics = MetricsConfig{Enabled: true, DBPath: filepath.Join(t.TempDir(), "m.db"), FlushSeconds: 3600, RetentionDays: 7}
	e, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	ctx := context.Background()
	e.Metrics.Record(&observability.Metric{Name: "old", Timestamp: time.Now().AddDate(0, 0, -30), Value: 1})
	e.Metrics.Record(&observability.Metric{Name: "new", Value: 1})
	e.Metrics.Flush()

	if err := e.Prune(ctx); err != nil {
		t.Fatal(err)
	}
	left, err := e.Metrics.Query(ctx, observability.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Name != "new" {
		t.Errorf("left = %+v", left)
	}
}

func TestBuild_TraceSQL(t *testing.T) {
	// WHAT: trace_sql routes the journal through the tracing driver without
	// changing behaviour.
	cfg := DefaultConfig()
	cfg.TraceSQL = true
	cfg.Journal = JournalConfig{Enabled: true, DBPath: filepath.Join(t.TempDir(), "runs.db")}
	e, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	var out bytes.Buffer
	if _, err := e.Pipeline.Scan(context.Background(), "a.txt", strings.NewReader("a"), &out, nil); err != nil {
		t.Fatal(err)
	}
	runs, err := e.Journal.Recent(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
}
