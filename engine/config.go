// CLAUDE:SUMMARY YAML configuration of the sanitizer service: size limit, enabled formats, per-format switches, journal, listen address.
package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/docbleach/htmlbleach"
	"github.com/hazyhaar/docbleach/pdfbleach"
)

// Config holds the full docbleach configuration.
type Config struct {
	Listen     string            `yaml:"listen"`
	MaxInputMB int               `yaml:"max_input_mb"`
	Formats    []string          `yaml:"formats"` // probe order: pdf, html
	PDF        pdfbleach.Config  `yaml:"pdf"`
	HTML       htmlbleach.Config `yaml:"html"`
	Journal    JournalConfig     `yaml:"journal"`
	MCP        MCPConfig         `yaml:"mcp"`
	Metrics    MetricsConfig     `yaml:"metrics"`
	TraceSQL   bool              `yaml:"trace_sql"` // log every store statement
}

// MetricsConfig configures scan metrics.
type MetricsConfig struct {
	Prometheus    bool   `yaml:"prometheus"` // in-memory counters served at /metrics
	Enabled       bool   `yaml:"enabled"`    // SQLite timeseries
	DBPath        string `yaml:"db_path"`
	FlushSeconds  int    `yaml:"flush_seconds"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps everything
}

// MCPConfig configures the MCP tool surface.
type MCPConfig struct {
	// Root confines tool file paths below this directory. Empty means the
	// tools accept any path the process can reach.
	Root string `yaml:"root"`
}

// JournalConfig configures the run journal.
type JournalConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps everything
}

// DefaultConfig returns sane defaults: PDF only, no journal.
func DefaultConfig() *Config {
	return &Config{
		Listen:     ":8086",
		MaxInputMB: 100,
		Formats:    []string{"pdf"},
		PDF: pdfbleach.Config{
			MaxEmbeddedDepth: 4,
		},
		HTML: htmlbleach.Config{Policy: "none"},
		Journal: JournalConfig{
			DBPath: "docbleach.db",
		},
		Metrics: MetricsConfig{
			Prometheus:   true,
			DBPath:       "docbleach-metrics.db",
			FlushSeconds: 5,
		},
	}
}

// LoadConfig reads a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.MaxInputMB <= 0 {
		return fmt.Errorf("max_input_mb must be > 0")
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("formats must list at least one format")
	}
	seen := map[string]bool{}
	for _, f := range c.Formats {
		switch f {
		case "pdf", "html":
		default:
			return fmt.Errorf("unsupported format %q (use pdf or html)", f)
		}
		if seen[f] {
			return fmt.Errorf("format %q listed twice", f)
		}
		seen[f] = true
	}
	if c.PDF.MaxEmbeddedDepth < 0 {
		return fmt.Errorf("pdf.max_embedded_depth must be >= 0")
	}
	if err := c.HTML.Validate(); err != nil {
		return err
	}
	if c.MCP.Root != "" {
		if fi, err := os.Stat(c.MCP.Root); err != nil || !fi.IsDir() {
			return fmt.Errorf("mcp.root %q must be an existing directory", c.MCP.Root)
		}
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required when the journal is enabled")
	}
	if c.Metrics.Enabled && c.Metrics.DBPath == "" {
		return fmt.Errorf("metrics.db_path is required when metrics are enabled")
	}
	if c.Journal.RetentionDays < 0 || c.Metrics.RetentionDays < 0 {
		return fmt.Errorf("retention_days must be >= 0")
	}
	return nil
}

// MaxInputBytes returns the input size limit in bytes.
func (c *Config) MaxInputBytes() int64 { return int64(c.MaxInputMB) * 1024 * 1024 }
