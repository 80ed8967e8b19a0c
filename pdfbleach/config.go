// CLAUDE:SUMMARY PDF scanner configuration, including the two behaviour switches for known traversal limits.
package pdfbleach

import "log/slog"

// Config configures the PDF scanner.
type Config struct {
	// ScanNestedOutlines descends into outline children. By default only
	// first-level outline items are inspected.
	ScanNestedOutlines bool `json:"scan_nested_outlines" yaml:"scan_nested_outlines"`

	// ReportEmbeddedThreats merges threats found in embedded PDFs into the
	// outer result. By default they are logged and dropped; the cleaned
	// bytes are substituted either way.
	ReportEmbeddedThreats bool `json:"report_embedded_threats" yaml:"report_embedded_threats"`

	// MaxEmbeddedDepth bounds PDF-in-PDF recursion (default: 4). Deeper
	// embedded documents are removed.
	MaxEmbeddedDepth int `json:"max_embedded_depth" yaml:"max_embedded_depth"`

	// Validate runs pdfcpu's relaxed validator after parsing and rejects
	// documents that fail it.
	Validate bool `json:"validate" yaml:"validate"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxEmbeddedDepth <= 0 {
		c.MaxEmbeddedDepth = 4
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
