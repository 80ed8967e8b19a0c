// CLAUDE:SUMMARY Pipeline configuration and defaults (size guard, logger, run recorder).
package bleach

import "log/slog"

// Config configures a Pipeline.
type Config struct {
	// MaxInputSize is the maximum number of input bytes accepted (default: 100 MB).
	MaxInputSize int64

	// Recorder, when set, receives one Run per Scan call.
	Recorder Recorder

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxInputSize <= 0 {
		c.MaxInputSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
