// CLAUDE:SUMMARY ID generators for journal runs (run_<uuidv7>) and request correlation (req_<nanoid>).
// Package idgen provides pluggable ID generation. Constructors that need
// IDs accept a Generator so the strategy is chosen at startup.
package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// NanoID returns a Generator of base-36 IDs of the given length.
func NanoID(length int) Generator {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	return func() string {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		for i := range buf {
			buf[i] = alphabet[int(buf[i])%len(alphabet)]
		}
		return string(buf)
	}
}

// UUIDv7 returns a Generator of time-sortable RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID of gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

const runPrefix = "run_"

var (
	// Default is UUIDv7.
	Default Generator = UUIDv7()

	// RunID names journal entries; sortable by creation time.
	RunID Generator = Prefixed(runPrefix, Default)

	// RequestID tags log lines and journal entries of one HTTP or MCP call.
	RequestID Generator = Prefixed("req_", NanoID(12))
)

// New produces an ID using the Default generator.
func New() string {
	return Default()
}

// ParseRunID validates a run ID and returns it normalised.
func ParseRunID(s string) (string, error) {
	rest, ok := strings.CutPrefix(s, runPrefix)
	if !ok {
		return "", fmt.Errorf("idgen: run id %q lacks %q prefix", s, runPrefix)
	}
	u, err := uuid.Parse(rest)
	if err != nil {
		return "", fmt.Errorf("idgen: invalid run id: %w", err)
	}
	return runPrefix + u.String(), nil
}
