// CLAUDE:SUMMARY Scanner capability implemented once per format, plus the non-destructive magic-byte probe.
// CLAUDE:EXPORTS Peeker, Scanner, HasMagic
package bleach

import (
	"bytes"
	"context"
	"io"
)

// Peeker exposes the first bytes of a stream without consuming them.
// *bufio.Reader satisfies it.
type Peeker interface {
	Peek(n int) ([]byte, error)
}

// Scanner detects and sanitizes one content format.
//
// Supports must not consume the stream: a later reader observes exactly
// the bytes that were there before the probe. Scan reads in to EOF and
// writes the cleaned document to out.
type Scanner interface {
	Name() string
	Supports(name string, p Peeker) bool
	Scan(ctx context.Context, name string, in io.Reader, out io.Writer, cred *Credentials) (*Result, error)
}

// HasMagic reports whether p starts with magic. A short stream or a
// peek failure is treated as "no match".
func HasMagic(p Peeker, magic []byte) bool {
	if p == nil || len(magic) == 0 {
		return false
	}
	head, err := p.Peek(len(magic))
	if err != nil && err != io.EOF {
		return false
	}
	return len(head) == len(magic) && bytes.Equal(head, magic)
}
