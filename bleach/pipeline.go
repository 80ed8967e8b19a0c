// CLAUDE:SUMMARY Sanitization pipeline — probes scanners in order, chains cleaned output, merges results.
// CLAUDE:DEPENDS bleach/scanner.go, bleach/types.go, kit/context.go
// CLAUDE:EXPORTS Pipeline, NewPipeline, Run, Recorder, Recorders
// Package bleach strips active content (auto-run actions, scripts, launch and
// submit triggers) from documents before they reach downstream consumers.
//
// A Pipeline holds an ordered list of Scanners, one per format. Each scanner
// is probed against the current bytes; on a match it runs and its cleaned
// output becomes the input of the remaining scanners, which allows layered
// formats. Content no scanner recognises is copied through unchanged.
//
// Usage:
//
//	pipe := bleach.NewPipeline(bleach.Config{}, pdfbleach.New(pdfbleach.Config{}))
//	res, err := pipe.Scan(ctx, "upload.pdf", in, out, nil)
//	fmt.Println(res.ContentType, len(res.Threats), "threats removed")
package bleach

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"log/slog"
	"time"

	"github.com/hazyhaar/docbleach/kit"
)

// Run describes one completed (or failed) Scan call.
type Run struct {
	Name      string
	SHA256    string // digest of the bytes read from the input
	Size      int64
	Result    *Result
	Err       error
	Duration  time.Duration
	RequestID string
}

// Recorder persists runs. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Recorders fans one run out to several recorders. Every recorder is
// called; the errors are joined.
type Recorders []Recorder

// Record implements Recorder.
func (rs Recorders) Record(ctx context.Context, run Run) error {
	var errs []error
	for _, r := range rs {
		if err := r.Record(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pipeline is the sanitization engine. It is stateless between calls and
// safe for concurrent use on independent streams.
type Pipeline struct {
	cfg      Config
	logger   *slog.Logger
	scanners []Scanner
}

// NewPipeline creates a Pipeline that probes scanners in the given order.
func NewPipeline(cfg Config, scanners ...Scanner) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:      cfg,
		logger:   cfg.Logger,
		scanners: scanners,
	}
}

// Scanners returns the registered scanner names in probe order.
func (p *Pipeline) Scanners() []string {
	names := make([]string, 0, len(p.scanners))
	for _, s := range p.scanners {
		names = append(names, s.Name())
	}
	return names
}

// Supports reports whether any scanner recognises the stream. The read
// position of r is unchanged.
func (p *Pipeline) Supports(name string, r *bufio.Reader) bool {
	for _, s := range p.scanners {
		if s.Supports(name, r) {
			return true
		}
	}
	return false
}

// Scan sanitizes in into out. Nothing is written to out unless every
// matching scanner succeeded. The caller keeps ownership of in.
func (p *Pipeline) Scan(ctx context.Context, name string, in io.Reader, out io.Writer, cred *Credentials) (*Result, error) {
	start := time.Now()

	guard := &sizeGuard{r: in, n: p.cfg.MaxInputSize}
	var src io.Reader = guard
	var digest hash.Hash
	if p.cfg.Recorder != nil {
		digest = sha256.New()
		src = io.TeeReader(guard, digest)
	}

	res, err := p.run(ctx, name, bufio.NewReader(src), out, cred)
	elapsed := time.Since(start)

	call := kit.LogAttrs(ctx)
	if err != nil {
		p.logger.Warn("sanitize failed", append([]any{"name", name, "error", err}, call...)...)
	} else {
		p.logger.Info("sanitize done", append([]any{
			"name", name,
			"content_type", res.ContentType,
			"threats", len(res.Threats),
			"modified", res.ModifiedContent,
			"duration", elapsed,
		}, call...)...)
	}

	if p.cfg.Recorder != nil {
		run := Run{
			Name:      name,
			SHA256:    hex.EncodeToString(digest.Sum(nil)),
			Size:      p.cfg.MaxInputSize - guard.n,
			Result:    res,
			Err:       err,
			Duration:  elapsed,
			RequestID: kit.GetRequestID(ctx),
		}
		if rerr := p.cfg.Recorder.Record(ctx, run); rerr != nil {
			p.logger.Warn("record run failed", "name", name, "error", rerr)
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, name string, view *bufio.Reader, out io.Writer, cred *Credentials) (*Result, error) {
	result := NewResult()

	var cleaned *bytes.Buffer
	for _, s := range p.scanners {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.Supports(name, view) {
			continue
		}
		p.logger.Debug("using scanner", "name", name, "scanner", s.Name())

		buf := new(bytes.Buffer)
		partial, err := s.Scan(ctx, name, view, buf, cred)
		if err != nil {
			return nil, err
		}
		result.Merge(partial)
		cleaned = buf
		view = bufio.NewReader(bytes.NewReader(buf.Bytes()))
	}

	// Unmatched input is read in full before out sees a byte.
	if cleaned == nil {
		cleaned = new(bytes.Buffer)
		if _, err := cleaned.ReadFrom(view); err != nil {
			if errors.Is(err, ErrTooLarge) {
				return nil, NewError("read", name, ErrTooLarge, nil)
			}
			return nil, NewError("read", name, ErrContent, err)
		}
	}

	if _, err := out.Write(cleaned.Bytes()); err != nil {
		return nil, NewError("write", name, ErrOutput, err)
	}
	return result, nil
}

// sizeGuard fails with ErrTooLarge once more than n bytes are read.
type sizeGuard struct {
	r io.Reader
	n int64
}

func (g *sizeGuard) Read(p []byte) (int, error) {
	if g.n <= 0 {
		var one [1]byte
		n, err := g.r.Read(one[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > g.n {
		p = p[:g.n]
	}
	n, err := g.r.Read(p)
	g.n -= int64(n)
	return n, err
}
