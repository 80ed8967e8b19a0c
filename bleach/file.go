// CLAUDE:SUMMARY File-level helper: sanitize a path into another path atomically (temp file + rename).
package bleach

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeFile sanitizes the file at inPath into outPath. The output is
// written to a temporary file in the target directory and renamed into
// place only on success, so a failed scan never leaves partial output.
func (p *Pipeline) SanitizeFile(ctx context.Context, inPath, outPath string, cred *Credentials) (*Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".bleach-*")
	if err != nil {
		return nil, NewError("write", outPath, ErrOutput, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	res, err := p.Scan(ctx, filepath.Base(inPath), in, w, cred)
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return nil, NewError("write", outPath, ErrOutput, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, NewError("write", outPath, ErrOutput, err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		return nil, NewError("write", outPath, ErrOutput, err)
	}
	return res, nil
}

// SupportsFile probes the file at path.
func (p *Pipeline) SupportsFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return p.Supports(filepath.Base(path), bufio.NewReader(f)), nil
}
