// CLAUDE:SUMMARY Input guards for caller-supplied file paths and document names (traversal, control chars, length).
// CLAUDE:EXPORTS SafePath, ValidateName, ErrPathTraversal, ErrInvalidName, MaxNameLen
// Package horosafe validates caller-supplied paths and names before they
// reach the filesystem, the logs or the run journal.
package horosafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxNameLen bounds a document name in bytes.
const MaxNameLen = 255

// ErrPathTraversal is returned when a user-supplied path escapes its base.
var ErrPathTraversal = errors.New("horosafe: path traversal detected")

// ErrInvalidName is returned for empty, oversized or control-laden names.
var ErrInvalidName = errors.New("horosafe: invalid document name")

// SafePath resolves userInput below base and returns the cleaned absolute
// path. Absolute inputs are re-rooted under base. Any ".." path element is
// rejected, even one that would stay inside base.
func SafePath(base, userInput string) (string, error) {
	if userInput == "" {
		return "", ErrPathTraversal
	}
	for _, elem := range strings.FieldsFunc(userInput, isSeparator) {
		if elem == ".." {
			return "", ErrPathTraversal
		}
	}
	root, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("horosafe: base: %w", err)
	}
	cleaned := filepath.Join(root, filepath.Clean("/"+filepath.ToSlash(userInput)))
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

// ValidateName checks a document name taken from a request header or a
// tool argument: non-empty, at most MaxNameLen bytes, no control characters
// and no path separators.
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsControl(r) || isSeparator(r) || r == unicode.ReplacementChar {
			return ErrInvalidName
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
