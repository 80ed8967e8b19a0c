// CLAUDE:SUMMARY Error taxonomy for sanitization: credentials, content, output and size failures.
package bleach

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentials means the document is protected and the supplied
	// secret is missing or wrong.
	ErrCredentials = errors.New("invalid credentials")

	// ErrContent means the document could not be parsed or re-encoded.
	ErrContent = errors.New("invalid content")

	// ErrOutput means the cleaned bytes could not be written to the caller.
	ErrOutput = errors.New("output failed")

	// ErrTooLarge means the input exceeded the configured maximum size.
	ErrTooLarge = errors.New("input too large")
)

// Error is a sanitization failure. Kind is one of the sentinel errors above,
// Err is the underlying cause (may be nil).
type Error struct {
	Op   string
	Name string
	Kind error
	Err  error
	Msg  string // overrides the rendered message when set
}

// NewError builds an *Error of the given kind.
func NewError(op, name string, kind, cause error) *Error {
	return &Error{Op: op, Name: name, Kind: kind, Err: cause}
}

// CredentialError returns the error reported for a locked document.
func CredentialError(name string) *Error {
	return &Error{Op: "open", Name: name, Kind: ErrCredentials, Msg: "Invalid credentials!"}
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Name, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
