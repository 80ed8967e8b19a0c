// CLAUDE:SUMMARY Threat, Result, Credentials and Section types shared by every content scanner.
// CLAUDE:EXPORTS Section, Threat, Result, NewResult, Credentials
package bleach

import "strings"

// Section names where in a document a removed construct was found.
// Each scanner owns its closed set of sections.
type Section string

// Threat describes one active construct that was removed from a document.
type Threat struct {
	Section     Section `json:"section"`
	Description string  `json:"description"`
	Action      *string `json:"action"` // nil when no payload could be captured
}

// Result is the aggregated outcome of a sanitization run.
type Result struct {
	ContentType     string   `json:"content_type,omitempty"`
	ModifiedContent bool     `json:"modified_content"`
	Threats         []Threat `json:"threats"`
}

// NewResult returns an empty result with a non-nil threat list.
func NewResult() *Result {
	return &Result{Threats: []Threat{}}
}

// Merge folds other into r. The first non-blank content type wins,
// ModifiedContent is OR-combined and threats are appended in order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if strings.TrimSpace(r.ContentType) == "" && strings.TrimSpace(other.ContentType) != "" {
		r.ContentType = other.ContentType
	}
	r.ModifiedContent = r.ModifiedContent || other.ModifiedContent
	if r.Threats == nil {
		r.Threats = []Threat{}
	}
	r.Threats = append(r.Threats, other.Threats...)
}

// Credentials unlock protected documents. Username is optional and
// ignored by formats that only know a single secret.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Secret   string `json:"-"`
}

// SecretOrEmpty returns the secret of c, or "" when c is nil.
func (c *Credentials) SecretOrEmpty() string {
	if c == nil {
		return ""
	}
	return c.Secret
}
