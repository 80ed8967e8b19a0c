// CLAUDE:SUMMARY Append-only threat log scoped to a single scanner invocation.
package bleach

import "log/slog"

// Registry collects threats in traversal order. A Registry belongs to
// exactly one scan and must not be shared between goroutines.
type Registry struct {
	name    string
	logger  *slog.Logger
	threats []Threat
}

// NewRegistry creates a registry for the document called name.
func NewRegistry(name string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{name: name, logger: logger, threats: []Threat{}}
}

// Register appends a threat. Registration order is preserved verbatim.
func (r *Registry) Register(section Section, description string, action *string) {
	r.threats = append(r.threats, Threat{
		Section:     section,
		Description: description,
		Action:      action,
	})
	r.logger.Debug("threat found",
		"name", r.name,
		"index", len(r.threats),
		"section", section,
		"description", description,
	)
}

// Len returns the number of registered threats.
func (r *Registry) Len() int { return len(r.threats) }

// Threats returns the registered threats.
func (r *Registry) Threats() []Threat { return r.threats }

// Result converts the registry into a scan result for contentType.
func (r *Registry) Result(contentType string) *Result {
	return &Result{
		ContentType:     contentType,
		ModifiedContent: len(r.threats) > 0,
		Threats:         r.threats,
	}
}
