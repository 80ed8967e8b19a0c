// CLAUDE:SUMMARY HTTP middleware for the sanitizer API: response hardening, HEAD support, per-request context.
// CLAUDE:EXPORTS Stack, SecurityHeaders, DefaultHeaders, HeadToGet, RequestContext, GetLogger
// Package shield provides the HTTP middleware stack of the docbleach API.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.Stack(idgen.RequestID, logger) {
//	    r.Use(mw)
//	}
package shield

import (
	"log/slog"
	"net/http"

	"github.com/hazyhaar/docbleach/idgen"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// Stack returns the standard middleware chain, outermost first:
// HeadToGet, SecurityHeaders, RequestContext.
func Stack(newID idgen.Generator, logger *slog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		RequestContext(newID, logger),
	}
}
