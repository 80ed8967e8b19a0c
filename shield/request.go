package shield

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/docbleach/idgen"
	"github.com/hazyhaar/docbleach/kit"
)

// RequestContext assigns a request id to each request and stamps it, the
// transport and the remote address on the context, so that pipeline logs
// and journal rows can be correlated with the HTTP exchange. The id is
// echoed in X-Request-ID and a per-request logger is stored under LoggerKey.
func RequestContext(newID idgen.Generator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := newID()
			ctx := kit.WithRequestID(r.Context(), reqID)
			ctx = kit.WithTraceID(ctx, reqID)
			ctx = kit.WithTransport(ctx, "http")
			ctx = kit.WithRemoteAddr(ctx, r.RemoteAddr)

			reqLogger := logger.With(
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			ctx = context.WithValue(ctx, LoggerKey, reqLogger)
			reqLogger.Debug("request")

			w.Header().Set("X-Request-ID", reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the per-request logger from the context.
// Returns slog.Default() if no logger was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
