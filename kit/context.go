// CLAUDE:SUMMARY Per-call metadata (transport, request id, trace id, remote address) carried on the context as one value.
// CLAUDE:EXPORTS Call, WithCall, CallFrom, LogAttrs, With*/Get* accessors
package kit

import "context"

type callKey struct{}

// Call describes who is asking: the transport the request came in on and
// the ids that tie its log lines, journal rows and metrics together.
type Call struct {
	Transport  string // "http", "mcp", "cli" or empty for library calls
	RequestID  string
	TraceID    string
	RemoteAddr string
}

// WithCall stores c on the context, replacing any previous Call.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the Call on ctx, or the zero Call.
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	return c
}

func update(ctx context.Context, fn func(*Call)) context.Context {
	c, _ := ctx.Value(callKey{}).(Call)
	fn(&c)
	return WithCall(ctx, c)
}

// LogAttrs returns the non-empty call fields as slog key/value pairs.
func LogAttrs(ctx context.Context) []any {
	c := CallFrom(ctx)
	var attrs []any
	if c.Transport != "" {
		attrs = append(attrs, "transport", c.Transport)
	}
	if c.RequestID != "" {
		attrs = append(attrs, "request_id", c.RequestID)
	}
	if c.RemoteAddr != "" {
		attrs = append(attrs, "remote_addr", c.RemoteAddr)
	}
	return attrs
}

func WithTransport(ctx context.Context, t string) context.Context {
	return update(ctx, func(c *Call) { c.Transport = t })
}
func GetTransport(ctx context.Context) string { return CallFrom(ctx).Transport }

func WithRequestID(ctx context.Context, id string) context.Context {
	return update(ctx, func(c *Call) { c.RequestID = id })
}
func GetRequestID(ctx context.Context) string { return CallFrom(ctx).RequestID }

func WithTraceID(ctx context.Context, id string) context.Context {
	return update(ctx, func(c *Call) { c.TraceID = id })
}
func GetTraceID(ctx context.Context) string { return CallFrom(ctx).TraceID }

func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return update(ctx, func(c *Call) { c.RemoteAddr = addr })
}
func GetRemoteAddr(ctx context.Context) string { return CallFrom(ctx).RemoteAddr }
