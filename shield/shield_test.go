package shield

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/docbleach/kit"
)

func chain(h http.Handler) http.Handler {
	mws := Stack(func() string { return "req_fixed" }, nil)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// WHAT: Every response carries the hardening headers.
// WHY: The API returns untrusted document bytes; a browser must never render them live.
func TestSecurityHeaders(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Cache-Control":           "no-store",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": DefaultHeaders().CSP,
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

// WHAT: Empty header fields are not emitted.
// WHY: Callers disable a header by clearing its field.
func TestSecurityHeaders_Empty(t *testing.T) {
	cfg := DefaultHeaders()
	cfg.CSP = ""
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, ok := rec.Header()["Content-Security-Policy"]; ok {
		t.Error("CSP should be absent")
	}
}

// WHAT: RequestContext stamps request id, transport and remote addr.
// WHY: Pipeline logs and journal rows are keyed on these values.
func TestRequestContext(t *testing.T) {
	var reqID, transport, remote string
	h := chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		reqID = kit.GetRequestID(r.Context())
		transport = kit.GetTransport(r.Context())
		remote = kit.GetRemoteAddr(r.Context())
		if GetLogger(r.Context()) == nil {
			t.Error("nil logger")
		}
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/sanitize", nil)
	req.RemoteAddr = "192.0.2.1:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if reqID != "req_fixed" || rec.Header().Get("X-Request-ID") != "req_fixed" {
		t.Errorf("request id = %q, header %q", reqID, rec.Header().Get("X-Request-ID"))
	}
	if transport != "http" {
		t.Errorf("transport = %q", transport)
	}
	if remote != "192.0.2.1:4242" {
		t.Errorf("remote = %q", remote)
	}
}

// WHAT: HEAD is routed as GET.
// WHY: Health probes often use HEAD against GET-only routes.
func TestHeadToGet(t *testing.T) {
	var method string
	h := HeadToGet(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/v1/health", nil))
	if method != http.MethodGet {
		t.Errorf("method = %s", method)
	}
}

// WHAT: GetLogger falls back to the default logger.
// WHY: Handlers may run outside the middleware in tests.
func TestGetLogger_Default(t *testing.T) {
	if GetLogger(httptest.NewRequest(http.MethodGet, "/", nil).Context()) == nil {
		t.Error("nil logger")
	}
}
