// CLAUDE:SUMMARY HTTP API: POST /v1/sanitize streams a document through the pipeline, journal listing, metrics, health.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/docbleach/bleach"
	"github.com/hazyhaar/docbleach/engine"
	"github.com/hazyhaar/docbleach/horosafe"
	"github.com/hazyhaar/docbleach/idgen"
	"github.com/hazyhaar/docbleach/journal"
	"github.com/hazyhaar/docbleach/observability"
	"github.com/hazyhaar/docbleach/shield"
)

func newRouter(e *engine.Engine, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.Stack(idgen.RequestID, logger) {
		r.Use(mw)
	}

	r.Get("/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"version":  version,
			"scanners": e.Pipeline.Scanners(),
		})
	})
	r.Post("/v1/sanitize", sanitizeHandler(e.Pipeline))

	if e.Journal != nil {
		r.Get("/v1/runs", func(w http.ResponseWriter, r *http.Request) {
			runs, err := e.Journal.Recent(r.Context(), queryInt(r, "limit", 50))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, runs)
		})
		r.Get("/v1/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
			run, err := e.Journal.Get(r.Context(), chi.URLParam(r, "id"))
			switch {
			case errors.Is(err, journal.ErrNotFound):
				writeError(w, http.StatusNotFound, err)
			case err != nil:
				writeError(w, http.StatusBadRequest, err)
			default:
				writeJSON(w, http.StatusOK, run)
			}
		})
	}
	if e.Prom != nil {
		r.Method(http.MethodGet, "/metrics", e.Prom.Handler())
	}
	if e.Metrics != nil {
		r.Get("/v1/metrics", func(w http.ResponseWriter, r *http.Request) {
			f, err := metricsFilter(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			totals, err := e.Metrics.Totals(r.Context(), f)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, totals)
		})
		r.Get("/v1/metrics/{name}", func(w http.ResponseWriter, r *http.Request) {
			f, err := metricsFilter(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			f.Name = chi.URLParam(r, "name")
			f.Limit = queryInt(r, "limit", 100)
			points, err := e.Metrics.Query(r.Context(), f)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, points)
		})
	}
	return r
}

// metricsFilter reads ?since=<duration> (e.g. 24h) into a filter.
func metricsFilter(r *http.Request) (observability.Filter, error) {
	var f observability.Filter
	if s := r.URL.Query().Get("since"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return f, fmt.Errorf("invalid since %q", s)
		}
		f.Since = time.Now().Add(-d)
	}
	return f, nil
}

// sanitizeHandler answers with the cleaned document as body and the scan
// result in X-Bleach-* headers. The body is buffered so that a failed scan
// can still return a JSON error.
func sanitizeHandler(pipe *bleach.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("X-Document-Name")
		if name == "" {
			name = "upload"
		}
		if err := horosafe.ValidateName(name); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var cred *bleach.Credentials
		if pw := r.Header.Get("X-Document-Password"); pw != "" {
			cred = &bleach.Credentials{Secret: pw}
		}

		var out bytes.Buffer
		res, err := pipe.Scan(r.Context(), name, r.Body, &out, cred)
		if err != nil {
			shield.GetLogger(r.Context()).Warn("sanitize request failed", "error", err)
			writeError(w, statusFor(err), err)
			return
		}

		report, err := json.Marshal(res)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		contentType := res.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := w.Header()
		h.Set("Content-Type", contentType)
		h.Set("X-Bleach-Content-Type", res.ContentType)
		h.Set("X-Bleach-Modified", strconv.FormatBool(res.ModifiedContent))
		h.Set("X-Bleach-Threats", strconv.Itoa(len(res.Threats)))
		h.Set("X-Bleach-Report", base64.StdEncoding.EncodeToString(report))
		h.Set("Content-Length", strconv.Itoa(out.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(out.Bytes())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bleach.ErrCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, bleach.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, bleach.ErrContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
