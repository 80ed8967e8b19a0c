package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazyhaar/docbleach/bleach"
)

// PromRecorder exposes scan counters for Prometheus scraping. It uses its
// own registry so several engines (tests) never collide on registration.
type PromRecorder struct {
	reg *prometheus.Registry

	scans    *prometheus.CounterVec
	threats  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     prometheus.Histogram
}

// NewPromRecorder registers the docbleach collectors plus the Go runtime
// and process collectors on a fresh registry.
func NewPromRecorder() *PromRecorder {
	p := &PromRecorder{
		reg: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbleach_scans_total",
			Help: "Sanitization runs by outcome and detected content type",
		}, []string{"outcome", "content_type"}),
		threats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbleach_threats_removed_total",
			Help: "Active constructs removed, by document section",
		}, []string{"section"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docbleach_scan_duration_seconds",
			Help:    "Duration of a full pipeline run",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		size: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "docbleach_scan_input_bytes",
			Help:    "Size of submitted documents",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1 KiB .. 256 MiB
		}),
	}
	p.reg.MustRegister(
		p.scans, p.threats, p.duration, p.size,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Record implements bleach.Recorder.
func (p *PromRecorder) Record(_ context.Context, run bleach.Run) error {
	outcome := Outcome(run.Err)
	contentType := ""
	if run.Result != nil {
		contentType = run.Result.ContentType
		for _, t := range run.Result.Threats {
			p.threats.WithLabelValues(string(t.Section)).Inc()
		}
	}
	p.scans.WithLabelValues(outcome, contentType).Inc()
	p.duration.WithLabelValues(outcome).Observe(run.Duration.Seconds())
	p.size.Observe(float64(run.Size))
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
