package observability

import (
	"context"
	"errors"

	"github.com/hazyhaar/docbleach/bleach"
)

// Metric names emitted per scan.
const (
	MetricScanDuration   = "scan_duration_ms"
	MetricScanInputBytes = "scan_input_bytes"
	MetricThreatsRemoved = "threats_removed"
	MetricSectionThreats = "section_threats"
	MetricScanFailures   = "scan_failures"
)

// ScanRecorder turns pipeline runs into metrics. It satisfies
// bleach.Recorder and never fails: persistence errors are logged at flush.
type ScanRecorder struct {
	mm *MetricsManager
}

// NewScanRecorder wraps mm.
func NewScanRecorder(mm *MetricsManager) *ScanRecorder {
	return &ScanRecorder{mm: mm}
}

// Record emits the metrics of one run.
func (r *ScanRecorder) Record(_ context.Context, run bleach.Run) error {
	outcome := Outcome(run.Err)
	contentType := ""
	if run.Result != nil {
		contentType = run.Result.ContentType
	}
	labels := map[string]string{"outcome": outcome}
	if contentType != "" {
		labels["content_type"] = contentType
	}

	r.mm.Record(&Metric{Name: MetricScanDuration, Value: float64(run.Duration.Milliseconds()), Unit: "milliseconds", Labels: labels})
	r.mm.Record(&Metric{Name: MetricScanInputBytes, Value: float64(run.Size), Unit: "bytes", Labels: labels})

	if run.Err != nil {
		r.mm.Record(&Metric{Name: MetricScanFailures, Value: 1, Unit: "count", Labels: map[string]string{"kind": outcome}})
		return nil
	}

	r.mm.Record(&Metric{Name: MetricThreatsRemoved, Value: float64(len(run.Result.Threats)), Unit: "count", Labels: labels})
	perSection := map[bleach.Section]int{}
	for _, t := range run.Result.Threats {
		perSection[t.Section]++
	}
	for section, n := range perSection {
		r.mm.Record(&Metric{
			Name:   MetricSectionThreats,
			Value:  float64(n),
			Unit:   "count",
			Labels: map[string]string{"section": string(section), "content_type": contentType},
		})
	}
	return nil
}

// Outcome classifies a scan error for the outcome/kind labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, bleach.ErrCredentials):
		return "credentials"
	case errors.Is(err, bleach.ErrTooLarge):
		return "too_large"
	case errors.Is(err, bleach.ErrContent):
		return "content"
	case errors.Is(err, bleach.ErrOutput):
		return "output"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
