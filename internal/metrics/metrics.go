// Package metrics exposes Prometheus counters for the extraction pipeline.
// Dropped rows and coercion failures are absorbed silently by the parser,
// so the counters are the only global account of how much data a batch
// quietly lost.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the pipeline counters. A nil Recorder is valid and
// records nothing, so library code can take one without caring whether
// metrics are wired.
type Recorder struct {
	registry *prometheus.Registry

	reportsParsed    prometheus.Counter
	malformedRows    prometheus.Counter
	coercionFailures prometheus.Counter
	slaBreaches      prometheus.Counter
}

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		reportsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perfcli",
			Name:      "reports_parsed_total",
			Help:      "Number of report files normalized.",
		}),
		malformedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perfcli",
			Name:      "malformed_rows_total",
			Help:      "Table rows dropped for having too few cells.",
		}),
		coercionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perfcli",
			Name:      "coercion_failures_total",
			Help:      "Cells that failed numeric coercion and became missing values.",
		}),
		slaBreaches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perfcli",
			Name:      "sla_breaches_total",
			Help:      "Average-time cells observed above the SLA threshold.",
		}),
	}
	reg.MustRegister(r.reportsParsed, r.malformedRows, r.coercionFailures, r.slaBreaches)
	return r
}

// Handler serves the recorder's registry in Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ReportParsed increments the parsed-reports counter.
func (r *Recorder) ReportParsed() {
	if r != nil {
		r.reportsParsed.Inc()
	}
}

// MalformedRows adds n dropped rows.
func (r *Recorder) MalformedRows(n int) {
	if r != nil && n > 0 {
		r.malformedRows.Add(float64(n))
	}
}

// CoercionFailure increments the failed-coercion counter.
func (r *Recorder) CoercionFailure() {
	if r != nil {
		r.coercionFailures.Inc()
	}
}

// SLABreaches adds n breached cells.
func (r *Recorder) SLABreaches(n int) {
	if r != nil && n > 0 {
		r.slaBreaches.Add(float64(n))
	}
}
