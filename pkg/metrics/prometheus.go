package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	rowsTotal     *prometheus.CounterVec
	excludedTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finlens_source_fetch_duration_seconds",
				Help:    "Duration of market source fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finlens_errors_total",
				Help: "Total number of failed fetch branches and other errors",
			},
			[]string{"type"},
		),
		rowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finlens_chart_rows_total",
				Help: "Aligned rows produced per chart",
			},
			[]string{"chart"},
		),
		excludedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finlens_excluded_series_total",
				Help: "Series dropped because they could not be normalized",
			},
			[]string{"chart"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records the duration of one source fetch.
func (r *Recorder) RecordFetch(kind string, seconds float64) {
	r.fetchDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordRows(chart string, n int) {
	r.rowsTotal.WithLabelValues(chart).Add(float64(n))
}

func (r *Recorder) RecordExcluded(chart string, n int) {
	if n <= 0 {
		return
	}
	r.excludedTotal.WithLabelValues(chart).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
