package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ChartLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finlens",
			Subsystem: "charts",
			Name:      "latency_seconds",
			Help:      "Latency of chart endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ChartErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finlens",
			Subsystem: "charts",
			Name:      "errors_total",
			Help:      "Errors by chart endpoint",
		},
		[]string{"endpoint"},
	)

	CacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finlens",
			Subsystem: "charts",
			Name:      "cache_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"endpoint", "result"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ChartLatency, ChartErrors, CacheResults)
	})
}
