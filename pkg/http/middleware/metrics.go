package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	applogger "FinLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type routeKey struct{}

// httpCollectors are the request metrics of the chart API. Labels stay low
// cardinality: route template, method and status class.
type httpCollectors struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
	size     *prometheus.HistogramVec
}

var (
	collectors = httpCollectors{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finlens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served by route, method and status class",
		}, []string{"route", "method", "class"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finlens",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency including upstream fetches",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "method", "class"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "finlens",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		}, []string{"route"}),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finlens",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Encoded chart payload size",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"route"}),
	}
	registerOnce sync.Once
)

func (hc httpCollectors) register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(hc.requests, hc.duration, hc.inFlight, hc.size)
	})
}

// Metrics is a net/http middleware recording request metrics. Server errors
// are logged, as are requests slower than slowThreshold when it is set.
func Metrics(l *applogger.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	collectors.register()
	if l == nil {
		l = applogger.Nop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeLabel(r)
			gauge := collectors.inFlight.WithLabelValues(route)
			gauge.Inc()
			defer gauge.Dec()

			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			class := statusClass(rw.status)
			collectors.requests.WithLabelValues(route, r.Method, class).Inc()
			collectors.duration.WithLabelValues(route, r.Method, class).Observe(elapsed.Seconds())
			collectors.size.WithLabelValues(route).Observe(float64(rw.written))

			fields := []applogger.Field{
				applogger.String("route", route),
				applogger.Int("status", rw.status),
				applogger.Duration("duration_ms", elapsed),
				applogger.Int("bytes", rw.written),
			}
			switch {
			case rw.status >= http.StatusInternalServerError:
				l.Error("http request failed", fields...)
			case slowThreshold > 0 && elapsed >= slowThreshold:
				l.Warn("http request slow", fields...)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// WithRoute stores the route template used as the metrics label.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeLabel(r *http.Request) string {
	if s, ok := r.Context().Value(routeKey{}).(string); ok && s != "" {
		return s
	}
	return "unmatched"
}

// EchoMetrics adapts Metrics to Echo, labelling requests with the matched
// route template instead of the raw URL.
func EchoMetrics(l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	wrapped := echo.WrapMiddleware(Metrics(l, slowThreshold))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := wrapped(next)
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(WithRoute(req.Context(), c.Path())))
			return h(c)
		}
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}
