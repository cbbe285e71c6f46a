package mockserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sources label how a request was answered.
const (
	SourceMock    = "mock"
	SourceEcho    = "echo"
	SourceInvalid = "invalid"
)

// Metrics counts requests served by the mock server.
type Metrics struct {
	registry *prometheus.Registry
	hits     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the mock server collectors on reg.
func NewMetrics(reg *prometheus.Registry, serviceName string) (*Metrics, error) {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: reg,
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "mockserver",
			Name:        "hits_total",
			Help:        "Requests served, by method, status and source.",
			ConstLabels: labels,
		}, []string{"method", "status", "source"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "mockserver",
			Name:        "request_duration_seconds",
			Help:        "Time spent serving requests.",
			ConstLabels: labels,
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records one observation per request. Handlers report the
// source through the sourceRecorder on the request context.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			src := &sourceRecorder{source: SourceEcho}

			next.ServeHTTP(wrapped, r.WithContext(withSource(r.Context(), src)))

			m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
			m.hits.WithLabelValues(r.Method, strconv.Itoa(wrapped.Status()), src.source).Inc()
		})
	}
}
