// Package metrics exposes Prometheus metrics for the site server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) { m.runtime = true }
}

// Manager owns the metrics of one server instance.
type Manager struct {
	namespace string
	registry  *prometheus.Registry
	runtime   bool

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	inFlight           prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager on a private registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "youthsite",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.generations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "generations_total",
		Help:      "Generation requests by kind, outcome and fallback reason.",
	}, []string{"kind", "outcome", "reason"})

	m.generationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "generation_duration_seconds",
		Help:      "Latency of generation requests including fallbacks.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	}, []string{"kind"})

	m.inFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "generations_in_flight",
		Help:      "Generation requests currently waiting on the provider.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	return m
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// GenerationStarted marks a request as in flight.
func (m *Manager) GenerationStarted() {
	m.inFlight.Inc()
}

// GenerationFinished records a completed request. reason is empty on success.
func (m *Manager) GenerationFinished(kind, outcome, reason string, elapsed time.Duration) {
	m.inFlight.Dec()
	m.generations.WithLabelValues(kind, outcome, reason).Inc()
	m.generationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
