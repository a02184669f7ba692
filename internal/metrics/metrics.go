package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPCollector exposes Prometheus metrics for inbound HTTP requests.
type HTTPCollector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// NewHTTPCollector constructs a collector with default histograms/counters.
func NewHTTPCollector() (*HTTPCollector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "finbot",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finbot",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	if err := registry.Register(requestDuration); err != nil {
		return nil, err
	}

	if err := registry.Register(requestTotal); err != nil {
		return nil, err
	}

	collector := &HTTPCollector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}

	return collector, nil
}

// Registry exposes the underlying registry so sibling collectors can
// share one /metrics endpoint.
func (c *HTTPCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *HTTPCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *HTTPCollector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// ScenarioCollector tracks scenario interpretation and application
// outcomes. The per-strategy recovery counter is the operational signal
// for model output quality drifting.
type ScenarioCollector struct {
	recoveryTotal    *prometheus.CounterVec
	applicationTotal *prometheus.CounterVec
}

// NewScenarioCollector constructs a collector registered on the given
// registry.
func NewScenarioCollector(registry prometheus.Registerer) (*ScenarioCollector, error) {
	recoveryTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finbot",
		Subsystem: "scenario",
		Name:      "recoveries_total",
		Help:      "Scenario recoveries by the strategy that produced them.",
	}, []string{"strategy"})

	applicationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finbot",
		Subsystem: "scenario",
		Name:      "applications_total",
		Help:      "Scenario applications to a ledger by outcome.",
	}, []string{"outcome"})

	if err := registry.Register(recoveryTotal); err != nil {
		return nil, err
	}

	if err := registry.Register(applicationTotal); err != nil {
		return nil, err
	}

	return &ScenarioCollector{
		recoveryTotal:    recoveryTotal,
		applicationTotal: applicationTotal,
	}, nil
}

// RecordRecovery counts one recovered scenario for the given strategy.
func (c *ScenarioCollector) RecordRecovery(strategy string) {
	c.recoveryTotal.WithLabelValues(strategy).Inc()
}

// RecordApplication counts one scenario application.
func (c *ScenarioCollector) RecordApplication(outcome string) {
	c.applicationTotal.WithLabelValues(outcome).Inc()
}
