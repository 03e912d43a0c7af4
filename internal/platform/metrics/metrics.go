package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the recording orchestrator.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	errorsTotal            prometheus.Counter
	requestDuration        prometheus.Histogram
	sessionsCreatedTotal   prometheus.Counter
	sessionsFinalizedTotal prometheus.Counter
	sessionsAbortedTotal   prometheus.Counter
	filesRegisteredTotal   prometheus.Counter
	activeSession          prometheus.Gauge
}

// New creates and registers Prometheus metrics for the orchestrator.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	requestDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recording_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	})
	sessionsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_sessions_created_total",
		Help: "Total number of recording sessions created",
	})
	sessionsFinalizedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_sessions_finalized_total",
		Help: "Total number of recording sessions finalized with a manifest",
	})
	sessionsAbortedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_sessions_aborted_total",
		Help: "Total number of recording sessions aborted by cleanup",
	})
	filesRegisteredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recording_files_registered_total",
		Help: "Total number of capture files registered into sessions",
	})
	activeSession := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "recording_active_session",
		Help: "1 when a recording session is active, 0 otherwise",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		requestDuration,
		sessionsCreatedTotal,
		sessionsFinalizedTotal,
		sessionsAbortedTotal,
		filesRegisteredTotal,
		activeSession,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		errorsTotal:            errorsTotal,
		requestDuration:        requestDuration,
		sessionsCreatedTotal:   sessionsCreatedTotal,
		sessionsFinalizedTotal: sessionsFinalizedTotal,
		sessionsAbortedTotal:   sessionsAbortedTotal,
		filesRegisteredTotal:   filesRegisteredTotal,
		activeSession:          activeSession,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the error response counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveRequestDuration records one request latency sample.
func (m *Metrics) ObserveRequestDuration(seconds float64) {
	m.requestDuration.Observe(seconds)
}

// IncSessionsCreated increments the sessions created counter.
func (m *Metrics) IncSessionsCreated() {
	m.sessionsCreatedTotal.Inc()
}

// IncSessionsFinalized increments the sessions finalized counter.
func (m *Metrics) IncSessionsFinalized() {
	m.sessionsFinalizedTotal.Inc()
}

// IncSessionsAborted increments the sessions aborted counter.
func (m *Metrics) IncSessionsAborted() {
	m.sessionsAbortedTotal.Inc()
}

// IncFilesRegistered increments the files registered counter.
func (m *Metrics) IncFilesRegistered() {
	m.filesRegisteredTotal.Inc()
}

// SetSessionActive sets the active-session gauge.
func (m *Metrics) SetSessionActive(active bool) {
	if active {
		m.activeSession.Set(1)
	} else {
		m.activeSession.Set(0)
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values
// (e.g. whether a session is active).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
