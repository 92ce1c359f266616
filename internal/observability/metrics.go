package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/match-roster/internal/platform/resilience"
)

const metricsNamespace = "match_roster"

// Metrics is the Prometheus side of the service. It owns its registry so tests and
// multiple app instances do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	rosterOperations *prometheus.CounterVec
	imports          *prometheus.CounterVec
	importDuration   prometheus.Histogram
	importedRows     prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	breakerState     *prometheus.GaugeVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rosterOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "roster",
			Name:      "operations_total",
			Help:      "Roster engine operations by operation and outcome (success, rejected, error).",
		}, []string{"operation", "outcome"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Candidate imports by outcome.",
		}, []string{"outcome"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Wall time of a candidate import across all tabs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		importedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "candidates",
			Help:      "Candidates produced by successful imports.",
			Buckets:   []float64{5, 10, 20, 30, 50, 100, 200},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "cache_lookups_total",
			Help:      "Sheet tab cache lookups by result (hit, miss).",
		}, []string{"result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently held in memory.",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sheets",
			Name:      "circuit_state",
			Help:      "1 for the current circuit breaker state of the spreadsheet client.",
		}, []string{"state"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rosterOperations,
		m.imports,
		m.importDuration,
		m.importedRows,
		m.cacheLookups,
		m.activeSessions,
		m.breakerState,
		m.httpRequests,
		m.httpDuration,
	)
	m.SetCircuitState(resilience.CircuitStateClosed, resilience.CircuitStateClosed)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRosterOperation(operation, outcome string) {
	m.rosterOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveImport(outcome string, _ int, candidates int, elapsed time.Duration) {
	m.imports.WithLabelValues(outcome).Inc()
	m.importDuration.Observe(elapsed.Seconds())
	if outcome == "success" {
		m.importedRows.Observe(float64(candidates))
	}
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

// SetCircuitState matches resilience.CircuitBreakerConfig.OnStateChange.
func (m *Metrics) SetCircuitState(_, to resilience.CircuitState) {
	for _, state := range []resilience.CircuitState{
		resilience.CircuitStateClosed,
		resilience.CircuitStateOpen,
		resilience.CircuitStateHalfOpen,
	} {
		value := 0.0
		if state == to {
			value = 1
		}
		m.breakerState.WithLabelValues(string(state)).Set(value)
	}
}

func (m *Metrics) ObserveHTTPRequest(route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
