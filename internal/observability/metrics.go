package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ChatRequests      *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	CompletionLatency *prometheus.HistogramVec
	ActiveSessions    prometheus.Gauge
	EvictedSessions   prometheus.Counter
	AuditFailures     prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the instruments on reg. A nil reg leaves them
// unregistered; tests pass a fresh prometheus.NewRegistry().
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	factory := promauto.With(registerer)
	m := &Metrics{
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Answered chat messages by route and detected language.",
		}, []string{"route", "locale"}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed completion calls by provider and operation.",
		}, []string{"provider", "op"}),
		CompletionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_latency_ms",
			Help:      "Completion call latency in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		}, []string{"op"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions held in memory.",
		}),
		EvictedSessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evicted_sessions_total",
			Help:      "Sessions removed after their idle TTL.",
		}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Audit records that could not be written.",
		}),
	}
	if reg != nil {
		m.gatherer = reg
	}
	return m
}

func (m *Metrics) ObserveChat(route, locale string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(route, locale).Inc()
}

func (m *Metrics) ObserveUpstreamError(provider, op string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(provider, op).Inc()
}

func (m *Metrics) ObserveCompletionLatency(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.CompletionLatency.WithLabelValues(op).Observe(float64(d.Milliseconds()))
}

// ObserveSessions updates the gauge and counts evicted sessions.
func (m *Metrics) ObserveSessions(active, evicted int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(active))
	if evicted > 0 {
		m.EvictedSessions.Add(float64(evicted))
	}
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}

// Handler serves the exposition for the registry the metrics live on.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
