package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the server's Prometheus metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	activeSessions  *prometheus.GaugeVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the chronos metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "status"}),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "chronos",
			Name:      "active_sessions",
			Help:      "Live sessions by transport variant.",
		}, []string{"transport"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chronos",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route and status code.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.toolCalls, m.activeSessions, m.requestDuration)
	reg.MustRegister(collectors.NewGoCollector())
	return m
}

// RecordToolCall counts one tool invocation.
func (m *Metrics) RecordToolCall(tool, status string) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

// SetActiveSessions records the live session count for a transport.
func (m *Metrics) SetActiveSessions(transport string, n int) {
	m.activeSessions.WithLabelValues(transport).Set(float64(n))
}

// ObserveRequest records one HTTP request duration.
func (m *Metrics) ObserveRequest(route, code string, d time.Duration) {
	m.requestDuration.WithLabelValues(route, code).Observe(d.Seconds())
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
