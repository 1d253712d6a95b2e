package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bridge's Prometheus metrics. A nil *Metrics is valid and
// records nothing, so components can run unmetered in tests.
type Metrics struct {
	Interceptions *prometheus.CounterVec
	Messages      *prometheus.CounterVec
	Resources     *prometheus.CounterVec
	DroppedSends  prometheus.Counter
	Surfaces      prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the metric collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Interceptions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_interceptions_total",
				Help: "Interception pipeline evaluations by hook kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Messages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_channel_messages_total",
				Help: "Channel messages by direction and channel name",
			},
			[]string{"direction", "channel"},
		),
		Resources: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_resource_requests_total",
				Help: "Custom-scheme resource loads by outcome",
			},
			[]string{"outcome"},
		),
		DroppedSends: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webview_dropped_sends_total",
				Help: "Messages dropped because the surface was destroyed",
			},
		),
		Surfaces: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webview_surfaces_active",
				Help: "Currently connected content surfaces",
			},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_http_requests_total",
				Help: "HTTP requests handled by the host server",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webview_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordInterception counts one pipeline evaluation.
func (m *Metrics) RecordInterception(kind, outcome string) {
	if m == nil {
		return
	}
	m.Interceptions.WithLabelValues(kind, outcome).Inc()
}

// RecordMessage counts one channel message ("in" or "out").
func (m *Metrics) RecordMessage(direction, channel string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(direction, channel).Inc()
}

// RecordResource counts one custom-scheme load ("served" or "denied").
func (m *Metrics) RecordResource(outcome string) {
	if m == nil {
		return
	}
	m.Resources.WithLabelValues(outcome).Inc()
}

// RecordDroppedSend counts one message dropped after destroy.
func (m *Metrics) RecordDroppedSend() {
	if m == nil {
		return
	}
	m.DroppedSends.Inc()
}

// SurfaceConnected adjusts the active surface gauge.
func (m *Metrics) SurfaceConnected(delta float64) {
	if m == nil {
		return
	}
	m.Surfaces.Add(delta)
}

// RecordHTTP counts one handled HTTP request.
func (m *Metrics) RecordHTTP(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
