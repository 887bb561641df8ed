package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay, registered on their
// own registry so tests can build isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	TelemetryMessages *prometheus.CounterVec
	MutationsApplied  *prometheus.CounterVec
	BroadcastsSent    prometheus.Counter
	PublishFailures   prometheus.Counter
	ConnectedClients  prometheus.Gauge
	WatchedDevices    prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		TelemetryMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pigdevice_telemetry_messages_total",
			Help: "Inbound telemetry messages by result (applied/dropped)",
		}, []string{"result"}),

		MutationsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pigdevice_mutations_applied_total",
			Help: "Balance mutations applied by source (http/telemetry)",
		}, []string{"source"}),

		BroadcastsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "pigdevice_broadcasts_sent_total",
			Help: "State pushes delivered to watching clients",
		}),

		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pigdevice_publish_failures_total",
			Help: "Outbound telemetry publish attempts that failed",
		}),

		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pigdevice_connected_clients",
			Help: "Currently connected live-update clients",
		}),

		WatchedDevices: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pigdevice_watched_devices",
			Help: "Devices with at least one watching client",
		}),
	}
}
