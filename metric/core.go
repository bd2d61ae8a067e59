// Package metric provides Prometheus instrumentation for the agent
// extension layer: registration and routing counters plus a registry
// wrapper that owns the Prometheus registry handed to the metrics endpoint.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core extension-layer metrics.
type Metrics struct {
	// Registry metrics
	ItemsRegistered prometheus.Gauge
	ProvidersLoaded prometheus.Gauge
	RegistryState   prometheus.Gauge

	// Router metrics
	RoutedTotal   *prometheus.CounterVec
	RouteDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all core metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ItemsRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "agentkit",
				Subsystem: "registry",
				Name:      "items_registered",
				Help:      "Number of items registered, duplicates included",
			},
		),

		ProvidersLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "agentkit",
				Subsystem: "registry",
				Name:      "providers_loaded",
				Help:      "Number of providers loaded during discovery",
			},
		),

		RegistryState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "agentkit",
				Subsystem: "registry",
				Name:      "state",
				Help:      "Registry lifecycle state (0=uninitialized, 1=initializing, 2=ready)",
			},
		),

		RoutedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "agentkit",
				Subsystem: "router",
				Name:      "requests_total",
				Help:      "Total number of routed check requests",
			},
			[]string{"key", "status"},
		),

		RouteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "agentkit",
				Subsystem: "router",
				Name:      "duration_seconds",
				Help:      "Handler execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"key"},
		),
	}
}

// collectors returns all core metrics for bulk registration.
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ItemsRegistered,
		m.ProvidersLoaded,
		m.RegistryState,
		m.RoutedTotal,
		m.RouteDuration,
	}
}
