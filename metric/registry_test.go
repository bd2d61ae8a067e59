package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreMetricsRegistered(t *testing.T) {
	registry := NewMetricsRegistry()

	metrics := registry.CoreMetrics()
	metrics.ItemsRegistered.Inc()
	metrics.RoutedTotal.WithLabelValues("agent.ping", "success").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ItemsRegistered))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.RoutedTotal.WithLabelValues("agent.ping", "success")))

	// Core metrics must be gatherable through the wrapped registry.
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
	names := make(map[string]struct{}, len(families))
	for _, family := range families {
		names[family.GetName()] = struct{}{}
	}
	assert.Contains(t, names, "agentkit_registry_items_registered")
	assert.Contains(t, names, "agentkit_router_requests_total")
}

func TestRegisterCollectorRejectsDuplicates(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agentkit",
		Subsystem: "sysinfo",
		Name:      "probe_errors",
		Help:      "Provider probe failures",
	})

	require.NoError(t, registry.RegisterCollector("sysinfo", "probe_errors", gauge))
	require.Error(t, registry.RegisterCollector("sysinfo", "probe_errors", gauge))
}

func TestUnregisterCollector(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agentkit",
		Subsystem: "sysinfo",
		Name:      "probe_errors",
		Help:      "Provider probe failures",
	})
	require.NoError(t, registry.RegisterCollector("sysinfo", "probe_errors", gauge))

	assert.True(t, registry.Unregister("sysinfo", "probe_errors"))
	assert.False(t, registry.Unregister("sysinfo", "probe_errors"))
}
