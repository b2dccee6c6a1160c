package observability

import "time"

const (
	MetricConversionsTotal  = "conversions.total"
	MetricConversionsFailed = "conversions.failed"
	MetricConversionsActive = "conversions.inflight"
	MetricConversionLatency = "conversions.latency_ms"
	metricTargetPrefix      = "conversions.target."
	metricErrorKindPrefix   = "conversions.error."
)

// ConversionMetrics records conversion outcomes on a MetricsRegistry.
type ConversionMetrics struct {
	registry *MetricsRegistry
}

func NewConversionMetrics(registry *MetricsRegistry) *ConversionMetrics {
	if registry == nil {
		registry = NewMetricsRegistry()
	}
	return &ConversionMetrics{registry: registry}
}

func (m *ConversionMetrics) Registry() *MetricsRegistry {
	return m.registry
}

// Start marks a conversion as in flight. The returned func records the
// outcome; errKind is empty on success.
func (m *ConversionMetrics) Start(target string) func(errKind string) time.Duration {
	started := time.Now()
	inflight := m.registry.Gauge(MetricConversionsActive)
	inflight.Inc()
	return func(errKind string) time.Duration {
		elapsed := time.Since(started)
		inflight.Dec()
		m.registry.Counter(MetricConversionsTotal).Inc()
		m.registry.Histogram(MetricConversionLatency).Observe(float64(elapsed.Microseconds()) / 1000)
		if errKind != "" {
			m.registry.Counter(MetricConversionsFailed).Inc()
			m.registry.Counter(metricErrorKindPrefix + errKind).Inc()
			return elapsed
		}
		m.registry.Counter(metricTargetPrefix + target).Inc()
		return elapsed
	}
}
