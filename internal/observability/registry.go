package observability

import "time"

// MetricsRegistry abstracts metric recording so handlers take an injected
// registry instead of touching the global Prometheus collectors directly.
type MetricsRegistry interface {
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	IncrementQuotes(model string)
	IncrementDerivations(entity string)
	IncrementAccountCache(outcome string)
	SetActiveSubscriptions(n int)
}

// PrometheusRegistry implements MetricsRegistry over the package collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementQuotes(model string) {
	QuoteCount.WithLabelValues(model).Inc()
}

func (r *PrometheusRegistry) IncrementDerivations(entity string) {
	DerivationCount.WithLabelValues(entity).Inc()
}

func (r *PrometheusRegistry) IncrementAccountCache(outcome string) {
	AccountCacheCount.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) SetActiveSubscriptions(n int) {
	ActiveSubscriptions.Set(float64(n))
}
