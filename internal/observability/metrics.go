package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulboard_gateway_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soulboard_gateway_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// settlement quotes computed, labelled by pricing model
	QuoteCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulboard_gateway_quotes_total",
			Help: "Total settlement quotes computed",
		},
		[]string{"model"},
	)

	// address derivations served, labelled by entity kind
	DerivationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulboard_gateway_derivations_total",
			Help: "Total address derivations served",
		},
		[]string{"entity"},
	)

	// account cache outcomes
	AccountCacheCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulboard_gateway_account_cache_total",
			Help: "Account cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// live change-notification subscriptions
	ActiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "soulboard_gateway_active_subscriptions",
			Help: "Currently active account subscriptions",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		QuoteCount,
		DerivationCount,
		AccountCacheCount,
		ActiveSubscriptions,
	)
}
