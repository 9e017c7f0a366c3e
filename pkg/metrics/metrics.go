package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ExternalCallsTotal counts outbound provider calls by provider and outcome.
	ExternalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_external_calls_total",
			Help: "Outbound provider calls partitioned by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	// RetriesTotal counts retry attempts performed by the rate-limited caller.
	RetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_retries_total",
			Help: "Retry attempts performed against external providers.",
		},
		[]string{"provider"},
	)

	// WalletsAnalyzedTotal counts wallets processed, by final category.
	WalletsAnalyzedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_wallets_analyzed_total",
			Help: "Wallets analyzed partitioned by coverage category.",
		},
		[]string{"category"},
	)

	// BatchDuration observes wall-clock duration of full batch runs.
	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_batch_duration_seconds",
			Help:    "Duration of batch analysis runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	// RequestsTotal counts inbound analyze requests by HTTP status.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Inbound analyze requests partitioned by HTTP status.",
		},
		[]string{"status"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call exactly once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ExternalCallsTotal,
		RetriesTotal,
		WalletsAnalyzedTotal,
		BatchDuration,
		RequestsTotal,
	)
}
