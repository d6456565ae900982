// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StoreReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_reloads_total",
			Help: "Total number of store loads by collection and outcome",
		},
		[]string{"collection", "outcome"},
	)

	StoreRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_records",
			Help: "Number of records currently held per collection",
		},
		[]string{"collection"},
	)

	FirmDetailCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_detail_cache_total",
			Help: "Firm detail cache lookups by result",
		},
		[]string{"result"},
	)

	RefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_refresh_runs_total",
			Help: "External refresh command runs by target and outcome",
		},
		[]string{"target", "outcome"},
	)
)
