package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hansard",
			Name:      "search_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"operation", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hansard",
			Name:      "search_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SummaryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hansard",
			Name:      "summary_cache_total",
			Help:      "Summary cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	HitsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hansard",
			Name:      "hits_cache_total",
			Help:      "Hits cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExportRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hansard",
			Name:      "export_rows_total",
			Help:      "Total rows written by TSV exports",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SummaryCacheTotal)
	prometheus.MustRegister(HitsCacheTotal)
	prometheus.MustRegister(ExportRowsTotal)
	searchMetricsRegistered = true
}
