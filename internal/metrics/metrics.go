package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Batch collector metrics
	BatchCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampler_batch_calls_total",
			Help: "Total number of batched transport round-trips",
		},
		[]string{"status"},
	)

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sampler_batch_size",
		Help:    "Number of operations per batch round-trip",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sampler_batch_duration_seconds",
		Help:    "Batched transport round-trip duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	OperationNoData = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampler_operation_no_data_total",
		Help: "Total number of operations resolved to the no-data sentinel",
	})

	// Pool cache metrics
	PoolCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampler_pool_cache_hits_total",
		Help: "Total number of fresh pool cache hits",
	})

	PoolCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampler_pool_cache_misses_total",
		Help: "Total number of pool cache misses triggering a fetch",
	})

	PoolCacheInflightWaits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampler_pool_cache_inflight_waits_total",
		Help: "Total number of lookups that joined an in-flight fetch",
	})

	PoolCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sampler_pool_cache_size",
		Help: "Current number of pair entries in the pool cache",
	})

	PoolFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampler_pool_fetch_failures_total",
		Help: "Total number of failed pool-data fetches",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampler_quote_requests_total",
			Help: "Total number of quote aggregation requests",
		},
		[]string{"side", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sampler_quote_duration_seconds",
			Help:    "Quote aggregation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"side"},
	)

	QuoteRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampler_quote_rows_total",
			Help: "Total number of quote rows emitted per source",
		},
		[]string{"source"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampler_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sampler_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
