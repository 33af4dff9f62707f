package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCAttemptsTotal tracks RPC attempts issued by the retry engine
	RPCAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dfsclient_rpc_attempts_total",
			Help: "Total number of RPC attempts issued",
		},
	)

	// RPCRetriesTotal tracks attempts that were retried after an IO error
	RPCRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dfsclient_rpc_retries_total",
			Help: "Total number of RPC retries after transport errors",
		},
	)

	// RPCFailuresTotal tracks terminal failures by classified kind
	RPCFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dfsclient_rpc_failures_total",
			Help: "Total number of terminal RPC failures",
		},
		[]string{"kind"},
	)

	// RPCAttemptLatency tracks the latency of individual RPC attempts
	RPCAttemptLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dfsclient_rpc_attempt_latency_seconds",
			Help:    "RPC attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheHitsTotal tracks address cache hits
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dfsclient_address_cache_hits_total",
			Help: "Total number of address cache hits",
		},
	)

	// CacheMissesTotal tracks address cache misses (including expiries)
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dfsclient_address_cache_misses_total",
			Help: "Total number of address cache misses",
		},
	)

	// CacheEvictionsTotal tracks TTL evictions from the address cache
	CacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dfsclient_address_cache_evictions_total",
			Help: "Total number of expired address cache entries evicted",
		},
	)

	// DirectoryQueriesTotal tracks queries against the directory service
	DirectoryQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dfsclient_directory_queries_total",
			Help: "Total number of directory service queries",
		},
		[]string{"method"},
	)
)
