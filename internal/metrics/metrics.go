package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ObjectStoreCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_store_calls_total",
			Help: "Calls issued against the object store, by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	HeroCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hero_cache_lookups_total",
			Help: "Hero URL cache lookups, by result",
		},
		[]string{"result"},
	)
)
