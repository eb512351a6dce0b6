package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightSearches    prometheus.Counter
	AirportLookups    prometheus.Counter
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	UpstreamRetries   prometheus.Counter
	RateLimitRejected prometheus.Counter
	UpstreamLatency   prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FlightSearches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_searches_total",
			Help:      "The total number of flight search calls",
		}),
		AirportLookups: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_lookups_total",
			Help:      "The total number of airport lookup calls",
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of cache hits",
		}, []string{"cache"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "The total number of cache misses",
		}, []string{"cache"}),
		UpstreamRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "The total number of retried upstream attempts",
		}),
		RateLimitRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejected_total",
			Help:      "The total number of calls rejected by the local quota",
		}),
		UpstreamLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Time taken by upstream calls including retries",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
