// Package metrics holds the Prometheus counters for resolver and cache
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mvps-vip/showcase/internal/fetch"
	"github.com/mvps-vip/showcase/internal/kvcache"
)

var (
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_resolve_total",
			Help: "Resolve chains by dataset, winning source and result",
		},
		[]string{"dataset", "source", "result"},
	)

	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_cache_ops_total",
			Help: "Key-value cache operations by op and status",
		},
		[]string{"op", "status"},
	)
)

// ResolveObserver counts every resolve chain.
func ResolveObserver() fetch.Observer {
	return func(key, source, result string) {
		if source == "" {
			source = "none"
		}
		ResolveTotal.WithLabelValues(key, source, result).Inc()
	}
}

// CacheObserver counts every cache get and set.
func CacheObserver() kvcache.Observer {
	return func(op string, status kvcache.Status) {
		CacheOpsTotal.WithLabelValues(op, status.String()).Inc()
	}
}
