package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCacheHits   = "archscribe.cache.hits"
	metricCacheMisses = "archscribe.cache.misses"

	attrCacheName = "cache"
)

// CacheStatsProvider reports cumulative hit/miss counts for one in-process
// cache. pkg/uastlite.Adapter's per-language parser cache and
// pkg/clonecache.Service's on-disk repository cache both implement it.
type CacheStatsProvider interface {
	CacheHits() int64
	CacheMisses() int64
}

// RegisterCacheMetrics registers one observable gauge pair (hits, misses),
// read from each named provider at collection time rather than pushed on
// every access — a cache's cumulative counters are cheap to read and
// otherwise idle between scrapes. A nil provider is skipped.
func RegisterCacheMetrics(mt metric.Meter, caches map[string]CacheStatsProvider) error {
	hits, err := mt.Int64ObservableGauge(metricCacheHits,
		metric.WithDescription("Cumulative cache hits by cache name"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheHits, err)
	}

	misses, err := mt.Int64ObservableGauge(metricCacheMisses,
		metric.WithDescription("Cumulative cache misses by cache name"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheMisses, err)
	}

	_, err = mt.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for name, provider := range caches {
			if provider == nil {
				continue
			}

			attrs := metric.WithAttributes(attribute.String(attrCacheName, name))
			o.ObserveInt64(hits, provider.CacheHits(), attrs)
			o.ObserveInt64(misses, provider.CacheMisses(), attrs)
		}

		return nil
	}, hits, misses)
	if err != nil {
		return fmt.Errorf("register cache metrics callback: %w", err)
	}

	return nil
}
