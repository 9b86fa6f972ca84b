package cache

import "genassist/internal/metrics"

func recordHit(name string) {
	metrics.CacheHitsTotal.WithLabelValues(name).Inc()
}

func recordMiss(name string) {
	metrics.CacheMissesTotal.WithLabelValues(name).Inc()
}

func recordEviction(name string) {
	metrics.CacheEvictionsTotal.WithLabelValues(name).Inc()
}
