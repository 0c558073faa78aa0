package arc

import "github.com/ivmalkov/polycache/policy"

// Option customizes a Cache at construction time.
type Option[K comparable, V any] func(*Cache[K, V])

// WithMetrics routes hit/miss/evict/size signals to m. Evictions caused
// by capacity transfers between the halves are reported as
// policy.EvictAdaptive.
func WithMetrics[K comparable, V any](m policy.Metrics) Option[K, V] {
	return func(c *Cache[K, V]) {
		if m != nil {
			c.metrics = m
		}
	}
}
