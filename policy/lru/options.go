package lru

import "github.com/ivmalkov/polycache/policy"

// Option customizes a Cache at construction time.
type Option[K comparable, V any] func(*Cache[K, V])

// WithMetrics routes hit/miss/evict/size signals to m.
func WithMetrics[K comparable, V any](m policy.Metrics) Option[K, V] {
	return func(c *Cache[K, V]) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithOnEvict registers a callback invoked for every capacity eviction,
// under the engine lock; keep it lightweight.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = fn }
}
