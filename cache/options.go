package cache

import (
	"context"

	"github.com/ivmalkov/polycache/policy"
)

// Options configures the sharded cache. Zero values get sane defaults in
// New:
//   - nil Engine  => LRU shards
//   - Shards == 0 => auto (≈2×GOMAXPROCS, rounded to a power of two)
//   - nil Hasher  => the built-in key hash
//   - nil Metrics => policy.NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split evenly across shards
	// (ceiling division, so the sum may slightly exceed Capacity).
	Capacity int

	// Shards is the shard count, rounded up to a power of two. Zero picks
	// an automatic value; a negative count is invalid.
	Shards int

	// Engine builds one replacement engine per shard. Defaults to LRU;
	// pass lfu.Factory, lruk.Factory or arc.Factory to switch policies
	// without touching call sites.
	Engine policy.Factory[K, V]

	// Hasher overrides the shard-routing hash. The default handles
	// string, byte-slice/array and integer keys.
	Hasher func(K) uint64

	// Metrics receives hit/miss signals from the wrapper. Per-engine
	// eviction signals are wired through the engine factory's own
	// options.
	Metrics policy.Metrics

	// Loader fetches a value on cache miss; used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)
}
