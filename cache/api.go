package cache

import "context"

// Cache is a sharded, in-memory key/value cache. All methods are safe for
// concurrent use by multiple goroutines.
//
// Typical operation cost is amortized O(1): one hash, one map access and a
// constant amount of pointer fixes under a shard-local lock.
type Cache[K comparable, V any] interface {
	// Put inserts or updates k→v in the owning shard, promoting the entry
	// according to the shard's replacement policy.
	Put(k K, v V)

	// Get returns the value for k and a presence flag. On hit, the entry
	// is promoted according to the shard's policy. A miss returns the zero
	// value of V.
	Get(k K) (V, bool)

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced; only the
	// winning load runs. Returns ErrNoLoader when no Loader is configured.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Remove deletes k from its shard. The error follows the shard
	// engine's removal contract (LRU and LRU-K report absent keys).
	Remove(k K) error

	// Purge drops all entries shard by shard. There is no global
	// snapshot: entries written to already-purged shards while Purge runs
	// survive it.
	Purge()

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Close marks the cache closed. Afterwards Put, Remove and Purge do
	// nothing and Get misses; Len still reports resident entries, and
	// GetOrLoad still calls the Loader but does not store its result.
	Close() error
}
