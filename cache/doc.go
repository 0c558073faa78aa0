// Package cache provides a fast, generic, sharded in-memory cache with
// pluggable replacement policies: LRU by default, with LRU-K, LFU (with
// frequency aging) and ARC available through the policy packages.
//
// # Design
//
//   - Concurrency: the cache is split into shards, each an independent
//     policy engine guarded by its own lock. The default shard count is a
//     power-of-two heuristic derived from GOMAXPROCS, so routing is a
//     single hash plus a mask and operations on different shards never
//     contend.
//
//   - Storage: each engine keeps a map for lookups and one or more
//     intrusive doubly linked lists whose order encodes the policy's
//     priority. All operations are O(1) expected; LFU bucket maintenance
//     is O(1) amortized.
//
//   - Policies: the engine per shard is pluggable via Options.Engine.
//     LRU is the default. LRU-K resists scan pollution by requiring K
//     touches before admission; LFU evicts by frequency and ages counts
//     so stale hot entries stay evictable; ARC adapts its recency/
//     frequency split to the workload using ghost lists.
//
//   - GetOrLoad: coalesces concurrent loads for the same key; if Loader
//     is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss signals from the
//     wrapper; engines accept their own metrics sink for eviction
//     signals. By default nothing is recorded; plug the metrics/prom
//     adapter to export Prometheus counters.
//
// # Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    // invalid configuration
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	_ = c.Remove("a")
//
// # Switching policies
//
//	c, err := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Engine:   lfu.Factory[string, string](),
//	})
//
// # With GetOrLoad
//
//	c, err := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil // e.g. fetch from DB
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Standalone engines are also usable directly when sharding is not
// needed; see the policy/lru, policy/lruk, policy/lfu and policy/arc
// packages.
package cache
