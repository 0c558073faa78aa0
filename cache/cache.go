package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ivmalkov/polycache/internal/flight"
	"github.com/ivmalkov/polycache/internal/util"
	"github.com/ivmalkov/polycache/policy"
	"github.com/ivmalkov/polycache/policy/lru"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
var ErrNoLoader = errors.New("cache: no Loader provided")

// shard pairs a policy engine with its hot counters. The engine carries
// its own lock; the counters sit on separate cache lines so concurrent
// bumps from different shards do not false-share.
type shard[K comparable, V any] struct {
	engine policy.Engine[K, V]

	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
}

// cache is the sharded wrapper: keys route by hash to one of N independent
// engines, so operations on different shards never contend.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	opt Options[K, V]

	// Coalesces concurrent loads in GetOrLoad.
	group flight.Group[K, V]
}

// New constructs a sharded cache from the provided Options. The total
// capacity is split across shards by ceiling division; the shard count is
// rounded up to a power of two so routing is a mask.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w: cache capacity %d", policy.ErrInvalidArgument, opt.Capacity)
	}
	if opt.Shards < 0 {
		return nil, fmt.Errorf("%w: shard count %d", policy.ErrInvalidArgument, opt.Shards)
	}
	if opt.Metrics == nil {
		opt.Metrics = policy.NoopMetrics{}
	}
	if opt.Engine == nil {
		opt.Engine = lru.Factory[K, V]()
	}
	if opt.Hasher == nil {
		opt.Hasher = util.Hash64[K]
	}

	n := opt.Shards
	if n == 0 {
		n = util.ReasonableShardCount()
	} else {
		n = int(util.NextPow2(uint64(n)))
	}

	perShard := (opt.Capacity + n - 1) / n
	shards := make([]*shard[K, V], n)
	for i := range shards {
		eng, err := opt.Engine.New(perShard)
		if err != nil {
			return nil, err
		}
		shards[i] = &shard[K, V]{engine: eng}
	}

	return &cache[K, V]{
		shards: shards,
		hash:   opt.Hasher,
		opt:    opt,
	}, nil
}

// Put inserts or updates k→v in the owning shard.
func (c *cache[K, V]) Put(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).engine.Put(k, v)
}

// Get returns the value for k, promoting the entry in its shard on hit.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	s := c.getShard(k)
	v, ok := s.engine.Get(k)
	if ok {
		s.hits.Add(1)
		c.opt.Metrics.Hit()
	} else {
		s.misses.Add(1)
		c.opt.Metrics.Miss()
	}
	return v, ok
}

// GetOrLoad returns the value for k, loading it through Options.Loader on
// miss. Concurrent loads for the same key run once; followers share the
// result. A follower's ctx cancellation unblocks only that follower.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return c.group.Do(ctx, k, func() (V, error) {
		// Re-check after winning the flight: a concurrent Put or an
		// earlier flight may have filled the entry already.
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
}

// Remove deletes k from its shard.
func (c *cache[K, V]) Remove(k K) error {
	if c.closed.Load() {
		return nil
	}
	return c.getShard(k).engine.Remove(k)
}

// Purge drops all entries, one shard at a time.
func (c *cache[K, V]) Purge() {
	if c.closed.Load() {
		return
	}
	for _, s := range c.shards {
		s.engine.Purge()
	}
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.engine.Len()
	}
	return total
}

// Close marks the cache closed. Later Put, Remove and Purge calls do
// nothing and Get misses; Len and the Loader call in GetOrLoad still run.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// getShard routes k to its shard. The shard count is a power of two, so
// ShardIndex reduces to a mask.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}

// stats sums the per-shard counters; used by tests to observe routing and
// hit-rate behavior without exporting a statistics API.
func (c *cache[K, V]) stats() (hits, misses uint64) {
	for _, s := range c.shards {
		hits += s.hits.Load()
		misses += s.misses.Load()
	}
	return hits, misses
}
