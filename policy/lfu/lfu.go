// Package lfu implements the Least-Frequently-Used replacement engine.
// Entries live in per-frequency buckets (insertion-ordered intrusive
// lists); eviction takes the oldest entry of the lowest non-empty bucket.
// A frequency-aging pass decays all counts once the running average access
// count exceeds a configured ceiling, so entries that were hot under a
// past workload cannot become unevictable.
package lfu

import (
	"fmt"
	"sort"

	"github.com/moeryomenko/synx"

	"github.com/ivmalkov/polycache/internal/list"
	"github.com/ivmalkov/polycache/policy"
)

// DefaultMaxAverage is the aging ceiling applied when WithMaxAverage is
// not given: high enough that aging never triggers for ordinary workloads.
const DefaultMaxAverage = 1_000_000

// Cache is an LFU cache with frequency aging. Safe for concurrent use;
// every operation runs under the engine lock.
type Cache[K comparable, V any] struct {
	lock     synx.Spinlock
	capacity int
	maxAvg   int

	index   map[K]*list.Node[K, V]
	buckets map[int]*list.List[K, V] // frequency → entries, oldest at front
	minFreq int                      // smallest non-empty frequency
	total   int                      // sum of resident access counts

	metrics policy.Metrics
	onEvict func(K, V)
}

// New constructs an LFU cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: lfu capacity %d", policy.ErrInvalidArgument, capacity)
	}
	c := &Cache[K, V]{
		capacity: capacity,
		maxAvg:   DefaultMaxAverage,
		index:    make(map[K]*list.Node[K, V], capacity),
		buckets:  make(map[int]*list.List[K, V]),
		minFreq:  1,
		metrics:  policy.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAvg < 1 {
		return nil, fmt.Errorf("%w: lfu max average %d", policy.ErrInvalidArgument, c.maxAvg)
	}
	return c, nil
}

// Put inserts or updates k→v. An update counts as an access; a new key at
// capacity first evicts the oldest entry of the lowest-frequency bucket.
func (c *Cache[K, V]) Put(k K, v V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if n, ok := c.index[k]; ok {
		n.Value = v
		c.touch(n)
		return
	}

	if len(c.index) == c.capacity {
		c.evict()
	}

	n := &list.Node[K, V]{Key: k, Value: v, Count: 1}
	c.bucket(1).PushBack(n)
	c.index[k] = n
	c.minFreq = 1
	c.recordAccess()
	c.metrics.Size(len(c.index))
}

// Get returns the value for k, bumping its frequency on hit. A miss
// changes nothing.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	n, ok := c.index[k]
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.touch(n)
	c.metrics.Hit()
	return n.Value, true
}

// Remove deletes k if present. An absent key is ignored; Remove always
// returns nil.
func (c *Cache[K, V]) Remove(k K) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	n, ok := c.index[k]
	if !ok {
		return nil
	}
	b := c.buckets[n.Count]
	b.Remove(n)
	if b.Len() == 0 {
		delete(c.buckets, n.Count)
		if n.Count == c.minFreq {
			c.updateMinFreq()
		}
	}
	delete(c.index, k)
	c.total -= n.Count
	c.metrics.Size(len(c.index))
	return nil
}

// Purge drops every entry and resets the frequency accounting.
func (c *Cache[K, V]) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.index = make(map[K]*list.Node[K, V], c.capacity)
	c.buckets = make(map[int]*list.List[K, V])
	c.minFreq = 1
	c.total = 0
	c.metrics.Size(0)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.index)
}

// touch moves n one frequency up and accounts the access.
// Caller holds the lock.
func (c *Cache[K, V]) touch(n *list.Node[K, V]) {
	b := c.buckets[n.Count]
	b.Remove(n)
	if b.Len() == 0 {
		delete(c.buckets, n.Count)
		// The node moves to n.Count+1, so nothing below that is occupied.
		if n.Count == c.minFreq {
			c.minFreq++
		}
	}
	n.Count++
	c.bucket(n.Count).PushBack(n)
	c.recordAccess()
}

// evict removes the oldest entry at minFreq. Caller holds the lock and
// guarantees the cache is full; the caller re-establishes minFreq by
// inserting the new entry at frequency 1.
func (c *Cache[K, V]) evict() {
	b := c.buckets[c.minFreq]
	victim := b.Front()
	b.Remove(victim)
	if b.Len() == 0 {
		delete(c.buckets, c.minFreq)
	}
	delete(c.index, victim.Key)
	c.total -= victim.Count
	c.metrics.Evict(policy.EvictCapacity)
	if c.onEvict != nil {
		c.onEvict(victim.Key, victim.Value)
	}
}

// recordAccess bumps the running total and triggers aging once the average
// access count exceeds the ceiling. Caller holds the lock.
func (c *Cache[K, V]) recordAccess() {
	c.total++
	if len(c.index) == 0 {
		return
	}
	if c.total/len(c.index) > c.maxAvg {
		c.age()
	}
}

// age decays every resident frequency by maxAvg/2 (floored at 1) and
// rebuilds the buckets. Old buckets are drained in ascending frequency
// order and nodes keep their relative order, so entries that were colder
// before aging stay ahead in the eviction queue after it. The running
// total is recomputed from the decayed counts.
func (c *Cache[K, V]) age() {
	decay := c.maxAvg / 2

	freqs := make([]int, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	sort.Ints(freqs)

	old := c.buckets
	c.buckets = make(map[int]*list.List[K, V], len(old))
	c.total = 0

	for _, f := range freqs {
		b := old[f]
		for b.Len() > 0 {
			n := b.Front()
			b.Remove(n)
			n.Count -= decay
			if n.Count < 1 {
				n.Count = 1
			}
			c.bucket(n.Count).PushBack(n)
			c.total += n.Count
		}
	}
	c.updateMinFreq()
}

// bucket returns the list for frequency f, creating it when absent.
// Caller holds the lock.
func (c *Cache[K, V]) bucket(f int) *list.List[K, V] {
	b, ok := c.buckets[f]
	if !ok {
		b = list.New[K, V]()
		c.buckets[f] = b
	}
	return b
}

// updateMinFreq rescans for the smallest non-empty frequency (1 when the
// cache is empty). Caller holds the lock.
func (c *Cache[K, V]) updateMinFreq() {
	if len(c.buckets) == 0 {
		c.minFreq = 1
		return
	}
	first := true
	for f := range c.buckets {
		if first || f < c.minFreq {
			c.minFreq = f
			first = false
		}
	}
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// Factory returns a policy.Factory producing LFU engines; the sharded
// wrapper uses it to build one engine per shard.
func Factory[K comparable, V any](opts ...Option[K, V]) policy.Factory[K, V] {
	return factory[K, V]{opts: opts}
}

type factory[K comparable, V any] struct{ opts []Option[K, V] }

func (f factory[K, V]) New(capacity int) (policy.Engine[K, V], error) {
	return New[K, V](capacity, f.opts...)
}
