// Package lru implements the Least-Recently-Used replacement engine: one
// recency-ordered intrusive list plus a key index, O(1) promotion on every
// access, tail eviction on overflow.
package lru

import (
	"fmt"

	"github.com/moeryomenko/synx"

	"github.com/ivmalkov/polycache/internal/list"
	"github.com/ivmalkov/polycache/policy"
)

// Cache is an LRU cache. Safe for concurrent use; every operation runs
// under the engine lock.
type Cache[K comparable, V any] struct {
	lock     synx.Spinlock
	capacity int
	index    map[K]*list.Node[K, V]
	order    *list.List[K, V] // front = least recent, back = most recent

	metrics policy.Metrics
	onEvict func(K, V)
}

// New constructs an LRU cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: lru capacity %d", policy.ErrInvalidArgument, capacity)
	}
	c := &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]*list.Node[K, V], capacity),
		order:    list.New[K, V](),
		metrics:  policy.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Put inserts or updates k→v. An update promotes the entry without
// evicting; a new key at capacity first evicts the least recently used
// entry.
func (c *Cache[K, V]) Put(k K, v V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if n, ok := c.index[k]; ok {
		n.Value = v
		c.order.MoveToBack(n)
		return
	}

	if len(c.index) == c.capacity {
		c.evictOldest()
	}

	n := &list.Node[K, V]{Key: k, Value: v}
	c.order.PushBack(n)
	c.index[k] = n
	c.metrics.Size(len(c.index))
}

// Get returns the value for k, promoting the entry on hit. A miss changes
// nothing.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	n, ok := c.index[k]
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.order.MoveToBack(n)
	c.metrics.Hit()
	return n.Value, true
}

// Remove deletes k. Returns policy.ErrNotFound if the key is absent.
func (c *Cache[K, V]) Remove(k K) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	n, ok := c.index[k]
	if !ok {
		return fmt.Errorf("%w: %v", policy.ErrNotFound, k)
	}
	c.order.Remove(n)
	delete(c.index, k)
	c.metrics.Size(len(c.index))
	return nil
}

// Purge drops every entry, keeping the configured capacity.
func (c *Cache[K, V]) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.index = make(map[K]*list.Node[K, V], c.capacity)
	c.order.Init()
	c.metrics.Size(0)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.index)
}

// evictOldest removes the front (least recently used) entry.
// Caller holds the lock and guarantees the cache is non-empty.
func (c *Cache[K, V]) evictOldest() {
	victim := c.order.Front()
	c.order.Remove(victim)
	delete(c.index, victim.Key)
	c.metrics.Evict(policy.EvictCapacity)
	if c.onEvict != nil {
		c.onEvict(victim.Key, victim.Value)
	}
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// Factory returns a policy.Factory producing LRU engines; the sharded
// wrapper uses it to build one engine per shard.
func Factory[K comparable, V any](opts ...Option[K, V]) policy.Factory[K, V] {
	return factory[K, V]{opts: opts}
}

type factory[K comparable, V any] struct{ opts []Option[K, V] }

func (f factory[K, V]) New(capacity int) (policy.Engine[K, V], error) {
	return New[K, V](capacity, f.opts...)
}
