// Package lruk implements the LRU-K replacement engine: a two-stage
// admission scheme that keeps scan traffic out of the main cache. Accesses
// are counted in an LRU-managed history; only keys touched at least K
// times are admitted to the main LRU cache, carrying the most recently
// offered value.
package lruk

import (
	"fmt"

	"github.com/moeryomenko/synx"

	"github.com/ivmalkov/polycache/policy"
	"github.com/ivmalkov/polycache/policy/lru"
)

// Cache is an LRU-K cache. The outer lock serializes public operations;
// the two inner LRU caches (main and history) keep their own locks, which
// are only ever taken while the outer lock is held.
type Cache[K comparable, V any] struct {
	lock synx.Spinlock
	k    int

	main    *lru.Cache[K, V]   // resident entries, plain LRU
	history *lru.Cache[K, int] // key → access count for non-resident keys
	pending map[K]V            // most recently offered value per counted key

	metrics policy.Metrics
}

// New constructs an LRU-K cache. capacity bounds the main cache,
// historyCapacity bounds the access-count history, and k is the admission
// threshold (k = 1 admits on first touch).
func New[K comparable, V any](capacity, historyCapacity, k int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: lruk capacity %d", policy.ErrInvalidArgument, capacity)
	}
	if historyCapacity <= 0 {
		return nil, fmt.Errorf("%w: lruk history capacity %d", policy.ErrInvalidArgument, historyCapacity)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: lruk threshold %d", policy.ErrInvalidArgument, k)
	}

	c := &Cache[K, V]{
		k:       k,
		pending: make(map[K]V),
		metrics: policy.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.main, err = lru.New[K, V](capacity,
		lru.WithOnEvict[K, V](func(K, V) { c.metrics.Evict(policy.EvictCapacity) }))
	if err != nil {
		return nil, err
	}
	// Evicting a history record forgets the count and drops the pending
	// value with it; the key starts cold on its next touch.
	c.history, err = lru.New[K, int](historyCapacity,
		lru.WithOnEvict[K, int](func(k K, _ int) {
			delete(c.pending, k)
			c.metrics.Evict(policy.EvictHistory)
		}))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the value for k when it is resident. For a non-resident key
// the access is counted; the access that brings the count to K promotes
// the key into the main cache and returns the pending value. Below the
// threshold Get returns absent even when a pending value exists.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if v, ok := c.main.Get(k); ok {
		c.metrics.Hit()
		return v, true
	}

	count := c.bumpHistory(k)
	if v, ok := c.pending[k]; ok && count >= c.k {
		c.promote(k, v)
		c.metrics.Hit()
		return v, true
	}

	c.metrics.Miss()
	var zero V
	return zero, false
}

// Put inserts or updates k→v. A resident key is updated in place; a
// non-resident key has the offer recorded and counted, and is admitted as
// soon as its count reaches K.
func (c *Cache[K, V]) Put(k K, v V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.main.Get(k); ok {
		c.main.Put(k, v)
		return
	}

	c.pending[k] = v
	if count := c.bumpHistory(k); count >= c.k {
		c.promote(k, v)
	}
}

// Remove deletes k from the main cache and forgets any history the key
// accumulated. Returns policy.ErrNotFound when the key was not resident.
func (c *Cache[K, V]) Remove(k K) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	err := c.main.Remove(k)
	delete(c.pending, k)
	_ = c.history.Remove(k)
	return err
}

// Purge drops resident entries, history counts and pending values.
func (c *Cache[K, V]) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.main.Purge()
	c.history.Purge()
	c.pending = make(map[K]V)
	c.metrics.Size(0)
}

// Len returns the number of resident entries; counted-but-unadmitted keys
// do not count.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.main.Len()
}

// bumpHistory increments the access count for k (creating it at 1) and
// returns the new count. Caller holds the outer lock.
func (c *Cache[K, V]) bumpHistory(k K) int {
	count, _ := c.history.Get(k)
	count++
	c.history.Put(k, count)
	return count
}

// promote admits k into the main cache, clearing its history and pending
// state. Caller holds the outer lock.
func (c *Cache[K, V]) promote(k K, v V) {
	_ = c.history.Remove(k)
	delete(c.pending, k)
	c.main.Put(k, v)
	c.metrics.Size(c.main.Len())
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// Factory returns a policy.Factory producing LRU-K engines with the given
// history capacity and admission threshold.
func Factory[K comparable, V any](historyCapacity, k int, opts ...Option[K, V]) policy.Factory[K, V] {
	return factory[K, V]{historyCapacity: historyCapacity, k: k, opts: opts}
}

type factory[K comparable, V any] struct {
	historyCapacity int
	k               int
	opts            []Option[K, V]
}

func (f factory[K, V]) New(capacity int) (policy.Engine[K, V], error) {
	return New[K, V](capacity, f.historyCapacity, f.k, f.opts...)
}
