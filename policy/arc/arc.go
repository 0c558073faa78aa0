// Package arc implements the Adaptive Replacement Cache engine. Residents
// split between a recency half (T1) and a frequency half (T2), each backed
// by a ghost list of recently evicted keys (B1, B2). A hit on a ghost
// shifts one unit of capacity toward the half that would have kept the
// entry, so the split adapts to the workload. The halves are independent
// sub-engines with their own locks; the top level holds no lock and calls
// them in a fixed order (ghost check, then probe), so no two part locks
// are ever held at once.
package arc

import (
	"fmt"

	"github.com/ivmalkov/polycache/policy"
)

// Cache is an ARC cache. Resident capacities of the two halves always sum
// to the configured capacity; ghost capacities are fixed at the configured
// capacity each.
type Cache[K comparable, V any] struct {
	capacity  int
	threshold int

	recent   *lruPart[K, V]
	frequent *lfuPart[K, V]

	metrics policy.Metrics
}

// New constructs an ARC cache. transformThreshold is the access count at
// which an entry moves from the recency half to the frequency half; 1
// moves entries on their first re-access. The initial split gives the
// recency half ⌈capacity/2⌉.
func New[K comparable, V any](capacity, transformThreshold int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: arc capacity %d", policy.ErrInvalidArgument, capacity)
	}
	if transformThreshold <= 0 {
		return nil, fmt.Errorf("%w: arc transform threshold %d", policy.ErrInvalidArgument, transformThreshold)
	}

	c := &Cache[K, V]{
		capacity:  capacity,
		threshold: transformThreshold,
		metrics:   policy.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	rc := (capacity + 1) / 2
	c.recent = newLRUPart[K, V](rc, capacity, transformThreshold, c.metrics)
	c.frequent = newLFUPart[K, V](capacity-rc, capacity, c.metrics)
	return c, nil
}

// Get returns the value for k. Ghost hits adapt the split first; a recency
// hit that crosses the transform threshold relocates the entry to the
// frequency half.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.adapt(k)

	if v, shouldTransform, ok := c.recent.get(k); ok {
		if shouldTransform {
			// Admit into the frequency half first; only drop the recency
			// copy once the move is sure, so the entry cannot be lost.
			if c.frequent.put(k, v) {
				c.recent.remove(k)
			}
		}
		c.metrics.Hit()
		return v, true
	}

	if v, ok := c.frequent.get(k); ok {
		c.metrics.Hit()
		return v, true
	}

	c.metrics.Miss()
	var zero V
	return zero, false
}

// Put inserts or updates k→v. Updates land in whichever half holds the
// key; new keys enter the recency half (or the frequency half when the
// recency half's adaptive capacity is zero).
func (c *Cache[K, V]) Put(k K, v V) {
	c.adapt(k)

	if c.frequent.contains(k) {
		c.frequent.put(k, v)
		return
	}
	if !c.recent.put(k, v) {
		c.frequent.put(k, v)
	}
}

// Remove clears k from whichever resident or ghost structure holds it.
// An absent key is ignored; Remove always returns nil.
func (c *Cache[K, V]) Remove(k K) error {
	if !c.recent.remove(k) {
		c.frequent.remove(k)
	}
	c.recent.consumeGhost(k)
	c.frequent.consumeGhost(k)
	return nil
}

// Purge drops all residents and ghosts and restores the initial split.
func (c *Cache[K, V]) Purge() {
	rc := (c.capacity + 1) / 2
	c.recent.purge(rc)
	c.frequent.purge(c.capacity - rc)
	c.metrics.Size(0)
}

// Len returns the number of resident entries across both halves.
func (c *Cache[K, V]) Len() int {
	return c.recent.len() + c.frequent.len()
}

// adapt consumes a ghost hit for k and transfers one unit of capacity
// toward the half whose ghost was hit. The shrinking half evicts under its
// own policy when full and refuses at zero, in which case no transfer
// happens.
func (c *Cache[K, V]) adapt(k K) {
	if c.recent.consumeGhost(k) {
		if c.frequent.shrink() {
			c.recent.grow()
		}
		return
	}
	if c.frequent.consumeGhost(k) {
		if c.recent.shrink() {
			c.frequent.grow()
		}
	}
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)

// Factory returns a policy.Factory producing ARC engines with the given
// transform threshold.
func Factory[K comparable, V any](transformThreshold int, opts ...Option[K, V]) policy.Factory[K, V] {
	return factory[K, V]{threshold: transformThreshold, opts: opts}
}

type factory[K comparable, V any] struct {
	threshold int
	opts      []Option[K, V]
}

func (f factory[K, V]) New(capacity int) (policy.Engine[K, V], error) {
	return New[K, V](capacity, f.threshold, f.opts...)
}
