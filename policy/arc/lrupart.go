package arc

import (
	"github.com/moeryomenko/synx"

	"github.com/ivmalkov/polycache/internal/list"
	"github.com/ivmalkov/polycache/policy"
)

// lruPart holds the recency half of ARC: the T1 resident list and its B1
// ghost. Nodes carry an access counter; crossing the transform threshold
// is reported to the top level, which moves the entry to the frequency
// half. The part owns its lock; capacity is adaptive, the ghost capacity
// is fixed.
type lruPart[K comparable, V any] struct {
	lock      synx.Spinlock
	capacity  int
	threshold int

	index map[K]*list.Node[K, V]
	order *list.List[K, V] // front = least recent
	ghost *ghostCache[K]

	metrics policy.Metrics
}

func newLRUPart[K comparable, V any](capacity, ghostCapacity, threshold int, m policy.Metrics) *lruPart[K, V] {
	return &lruPart[K, V]{
		capacity:  capacity,
		threshold: threshold,
		index:     make(map[K]*list.Node[K, V]),
		order:     list.New[K, V](),
		ghost:     newGhostCache[K](ghostCapacity),
		metrics:   m,
	}
}

// put inserts or updates k→v, evicting the least recent entry into the
// ghost when full. Returns false when the part's adaptive capacity is
// zero, leaving admission to the caller.
func (p *lruPart[K, V]) put(k K, v V) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.capacity == 0 {
		return false
	}
	if n, ok := p.index[k]; ok {
		n.Value = v
		p.order.MoveToBack(n)
		return true
	}
	if len(p.index) >= p.capacity {
		p.evictVictim(policy.EvictCapacity)
	}
	n := &list.Node[K, V]{Key: k, Value: v, Count: 1}
	p.order.PushBack(n)
	p.index[k] = n
	return true
}

// get promotes the entry and bumps its access counter. shouldTransform
// reports whether the counter has reached the transform threshold; the
// move itself is the top level's call.
func (p *lruPart[K, V]) get(k K) (v V, shouldTransform, ok bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	n, found := p.index[k]
	if !found {
		return v, false, false
	}
	p.order.MoveToBack(n)
	n.Count++
	return n.Value, n.Count >= p.threshold, true
}

// remove deletes a resident entry without ghosting it (used when the top
// level relocates an entry to the frequency half, and by Remove).
func (p *lruPart[K, V]) remove(k K) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	n, ok := p.index[k]
	if !ok {
		return false
	}
	p.order.Remove(n)
	delete(p.index, k)
	return true
}

// consumeGhost reports and clears a B1 hit.
func (p *lruPart[K, V]) consumeGhost(k K) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.ghost.consume(k)
}

// grow raises the adaptive capacity by one.
func (p *lruPart[K, V]) grow() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.capacity++
}

// shrink lowers the adaptive capacity by one, evicting first when the
// part is full. Refuses (returns false) at zero so a transfer can never
// push a part negative.
func (p *lruPart[K, V]) shrink() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.capacity == 0 {
		return false
	}
	if len(p.index) >= p.capacity {
		p.evictVictim(policy.EvictAdaptive)
	}
	p.capacity--
	return true
}

// purge clears residents and ghosts and restores the given capacity.
func (p *lruPart[K, V]) purge(capacity int) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.capacity = capacity
	p.index = make(map[K]*list.Node[K, V])
	p.order.Init()
	p.ghost.purge()
}

func (p *lruPart[K, V]) len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.index)
}

// evictVictim moves the least recent entry to the ghost list.
// Caller holds the lock and guarantees the part is non-empty.
func (p *lruPart[K, V]) evictVictim(reason policy.EvictReason) {
	victim := p.order.Front()
	p.order.Remove(victim)
	delete(p.index, victim.Key)
	p.ghost.insert(victim.Key)
	p.metrics.Evict(reason)
}
