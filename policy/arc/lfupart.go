package arc

import (
	"github.com/moeryomenko/synx"

	"github.com/ivmalkov/polycache/internal/list"
	"github.com/ivmalkov/polycache/policy"
)

// lfuPart holds the frequency half of ARC: the T2 residents in frequency
// buckets (no aging) and the B2 ghost. The part owns its lock; capacity
// is adaptive, the ghost capacity is fixed.
type lfuPart[K comparable, V any] struct {
	lock     synx.Spinlock
	capacity int

	index   map[K]*list.Node[K, V]
	buckets map[int]*list.List[K, V] // frequency → entries, oldest at front
	minFreq int
	ghost   *ghostCache[K]

	metrics policy.Metrics
}

func newLFUPart[K comparable, V any](capacity, ghostCapacity int, m policy.Metrics) *lfuPart[K, V] {
	return &lfuPart[K, V]{
		capacity: capacity,
		index:    make(map[K]*list.Node[K, V]),
		buckets:  make(map[int]*list.List[K, V]),
		minFreq:  1,
		ghost:    newGhostCache[K](ghostCapacity),
		metrics:  m,
	}
}

// put inserts or updates k→v, evicting the least frequent entry into the
// ghost when full. Returns false when the part's adaptive capacity is
// zero.
func (p *lfuPart[K, V]) put(k K, v V) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.capacity == 0 {
		return false
	}
	if n, ok := p.index[k]; ok {
		n.Value = v
		p.bump(n)
		return true
	}
	if len(p.index) >= p.capacity {
		p.evictVictim(policy.EvictCapacity)
	}
	n := &list.Node[K, V]{Key: k, Value: v, Count: 1}
	p.bucket(1).PushBack(n)
	p.index[k] = n
	p.minFreq = 1
	return true
}

// get returns the value for k, bumping its frequency on hit.
func (p *lfuPart[K, V]) get(k K) (V, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	n, ok := p.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	p.bump(n)
	return n.Value, true
}

// contains reports residency without access side effects; the top level
// uses it to route updates.
func (p *lfuPart[K, V]) contains(k K) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	_, ok := p.index[k]
	return ok
}

// remove deletes a resident entry without ghosting it.
func (p *lfuPart[K, V]) remove(k K) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	n, ok := p.index[k]
	if !ok {
		return false
	}
	p.detach(n)
	delete(p.index, k)
	return true
}

// consumeGhost reports and clears a B2 hit.
func (p *lfuPart[K, V]) consumeGhost(k K) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.ghost.consume(k)
}

// grow raises the adaptive capacity by one.
func (p *lfuPart[K, V]) grow() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.capacity++
}

// shrink lowers the adaptive capacity by one, evicting first when the
// part is full. Refuses at zero.
func (p *lfuPart[K, V]) shrink() bool {
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
func (p *lfuPart[K, V]) purge(capacity int) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.capacity = capacity
	p.index = make(map[K]*list.Node[K, V])
	p.buckets = make(map[int]*list.List[K, V])
	p.minFreq = 1
	p.ghost.purge()
}

func (p *lfuPart[K, V]) len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.index)
}

// bump moves n one frequency up. Caller holds the lock.
func (p *lfuPart[K, V]) bump(n *list.Node[K, V]) {
	b := p.buckets[n.Count]
	b.Remove(n)
	if b.Len() == 0 {
		delete(p.buckets, n.Count)
		if n.Count == p.minFreq {
			p.minFreq++
		}
	}
	n.Count++
	p.bucket(n.Count).PushBack(n)
}

// detach unlinks n from its bucket and repairs minFreq. Caller holds the
// lock and removes n from the index.
func (p *lfuPart[K, V]) detach(n *list.Node[K, V]) {
	b := p.buckets[n.Count]
	b.Remove(n)
	if b.Len() == 0 {
		delete(p.buckets, n.Count)
		if n.Count == p.minFreq {
			p.updateMinFreq()
		}
	}
}

// evictVictim moves the oldest entry of the minFreq bucket to the ghost.
// Caller holds the lock and guarantees the part is non-empty.
func (p *lfuPart[K, V]) evictVictim(reason policy.EvictReason) {
	b := p.buckets[p.minFreq]
	victim := b.Front()
	b.Remove(victim)
	if b.Len() == 0 {
		delete(p.buckets, p.minFreq)
		p.updateMinFreq()
	}
	delete(p.index, victim.Key)
	p.ghost.insert(victim.Key)
	p.metrics.Evict(reason)
}

// bucket returns the list for frequency f, creating it when absent.
// Caller holds the lock.
func (p *lfuPart[K, V]) bucket(f int) *list.List[K, V] {
	b, ok := p.buckets[f]
	if !ok {
		b = list.New[K, V]()
		p.buckets[f] = b
	}
	return b
}

// updateMinFreq rescans for the smallest non-empty frequency (1 when the
// part is empty). Caller holds the lock.
func (p *lfuPart[K, V]) updateMinFreq() {
	if len(p.buckets) == 0 {
		p.minFreq = 1
		return
	}
	first := true
	for f := range p.buckets {
		if first || f < p.minFreq {
			p.minFreq = f
			first = false
		}
	}
}
