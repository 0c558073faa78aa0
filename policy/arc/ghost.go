package arc

import "github.com/ivmalkov/polycache/internal/list"

// ghostCache remembers the keys of recently evicted entries, values
// dropped. Insertion-ordered: new ghosts enter at the back, the oldest is
// discarded at the front when the list is full. Callers hold the owning
// part's lock.
type ghostCache[K comparable] struct {
	capacity int
	index    map[K]*list.Node[K, struct{}]
	order    *list.List[K, struct{}]
}

func newGhostCache[K comparable](capacity int) *ghostCache[K] {
	return &ghostCache[K]{
		capacity: capacity,
		index:    make(map[K]*list.Node[K, struct{}], capacity),
		order:    list.New[K, struct{}](),
	}
}

// insert records k as a ghost, discarding the oldest ghost when full.
func (g *ghostCache[K]) insert(k K) {
	if n, ok := g.index[k]; ok {
		g.order.MoveToBack(n)
		return
	}
	if g.order.Len() == g.capacity {
		oldest := g.order.Front()
		g.order.Remove(oldest)
		delete(g.index, oldest.Key)
	}
	n := &list.Node[K, struct{}]{Key: k}
	g.order.PushBack(n)
	g.index[k] = n
}

// consume reports whether k was a ghost, removing it on hit: observing a
// ghost uses it up.
func (g *ghostCache[K]) consume(k K) bool {
	n, ok := g.index[k]
	if !ok {
		return false
	}
	g.order.Remove(n)
	delete(g.index, k)
	return true
}

func (g *ghostCache[K]) purge() {
	g.index = make(map[K]*list.Node[K, struct{}], g.capacity)
	g.order.Init()
}
