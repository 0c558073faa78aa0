// Package list implements the intrusive doubly linked list shared by the
// replacement engines. The list owns two sentinel nodes so insertion and
// removal at either boundary never branch on emptiness: the node after the
// front sentinel is the coldest (next eviction victim), the node before the
// back sentinel is the hottest.
package list

// Node is a list element carrying a cache entry. Engines store *Node in
// their key index, so detaching and re-linking never allocates.
type Node[K comparable, V any] struct {
	Key   K
	Value V

	// Count is policy metadata: the access count for the ARC recent part,
	// the frequency for LFU buckets. Plain LRU ignores it, and so does
	// LRU-K, which keeps its counts as values in a history LRU cache.
	Count int

	prev, next *Node[K, V]
}

// Linked reports whether the node is currently attached to a list.
func (n *Node[K, V]) Linked() bool { return n.next != nil }

// List is an intrusive doubly linked list with sentinel boundaries.
// A node belongs to at most one list at a time; callers detach with
// Remove before re-linking elsewhere.
type List[K comparable, V any] struct {
	root Node[K, V] // front sentinel
	back Node[K, V] // rear sentinel
	len  int
}

// New returns an initialized empty list.
func New[K comparable, V any]() *List[K, V] {
	l := &List[K, V]{}
	l.Init()
	return l
}

// Init resets the list to empty, relinking the sentinels. Any nodes still
// attached are abandoned; callers drop their index alongside.
func (l *List[K, V]) Init() {
	l.root.next = &l.back
	l.back.prev = &l.root
	l.len = 0
}

// Len returns the number of attached nodes.
func (l *List[K, V]) Len() int { return l.len }

// Front returns the coldest node, or nil if the list is empty.
func (l *List[K, V]) Front() *Node[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the hottest node, or nil if the list is empty.
func (l *List[K, V]) Back() *Node[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.back.prev
}

// PushBack attaches n at the hot end. n must be detached.
func (l *List[K, V]) PushBack(n *Node[K, V]) {
	at := l.back.prev
	n.prev = at
	n.next = &l.back
	at.next = n
	l.back.prev = n
	l.len++
}

// PushFront attaches n at the cold end. n must be detached.
func (l *List[K, V]) PushFront(n *Node[K, V]) {
	at := l.root.next
	n.prev = &l.root
	n.next = at
	at.prev = n
	l.root.next = n
	l.len++
}

// Remove detaches n and clears both links, so a stale node can never be
// followed back into the list.
func (l *List[K, V]) Remove(n *Node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	l.len--
}

// MoveToBack detaches n and re-attaches it at the hot end.
func (l *List[K, V]) MoveToBack(n *Node[K, V]) {
	if l.back.prev == n {
		return
	}
	l.Remove(n)
	l.PushBack(n)
}

// Next returns the node after n, or nil at the hot boundary. It lets
// engines walk a bucket front-to-back without touching sentinels.
func (l *List[K, V]) Next(n *Node[K, V]) *Node[K, V] {
	if n.next == &l.back {
		return nil
	}
	return n.next
}
