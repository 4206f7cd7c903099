package pq

import "sync/atomic"

// MaxLevel is the highest skiplist level a node may participate in.
const MaxLevel = 16

// node is a skiplist node carrying one queue element. next is sized to
// topLevel+1: a node exists only at the levels it was linked at, never
// at every level of MaxLevel regardless of its drawn height.
type node[T any] struct {
	value       T
	topLevel    int
	next        []atomic.Pointer[node[T]]
	marked      atomic.Bool
	fullyLinked atomic.Bool
}

func newNode[T any](value T, topLevel int) *node[T] {
	return &node[T]{
		value:    value,
		topLevel: topLevel,
		next:     make([]atomic.Pointer[node[T]], topLevel+1),
	}
}

// reset clears a pooled node's fields before it is handed back out by
// the pool, so a reused node never leaks the previous occupant's value
// or link state.
func (n *node[T]) reset(value T, topLevel int) {
	var zero T
	n.value = zero
	n.marked.Store(false)
	n.fullyLinked.Store(false)
	if cap(n.next) < topLevel+1 {
		n.next = make([]atomic.Pointer[node[T]], topLevel+1)
	} else {
		n.next = n.next[:topLevel+1]
		for i := range n.next {
			n.next[i].Store(nil)
		}
	}
	n.topLevel = topLevel
	n.value = value
}

// newSentinels allocates the head and tail nodes shared by every
// level. Sentinels are never marked, never retired, and participate at
// every level from 0 to MaxLevel for the lifetime of the queue.
func newSentinels[T any]() (*node[T], *node[T]) {
	head := &node[T]{topLevel: MaxLevel, next: make([]atomic.Pointer[node[T]], MaxLevel+1)}
	tail := &node[T]{topLevel: MaxLevel, next: make([]atomic.Pointer[node[T]], MaxLevel+1)}
	head.fullyLinked.Store(true)
	tail.fullyLinked.Store(true)
	for i := range head.next {
		head.next[i].Store(tail)
	}
	return head, tail
}
