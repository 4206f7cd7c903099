package pq

import (
	"runtime"
	"sync/atomic"

	"github.com/jayshah2111/lock-free-concurrent-pq/hazard"
)

// Less reports whether a orders before b. Queue uses it as the sole
// ordering relation; ties are broken arbitrarily by insertion order
// at the skiplist level, not by FIFO semantics.
type Less[T any] func(a, b T) bool

// Queue is a concurrent priority queue. The zero Queue is not usable;
// construct one with New. A *Queue is safe for concurrent Push and
// Pop from any number of goroutines.
type Queue[T any] struct {
	less Less[T]

	head, tail *node[T]

	count atomic.Int64

	domain  *hazard.Domain[node[T]]
	pool    pooler[T]
	metrics *Metrics
}

// New constructs a Queue ordered by less. If domain is omitted, the
// queue uses a process-wide hazard domain shared by every *Queue[T]
// instantiated for this T; see defaultDomainFor. Passing an explicit
// domain is for tests and for callers who want isolation or a
// non-default capacity.
func New[T any](less Less[T], domain ...*hazard.Domain[node[T]]) *Queue[T] {
	var d *hazard.Domain[node[T]]
	if len(domain) > 0 && domain[0] != nil {
		d = domain[0]
	} else {
		d = defaultDomainFor[T]()
	}

	head, tail := newSentinels[T]()
	return &Queue[T]{
		less:    less,
		head:    head,
		tail:    tail,
		domain:  d,
		pool:    newNodePool[T](),
		metrics: newMetrics(),
	}
}

// candidateSlot is Pop's dedicated slot for the node it is attempting
// to remove, one past find's own slot range.
const candidateSlot = slotCount

// Push inserts item. While searching for its position it helps unlink
// nodes other goroutines have marked, and it retries its own CAS
// attempts in place rather than returning an error for contention. The error return exists for parity with the allocating
// variant this type is modeled on; this implementation has no failure
// path that produces one.
func (q *Queue[T]) Push(item T) error {
	topLevel := randomLevel()

	h := q.domain.Acquire(slotCount)
	defer h.Release()

	n := q.pool.acquire(item, topLevel)

	var preds, succs [MaxLevel + 1]*node[T]
	for {
		preds, succs = q.find(item, h)
		for i := 0; i <= topLevel; i++ {
			n.next[i].Store(succs[i])
		}
		if preds[0].next[0].CompareAndSwap(succs[0], n) {
			q.metrics.incPushCASSuccess()
			break
		}
		q.metrics.incPushCASRetry()
	}

	for level := 1; level <= topLevel; level++ {
		for {
			if preds[level].next[level].CompareAndSwap(succs[level], n) {
				break
			}
			q.metrics.incPushCASRetry()
			preds, succs = q.find(item, h)
			n.next[level].Store(succs[level])
		}
	}

	n.fullyLinked.Store(true)
	q.count.Add(1)
	return nil
}

// Pop removes and returns the minimum element. It reports false if
// the queue was observed empty. A Pop that loses a logical-delete race
// against another Pop simply retries against the new minimum; it never
// returns false while a live element remains.
func (q *Queue[T]) Pop() (T, bool) {
	h := q.domain.Acquire(popSlotCount)
	defer h.Release()

	for {
		candidate := h.Protect(&q.head.next[0], candidateSlot)
		if candidate == q.tail {
			var zero T
			return zero, false
		}
		if candidate.marked.Load() {
			continue
		}
		if !candidate.fullyLinked.Load() {
			q.metrics.incFullyLinkedSpin()
			runtime.Gosched()
			continue
		}
		if !candidate.marked.CompareAndSwap(false, true) {
			q.metrics.incPopCASRetry()
			continue
		}

		value := candidate.value
		// find's helper pass physically unlinks candidate at every
		// level it participates in, now that it is marked.
		q.find(value, h)
		q.count.Add(-1)
		q.domain.Retire(candidate, func(n *node[T]) { q.pool.release(n) })
		return value, true
	}
}

// Len reports the number of elements currently in the queue. Under
// concurrent mutation it is a snapshot, not a linearized count.
func (q *Queue[T]) Len() int64 {
	return q.count.Load()
}

// Empty reports whether Len() == 0.
func (q *Queue[T]) Empty() bool {
	return q.count.Load() == 0
}

// Metrics returns a snapshot of the queue's contention counters.
func (q *Queue[T]) Metrics() Stats {
	return q.metrics.snapshot()
}

// Close releases every node back to the pool and leaves the queue
// empty. It is not safe to call concurrently with Push or Pop, or to
// use the queue afterward except to discard it.
func (q *Queue[T]) Close() {
	curr := q.head.next[0].Load()
	for curr != q.tail {
		next := curr.next[0].Load()
		q.pool.release(curr)
		curr = next
	}
	for i := range q.head.next {
		q.head.next[i].Store(q.tail)
	}
	q.count.Store(0)
}
