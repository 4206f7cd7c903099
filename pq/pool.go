package pq

import "sync"

// pooler is the acquire/release contract Queue needs from a node
// pool. It exists so tests can substitute an instrumented pool around
// nodePool without Queue depending on sync.Pool directly.
type pooler[T any] interface {
	acquire(value T, topLevel int) *node[T]
	release(n *node[T])
}

// nodePool recycles nodes through push (acquire) and the hazard
// domain's retirement deleter (release), an acquire/release-from-
// sync.Pool idiom that avoids handing every retired node back to the
// garbage collector.
type nodePool[T any] struct {
	pool sync.Pool
}

func newNodePool[T any]() *nodePool[T] {
	return &nodePool[T]{
		pool: sync.Pool{
			New: func() any { return &node[T]{} },
		},
	}
}

func (p *nodePool[T]) acquire(value T, topLevel int) *node[T] {
	n := p.pool.Get().(*node[T])
	n.reset(value, topLevel)
	return n
}

func (p *nodePool[T]) release(n *node[T]) {
	var zero T
	n.value = zero
	p.pool.Put(n)
}
