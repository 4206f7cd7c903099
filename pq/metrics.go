package pq

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

type metricShard struct {
	pushCASRetries   atomic.Int64
	pushCASSuccesses atomic.Int64
	popCASRetries    atomic.Int64
	fullyLinkedSpins atomic.Int64
	// Pad to cache line size to prevent false sharing.
	_ [32]byte
}

// Metrics holds sharded, best-effort contention counters for a Queue.
// They exist for benchmarking and diagnosis only. Nothing in the
// queue's correctness depends on their values.
type Metrics struct {
	shards []metricShard
	mask   uint32
}

func newMetrics() *Metrics {
	shardCount := nextPowerOfTwo(runtime.GOMAXPROCS(0))
	return &Metrics{
		shards: make([]metricShard, shardCount),
		mask:   uint32(shardCount - 1),
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

func (m *Metrics) shard() *metricShard {
	if len(m.shards) == 1 {
		return &m.shards[0]
	}
	idx := uint32(randomShardSeed()) & m.mask
	return &m.shards[idx]
}

// randomShardSeed draws shard selection entropy from the same
// per-call generator used for level generation, avoiding a second
// independent source of randomness for what is just a load-spreading
// hash.
func randomShardSeed() uint64 {
	g := levelGenPool.Get().(*levelGen)
	v := g.next()
	levelGenPool.Put(g)
	return v
}

func (m *Metrics) incPushCASRetry()   { m.shard().pushCASRetries.Add(1) }
func (m *Metrics) incPushCASSuccess() { m.shard().pushCASSuccesses.Add(1) }
func (m *Metrics) incPopCASRetry()    { m.shard().popCASRetries.Add(1) }
func (m *Metrics) incFullyLinkedSpin() { m.shard().fullyLinkedSpins.Add(1) }

// Stats is a point-in-time snapshot of a Queue's contention counters.
type Stats struct {
	PushCASRetries   int64
	PushCASSuccesses int64
	PopCASRetries    int64
	FullyLinkedSpins int64
}

func (m *Metrics) snapshot() Stats {
	var s Stats
	for i := range m.shards {
		s.PushCASRetries += m.shards[i].pushCASRetries.Load()
		s.PushCASSuccesses += m.shards[i].pushCASSuccesses.Load()
		s.PopCASRetries += m.shards[i].popCASRetries.Load()
		s.FullyLinkedSpins += m.shards[i].fullyLinkedSpins.Load()
	}
	return s
}
