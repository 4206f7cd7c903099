package hazard

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	n int
}

func TestProtectReturnsStableValue(t *testing.T) {
	d := NewDomain[sample](8)
	var addr atomic.Pointer[sample]
	want := &sample{n: 42}
	addr.Store(want)

	h := d.Acquire(1)
	defer h.Release()

	got := h.Protect(&addr, 0)
	require.Same(t, want, got)
}

func TestRetireKeepsHazardedNodes(t *testing.T) {
	d := NewDomain[sample](4)
	var addr atomic.Pointer[sample]
	node := &sample{n: 1}
	addr.Store(node)

	h := d.Acquire(1)
	protected := h.Protect(&addr, 0)
	require.Same(t, node, protected)

	var deleted atomic.Bool
	d.Retire(node, func(*sample) { deleted.Store(true) })
	d.Scan()

	require.False(t, deleted.Load(), "scan must not reclaim a hazarded node")

	h.Release()
	d.Scan()
	require.True(t, deleted.Load(), "scan must reclaim once the hazard clears")
}

func TestRetireTriggersScanOnOverflow(t *testing.T) {
	const capacity = 4
	d := NewDomain[sample](capacity)

	var deletions atomic.Int64
	for i := 0; i < capacity+2; i++ {
		d.Retire(&sample{n: i}, func(*sample) { deletions.Add(1) })
	}

	// The (capacity+1)-th Retire pushes the list past capacity and scans
	// it empty; the last Retire starts a new list below the threshold.
	require.Equal(t, int64(capacity+1), deletions.Load())
	require.Equal(t, 1, d.RetiredLen())
}

func TestAcquireUnderContentionNeverDoubleAssignsASlot(t *testing.T) {
	const capacity = 16
	const goroutines = 64
	const rounds = 200

	d := NewDomain[sample](capacity)
	var occupied [capacity]atomic.Bool

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				h := d.Acquire(2)
				for _, idx := range h.idxs {
					if !occupied[idx].CompareAndSwap(false, true) {
						t.Errorf("slot %d double-assigned", idx)
					}
				}
				for _, idx := range h.idxs {
					occupied[idx].Store(false)
				}
				h.Release()
			}
		}()
	}
	wg.Wait()
}

func TestPublishCarriesAProvenPointerIntoAnotherSlotWithoutRevalidation(t *testing.T) {
	d := NewDomain[sample](4)
	var a atomic.Pointer[sample]
	na := &sample{n: 1}
	a.Store(na)

	h := d.Acquire(2)
	defer h.Release()

	protected := h.Protect(&a, 0)
	require.Same(t, na, protected)

	h.Publish(1, protected)

	require.Equal(t, na, d.slots[h.idxs[1]].Load())
}

func TestClearResetsASlotWithoutReleasingIt(t *testing.T) {
	d := NewDomain[sample](4)
	var a atomic.Pointer[sample]
	na := &sample{n: 1}
	a.Store(na)

	h := d.Acquire(2)
	defer h.Release()

	require.Same(t, na, h.Protect(&a, 0))
	h.Clear(0)

	require.Nil(t, d.slots[h.idxs[0]].Load())

	var deleted atomic.Bool
	d.Retire(na, func(*sample) { deleted.Store(true) })
	d.Scan()
	require.True(t, deleted.Load(), "clearing a slot must drop its hazard before the next scan")
}
