package pq

import "github.com/jayshah2111/lock-free-concurrent-pq/hazard"

// Hazard slot layout shared by find and its callers. Each level gets
// its own dedicated predecessor slot (predSlot(level)) because Push
// and Pop hold onto preds[level] and dereference it again, well after
// find has returned, when they CAS that level's link. curr and succ
// never need to survive past find itself. Callers only ever compare
// or store succs[level] as a pointer value, never dereference it, so
// the traversal is free to recycle two scratch slots across all
// levels instead of dedicating one to each.
const (
	scratchCurr  = MaxLevel + 1
	scratchSucc  = MaxLevel + 2
	slotCount    = MaxLevel + 3
	popSlotCount = slotCount + 1 // + a dedicated slot for the popped candidate
)

func predSlot(level int) int { return level }

// find walks the skiplist from MaxLevel down to 0, returning the
// predecessor and successor at each level for key. While descending it
// helps unlink any marked node it passes over by CAS'ing it out of
// pred's chain at that level. Every dereferenced node is hazard
// protected through h before use, except the head/tail sentinels,
// which are never retired and so are safe to pass through uniformly.
//
// preds[level] remains protected in h after find returns, in
// predSlot(level); succs[level] does not, and must not be
// dereferenced by the caller.
func (q *Queue[T]) find(key T, h *hazard.Handle[node[T]]) (preds, succs [MaxLevel + 1]*node[T]) {
	pred := q.head

	for level := MaxLevel; level >= 0; level-- {
		slot := predSlot(level)
		h.Publish(slot, pred)

		// The two scratch slots swap roles whenever succ becomes curr, so
		// curr stays protected while the next succ is published.
		currSlot, succSlot := scratchCurr, scratchSucc
		curr := h.Protect(&pred.next[level], currSlot)

		for {
			succ := h.Protect(&curr.next[level], succSlot)

			for curr != q.tail && curr.marked.Load() {
				if !pred.next[level].CompareAndSwap(curr, succ) {
					curr = h.Protect(&pred.next[level], currSlot)
					succ = h.Protect(&curr.next[level], succSlot)
					continue
				}
				curr = succ
				currSlot, succSlot = succSlot, currSlot
				succ = h.Protect(&curr.next[level], succSlot)
			}

			if curr == q.tail || !q.less(curr.value, key) {
				break
			}

			pred = curr
			h.Publish(slot, pred)
			curr = succ
			currSlot, succSlot = succSlot, currSlot
		}

		preds[level] = pred
		succs[level] = curr
	}

	return preds, succs
}
