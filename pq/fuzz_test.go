package pq

import (
	"sort"
	"testing"
)

// FuzzPushPopPreservesMultisetAndOrder feeds an arbitrary byte string
// in as a sequence of pushed values (and occasional early pops mixed
// in), then drains the rest and checks the fundamental priority-queue
// invariant: every popped value came from what was pushed, and the
// values of the final drain come out non-decreasing. Early pops are
// left out of the order check, since a value pushed after an early pop
// may be smaller than what that pop returned.
func FuzzPushPopPreservesMultisetAndOrder(f *testing.F) {
	f.Add([]byte{0, 1, 1, 0, 2, 2})
	f.Add([]byte{5, 4, 3, 2, 1, 0})
	f.Add([]byte{9, 9, 9, 9})

	f.Fuzz(func(t *testing.T, input []byte) {
		ops := decodeFuzzOps(input, 64)
		if len(ops) == 0 {
			t.Skip()
		}

		q := New[int](intLess)
		pushed := make([]int, 0, len(ops))
		var popped []int

		for _, op := range ops {
			if op.pop {
				if v, ok := q.Pop(); ok {
					popped = append(popped, v)
				}
				continue
			}
			if err := q.Push(op.value); err != nil {
				t.Fatalf("push: %v", err)
			}
			pushed = append(pushed, op.value)
		}

		drainStart := len(popped)
		for {
			v, ok := q.Pop()
			if !ok {
				break
			}
			popped = append(popped, v)
		}

		if len(popped) != len(pushed) {
			t.Fatalf("popped %d values, pushed %d", len(popped), len(pushed))
		}

		sort.Ints(pushed)
		for i := drainStart + 1; i < len(popped); i++ {
			if popped[i] < popped[i-1] {
				t.Fatalf("popped values out of order at %d: %v", i, popped)
			}
		}

		gotCounts := make(map[int]int, len(popped))
		for _, v := range popped {
			gotCounts[v]++
		}
		for _, v := range pushed {
			gotCounts[v]--
		}
		for v, c := range gotCounts {
			if c != 0 {
				t.Fatalf("value %d: pushed/popped count mismatch (delta %d)", v, c)
			}
		}
	})
}

type fuzzOp struct {
	pop   bool
	value int
}

func decodeFuzzOps(input []byte, maxOps int) []fuzzOp {
	if maxOps <= 0 {
		return nil
	}
	ops := make([]fuzzOp, 0, maxOps)
	for i := 0; i+1 < len(input) && len(ops) < maxOps; i += 2 {
		pop := input[i]%5 == 0
		value := int(int8(input[i+1]))
		ops = append(ops, fuzzOp{pop: pop, value: value})
	}
	return ops
}
