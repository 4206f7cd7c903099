// Package pq implements a concurrent priority queue backed by a
// leveled skiplist and updated through single-word CAS operations that
// retry on contention; the only lock is the hazard domain's mutex. Deletion is logical-then-physical:
// Pop marks a node dead with a single CAS before unlinking it, so a
// Pop that loses a race to another Pop or a helping Push never leaves
// the structure in an inconsistent state. Reclamation of unlinked
// nodes is deferred to a hazard-pointer domain so that a goroutine
// mid-traversal never dereferences memory handed back to the pool.
package pq
