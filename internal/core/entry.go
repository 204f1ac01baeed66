package core

import "sync/atomic"

// EntrySize is the fixed number of slots per Entry. A table's capacity grows
// in increments of EntrySize, never per-slot, which keeps the entry chain
// short and the per-slot CAS loop in Pool.Get bounded by a compile-time
// constant rather than a runtime-configurable one.
const EntrySize = 32

// Unallocated marks an allocation word as free. Owner ids are always
// positive, so this sentinel can never collide with a real owner.
const Unallocated int64 = -1

// Unlocked marks lockOwner as not held by any thread.
const Unlocked int64 = -1

// nextStatus values gate construction of the next Entry in a chain.
// OPEN -> ALLOCATED is a one-way CAS performed by the goroutine that grows
// the chain; OPEN -> LOCKED is a one-way CAS performed by lock, forbidding
// further growth for as long as the table is exclusively locked.
type nextStatus int32

const (
	nextOpen nextStatus = iota
	nextAllocated
	nextLocked
)

// Entry is one fixed-capacity segment of a table's slot chain. Slot i of an
// Entry is the triple (allocations[i], readers[i], releaseOrAcquireTimes[i]);
// ownership of allocations[i] carries exclusive rights to the other two.
type Entry struct {
	// index is this Entry's 0-based position in its table's chain.
	// Immutable after construction.
	index int

	// allocations holds, per slot, Unallocated or the positive owner id
	// currently holding the slot. CAS is the only way to change a slot from
	// Unallocated to owned or back.
	allocations [EntrySize]atomic.Int64

	// readers holds the live Reader for each slot, or nil if the slot has
	// never been used or was last closed. Mutated only by whichever thread
	// currently owns the corresponding allocations[i].
	readers [EntrySize]atomic.Pointer[readerBox]

	// releaseOrAcquireTimes holds the monotonic microsecond timestamp of the
	// last acquire or release for each slot. Read by the idle-eviction sweep,
	// written by Get and by Handle.Close.
	releaseOrAcquireTimes [EntrySize]atomic.Int64

	// lockOwner is Unlocked, or the owner id of the thread holding this
	// Entry's share of the table's exclusive lock.
	lockOwner atomic.Int64

	// next is the successor Entry in the chain, or nil if the chain has not
	// grown past this Entry yet.
	next atomic.Pointer[Entry]

	// status gates construction of next (see nextStatus).
	status atomic.Int32
}

// readerBox wraps a Reader so the zero value of atomic.Pointer[readerBox]
// unambiguously means "no reader constructed", even though Reader is an
// interface (a nil *readerBox is distinguishable from a box holding a nil
// interface, which cannot happen in practice but keeps the type honest).
type readerBox struct {
	reader Reader
	// orphaned is set by the shutdown sweep (ReleaseAll after Close) when it
	// finds a resident reader whose slot is still owned by an outstanding
	// handle. Nothing reads it: that handle's Close performs the physical
	// close because it observes the pool closed, not because of this flag.
	orphaned bool
}

// newEntry constructs an Entry at the given chain position with every slot
// unallocated and unlocked.
func newEntry(index int) *Entry {
	e := &Entry{index: index}
	for i := range e.allocations {
		e.allocations[i].Store(Unallocated)
	}
	e.lockOwner.Store(Unlocked)
	return e
}

// loadStatus and casStatus give nextStatus transitions the same CAS shape as
// every other piece of per-entry state, keeping the chain-growth protocol
// symmetric with the slot-ownership protocol.
func (e *Entry) loadStatus() nextStatus {
	return nextStatus(e.status.Load())
}

func (e *Entry) casStatus(from, to nextStatus) bool {
	return e.status.CompareAndSwap(int32(from), int32(to))
}
