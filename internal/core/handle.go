package core

import "sync/atomic"

// Handle is a caller's exclusive lease on one slot's Reader, returned by
// Pool.Get. A Handle must be closed exactly once conceptually; calling
// Close more than once is safe (the second call is a no-op) but failing to
// detect that a *different* caller somehow holds the slot is Critical.
type Handle struct {
	pool   *Pool
	entry  *Entry
	slot   int
	owner  int64
	name   string
	reader Reader

	// active guards against acting twice on one Close: the first
	// CompareAndSwap(true, false) wins and runs the release protocol, every
	// later call observes false and returns immediately. A local idempotency
	// flag first, then a core-state cross-check, to catch a fabricated
	// second Handle over the same slot.
	active atomic.Bool
}

// Reader returns the handle's underlying Reader.
func (h *Handle) Reader() Reader {
	return h.reader
}

// Name returns the table name this handle was acquired for.
func (h *Handle) Name() string {
	return h.name
}

// Close releases the handle. If the pool is still open this only returns
// the slot for reuse; if the pool has already been closed this performs
// the true physical close of the underlying reader.
func (h *Handle) Close() error {
	if !h.active.CompareAndSwap(true, false) {
		return nil
	}

	h.reader.Deactivate()

	if h.entry.allocations[h.slot].Load() != h.owner {
		// The local active guard above should make this unreachable in
		// correct usage; only a concurrently fabricated second Handle over
		// the same slot (a bug, never ordinary contention) gets here.
		panic(criticalDoubleClose)
	}

	h.entry.releaseOrAcquireTimes[h.slot].Store(h.pool.clock.NowMicros())
	h.entry.allocations[h.slot].Store(Unallocated)

	if !h.pool.closed.Load() {
		h.pool.emit(Event{Code: EventReturn, OwnerID: h.owner, Name: h.name, SegmentIndex: h.entry.index, SlotIndex: h.slot})
		return nil
	}

	if !h.entry.allocations[h.slot].CompareAndSwap(Unallocated, h.owner) {
		// Lost the race to reclaim this slot for cleanup: the idle-eviction
		// shutdown sweep (or another racing Close, which cannot happen for
		// this exact slot under correct usage) got there first.
		return nil
	}

	err := h.reader.Close()
	h.entry.readers[h.slot].Store(nil)
	h.entry.allocations[h.slot].Store(Unallocated)
	h.entry, h.pool = nil, nil
	return err
}
