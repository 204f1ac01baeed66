package core

import (
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// deadlineInfinite is a deadline no timestamp can ever be older than, the
// mode Close uses to drain every table unconditionally.
const deadlineInfinite = math.MaxInt64

// maxConcurrentSweeps bounds how many table chains ReleaseAll walks at once.
const maxConcurrentSweeps = 8

// Pool is a lock-free, segmented reader pool keyed by table name. Every
// exported method is safe for concurrent use by multiple owners.
type Pool struct {
	cfg      Config
	clock    Clock
	entries  syncMap
	closed   atomic.Bool
	listener Listener
}

// New constructs a Pool from cfg, rejecting invalid configuration before any
// table is ever touched.
func New(cfg Config, listener Listener) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reader pool config: %w", err)
	}
	return &Pool{
		cfg:      cfg,
		clock:    cfg.clockOrDefault(),
		listener: listener,
	}, nil
}

// Get acquires a Handle wrapping a Reader for name, growing the table's
// entry chain if every existing segment is full.
func (p *Pool) Get(name string, owner OwnerID) (*Handle, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	head := p.entries.loadOrStoreEntry(name)
	if head.lockOwner.Load() != Unlocked {
		return nil, ErrLocked
	}

	cur := head
	for {
		if h, err, done := p.tryAcquireInEntry(cur, name, owner); done {
			return h, err
		}

		if cur.index+1 >= p.cfg.MaxSegments {
			p.emit(Event{Code: EventFull, OwnerID: int64(owner), Name: name, SegmentIndex: cur.index, SlotIndex: NoSlot})
			return nil, ErrUnavailable
		}

		next := cur.next.Load()
		if next == nil {
			if cur.casStatus(nextOpen, nextAllocated) {
				grown := newEntry(cur.index + 1)
				cur.next.Store(grown)
				next = grown
			} else if cur.loadStatus() == nextLocked {
				p.emit(Event{Code: EventFull, OwnerID: int64(owner), Name: name, SegmentIndex: cur.index, SlotIndex: NoSlot})
				return nil, ErrUnavailable
			} else {
				for cur.next.Load() == nil {
					runtime.Gosched()
				}
				next = cur.next.Load()
			}
		}
		cur = next
	}
}

// tryAcquireInEntry attempts to claim one free slot of e. done is true when
// the caller should stop walking the chain: either a slot was claimed
// (h non-nil, err nil) or a terminal error occurred (err non-nil). done is
// false when e had no free slot and the caller should advance to the next
// Entry, growing the chain if necessary.
func (p *Pool) tryAcquireInEntry(e *Entry, name string, owner OwnerID) (h *Handle, err error, done bool) {
	ownerID := int64(owner)
	for i := 0; i < EntrySize; i++ {
		if !e.allocations[i].CompareAndSwap(Unallocated, ownerID) {
			continue
		}
		e.releaseOrAcquireTimes[i].Store(p.clock.NowMicros())

		box := e.readers[i].Load()
		var reader Reader
		var code EventCode
		if box == nil {
			r, ferr := p.cfg.Factory(name)
			if ferr != nil {
				e.allocations[i].Store(Unallocated)
				return nil, fmt.Errorf("construct reader for %q: %w", name, ferr), true
			}
			reader = r
			e.readers[i].Store(&readerBox{reader: r})
			code = EventCreate
		} else {
			if rerr := box.reader.Reactivate(); rerr != nil {
				if cerr := box.reader.Close(); cerr != nil {
					Logger().Warn("get: close reader that failed reactivation", "name", name, "error", cerr)
				}
				e.readers[i].Store(nil)
				e.allocations[i].Store(Unallocated)
				return nil, fmt.Errorf("reactivate reader for %q: %w", name, rerr), true
			}
			reader = box.reader
			code = EventGet
		}

		handle := &Handle{pool: p, entry: e, slot: i, owner: ownerID, name: name, reader: reader}
		handle.active.Store(true)

		if p.closed.Load() {
			// Lost a race against Close: detach from pool bookkeeping but
			// still hand the reader to the caller. closed never un-sets, so
			// Handle.Close will see the pool closed too and perform the true
			// physical close when the caller is done.
			e.readers[i].Store(nil)
		}

		p.emit(Event{Code: code, OwnerID: ownerID, Name: name, SegmentIndex: e.index, SlotIndex: i})
		return handle, nil, true
	}
	return nil, nil, false
}

// Lock fences name for exclusive access. It returns false (never an error)
// if any part of the table is currently busy.
func (p *Pool) Lock(name string, owner OwnerID) bool {
	if p.closed.Load() {
		return false
	}
	ownerID := int64(owner)
	head := p.entries.loadOrStoreEntry(name)

	var locked []entryLock
	cur := head
	for {
		el, ok := p.lockEntry(cur, ownerID, name)
		if !ok {
			for _, l := range locked {
				l.release()
			}
			return false
		}
		locked = append(locked, el)

		if next := cur.next.Load(); next != nil {
			cur = next
			continue
		}
		if cur.casStatus(nextOpen, nextLocked) {
			break
		}
		if cur.loadStatus() == nextLocked {
			break
		}
		// Lost the seal race to a concurrent grower (nextStatus now
		// ALLOCATED): wait for its Entry to appear and lock that one too.
		for cur.next.Load() == nil {
			runtime.Gosched()
		}
		cur = cur.next.Load()
	}

	p.emit(Event{Code: EventLockSuccess, OwnerID: ownerID, Name: name, SegmentIndex: NoSlot, SlotIndex: NoSlot})
	return true
}

// entryLock records exactly what a successful lockEntry call changed in one
// Entry, so a later failure elsewhere in the same Lock call can undo only
// what that call itself claimed, never state an earlier, already-completed
// Lock call legitimately holds.
type entryLock struct {
	entry        *Entry
	claimedSlots []int
	freshLock    bool
}

// release restores every slot this lockEntry call freshly claimed back to
// Unallocated, and releases the entry's lockOwner if this call was the one
// that claimed it (leaving a genuinely reentrant lock from an earlier,
// already-successful Lock call untouched).
func (l entryLock) release() {
	for _, i := range l.claimedSlots {
		l.entry.allocations[i].Store(Unallocated)
	}
	if l.freshLock {
		l.entry.lockOwner.Store(Unlocked)
	}
}

// lockEntry runs the fencing protocol against a single Entry: claim (or
// reentrantly confirm) e.lockOwner, then claim every slot, physically
// closing whatever reader was resident. On failure it rolls back every slot
// it claimed earlier in this same call before returning, so a routine Lock
// failure never leaks capacity.
func (p *Pool) lockEntry(e *Entry, owner int64, name string) (entryLock, bool) {
	freshLock := e.lockOwner.CompareAndSwap(Unlocked, owner)
	if !freshLock && e.lockOwner.Load() != owner {
		p.emit(Event{Code: EventLockBusy, OwnerID: owner, Name: name, SegmentIndex: e.index, SlotIndex: NoSlot})
		return entryLock{}, false
	}

	fail := func(slot int, claimed []int) (entryLock, bool) {
		for _, i := range claimed {
			e.allocations[i].Store(Unallocated)
		}
		if freshLock {
			e.lockOwner.Store(Unlocked)
		}
		p.emit(Event{Code: EventLockBusy, OwnerID: owner, Name: name, SegmentIndex: e.index, SlotIndex: slot})
		return entryLock{}, false
	}

	var claimed []int
	for i := 0; i < EntrySize; i++ {
		if e.allocations[i].CompareAndSwap(Unallocated, owner) {
			claimed = append(claimed, i)
			if box := e.readers[i].Swap(nil); box != nil && box.reader != nil {
				if err := box.reader.Close(); err != nil {
					Logger().Warn("lock: close resident reader", "name", name, "error", err)
				}
				p.emit(Event{Code: EventLockClose, OwnerID: owner, Name: name, SegmentIndex: e.index, SlotIndex: i})
			}
			continue
		}

		if e.allocations[i].Load() == owner {
			if e.readers[i].Load() != nil {
				// Reentrant lock call, but this thread's own Handle from an
				// earlier Get is still outstanding on this slot.
				return fail(i, claimed)
			}
			continue
		}

		return fail(i, claimed)
	}
	return entryLock{entry: e, claimedSlots: claimed, freshLock: freshLock}, true
}

// Unlock releases an exclusive lock held by owner on name and discards the
// table's entry chain entirely.
func (p *Pool) Unlock(name string, owner OwnerID) {
	ownerID := int64(owner)

	v, ok := p.entries.load(name)
	if !ok {
		p.emit(Event{Code: EventNotLocked, OwnerID: ownerID, Name: name, SegmentIndex: NoSlot, SlotIndex: NoSlot})
		return
	}
	head := v
	if head.lockOwner.Load() != ownerID {
		p.emit(Event{Code: EventNotLockOwner, OwnerID: ownerID, Name: name, SegmentIndex: NoSlot, SlotIndex: NoSlot})
		panic(criticalNotLockOwner)
	}

	// Remove the chain from the map before releasing any Entry's state, so a
	// concurrent Get sees either the old chain or none at all, never a
	// half-reset one. Callers must not race a Get against this Unlock for
	// the same name.
	p.entries.delete(name)

	for e := head; e != nil; e = e.next.Load() {
		for i := 0; i < EntrySize; i++ {
			if e.allocations[i].Load() != ownerID {
				Logger().Warn("unlock: observed foreign slot owner after removing chain from map",
					"name", name, "segment_index", e.index, "slot_index", i)
				continue
			}
			e.allocations[i].Store(Unallocated)
		}
		e.lockOwner.Store(Unlocked)
	}

	p.emit(Event{Code: EventUnlocked, OwnerID: ownerID, Name: name, SegmentIndex: NoSlot, SlotIndex: NoSlot})
}

// ReleaseAll sweeps every table for slots whose last acquire/release
// timestamp is older than deadlineMicros. In idle mode
// (pool open) it returns whether anything was evicted; in shutdown mode
// (pool already closed, called by Close with deadlineInfinite) it returns
// whether the sweep fully drained every table.
func (p *Pool) ReleaseAll(deadlineMicros int64) bool {
	shutdown := p.closed.Load()

	names := p.entries.names()
	var g errgroup.Group
	g.SetLimit(maxConcurrentSweeps)

	var evictedAny atomic.Bool
	var casFailures atomic.Int64

	for _, name := range names {
		name := name
		head, ok := p.entries.load(name)
		if !ok {
			continue
		}
		g.Go(func() error {
			for e := head; e != nil; e = e.next.Load() {
				for i := 0; i < EntrySize; i++ {
					switch p.sweepSlot(e, i, name, deadlineMicros, shutdown) {
					case sweepEvicted:
						evictedAny.Store(true)
					case sweepCASFailed:
						casFailures.Add(1)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if shutdown {
		return casFailures.Load() == 0
	}
	return evictedAny.Load()
}

type sweepResult int

const (
	sweepSkipped sweepResult = iota
	sweepEvicted
	sweepCASFailed
)

// sweepSlot runs the per-slot eviction protocol against one slot.
func (p *Pool) sweepSlot(e *Entry, i int, name string, deadline int64, shutdown bool) sweepResult {
	if e.readers[i].Load() == nil {
		return sweepSkipped
	}
	if e.releaseOrAcquireTimes[i].Load() >= deadline {
		return sweepSkipped
	}

	if !e.allocations[i].CompareAndSwap(Unallocated, sweepOwnerID) {
		if shutdown {
			if box := e.readers[i].Load(); box != nil {
				box.orphaned = true
			}
		}
		return sweepCASFailed
	}

	// Re-check under ownership: between the unguarded read above and this
	// CAS winning, a full acquire-then-release could have refreshed the
	// timestamp.
	if e.releaseOrAcquireTimes[i].Load() >= deadline {
		e.allocations[i].Store(Unallocated)
		return sweepSkipped
	}

	box := e.readers[i].Load()
	if box != nil && box.reader != nil {
		if err := box.reader.Close(); err != nil {
			Logger().Warn("releaseAll: close evicted reader", "name", name, "error", err)
		}
		p.emit(Event{Code: EventExpire, OwnerID: sweepOwnerID, Name: name, SegmentIndex: e.index, SlotIndex: i})
	}
	e.readers[i].Store(nil)
	e.allocations[i].Store(Unallocated)
	return sweepEvicted
}

// Close transitions the pool to closed and drains every resident reader.
// Idempotent: only the first call performs the drain.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.ReleaseAll(deadlineInfinite)
}

// BusyCount returns the number of slots currently owned across every table.
func (p *Pool) BusyCount() int {
	n := 0
	for _, name := range p.entries.names() {
		head, ok := p.entries.load(name)
		if !ok {
			continue
		}
		for e := head; e != nil; e = e.next.Load() {
			for i := 0; i < EntrySize; i++ {
				if e.allocations[i].Load() != Unallocated {
					n++
				}
			}
		}
	}
	return n
}

// TableStatus is a point-in-time snapshot of one table's chain, returned by
// Entries. It is a copy: mutating it has no effect on the pool.
type TableStatus struct {
	Name     string
	Busy     int
	Capacity int
}

// Entries returns a snapshot of every table the pool currently tracks. The
// snapshot is not a live view and may be stale by the time it is read: it
// only guarantees each field was accurate at some instant during the call.
func (p *Pool) Entries() []TableStatus {
	names := p.entries.names()
	out := make([]TableStatus, 0, len(names))
	for _, name := range names {
		head, ok := p.entries.load(name)
		if !ok {
			continue
		}
		var status TableStatus
		status.Name = name
		for e := head; e != nil; e = e.next.Load() {
			status.Capacity += EntrySize
			for i := 0; i < EntrySize; i++ {
				if e.allocations[i].Load() != Unallocated {
					status.Busy++
				}
			}
		}
		out = append(out, status)
	}
	return out
}
