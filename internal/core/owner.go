package core

import "sync/atomic"

// OwnerID identifies the caller of Get/Lock/Unlock. Go exposes no stable
// per-goroutine identity, so callers obtain one explicitly via NewOwnerID
// and reuse it for the lifetime of the worker (goroutine, connection, query
// context) that acts as a single logical caller against the pool. See
// DESIGN.md for why this module does not attempt to recover real goroutine
// ids.
type OwnerID int64

// ownerSeq hands out distinct OwnerID values. It never reuses a retired id:
// monotonic ids sidestep any ABA concern around identity reuse across
// unrelated callers.
var ownerSeq atomic.Int64

// NewOwnerID returns a fresh, positive OwnerID.
func NewOwnerID() OwnerID {
	return OwnerID(ownerSeq.Add(1))
}

// sweepOwnerID is the reserved identity the idle-eviction sweep uses when it
// CASes a slot's allocation word to claim it for cleanup. It is not positive,
// so it can never collide with a value returned by NewOwnerID, while still
// being distinguishable from Unallocated.
const sweepOwnerID int64 = 0
