package core

import "github.com/tsdbkit/readerpool/internal/sentinel"

// ErrClosed is returned by Get once the pool has been closed (Lock reports
// a closed pool by returning false). Once returned for a given Pool, it is
// returned forever.
const ErrClosed = sentinel.Error("reader pool is closed")

// ErrLocked is returned by Get when another thread holds the table's
// exclusive lock.
const ErrLocked = sentinel.Error("table is exclusively locked")

// ErrUnavailable is returned by Get when a table's entry chain has reached
// MaxSegments entries and every slot is owned.
const ErrUnavailable = sentinel.Error("no free reader slot available")

// criticalDoubleClose and criticalNotLockOwner back panics for invariant
// violations that must never be swallowed: a returned error a caller can
// ignore would let state corruption pass silently. These conditions can
// only arise from a programming error, never from ordinary contention, so
// there is no meaningful recovery path for a caller to implement.
const (
	criticalDoubleClose  = sentinel.Error("reader pool: double close of handle")
	criticalNotLockOwner = sentinel.Error("reader pool: unlock called by non-owner")
)
