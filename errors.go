package readerpool

import "github.com/tsdbkit/readerpool/internal/core"

// Sentinel errors for error inspection with errors.Is.
//
// These use the sentinel.Error const pattern instead of errors.New vars.
// sentinel.Error is a string type implementing error, allowing errors to be
// declared as const. This prevents accidental reassignment and enables
// compile-time immutability, while remaining compatible with errors.Is
// through Go's default == comparison on comparable types.
const (
	// ErrClosed is returned by Get once the pool has been closed (Lock
	// reports a closed pool by returning false).
	ErrClosed = core.ErrClosed

	// ErrLocked is returned by Get when another owner holds the table's
	// exclusive lock.
	ErrLocked = core.ErrLocked

	// ErrUnavailable is returned by Get when a table's entry chain has
	// reached MaxSegments entries and every slot is owned.
	ErrUnavailable = core.ErrUnavailable
)
