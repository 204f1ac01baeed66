package readerpool

import "github.com/tsdbkit/readerpool/internal/core"

// These aliases re-export the internal/core capability interfaces and
// value types through the public API without duplicating their
// definitions or exposing internal/core in exported signatures' doc
// comments.
type (
	// OwnerID identifies a caller across Get/Lock/Unlock. Obtain one with
	// NewOwnerID and reuse it for the lifetime of the logical "thread"
	// (goroutine, connection, query context) acting against the pool.
	OwnerID = core.OwnerID

	// Reader is the capability interface the pool hands out, wrapped in a
	// Handle, adapted and reactivated across acquisitions.
	Reader = core.Reader

	// ReaderFactory constructs a new Reader for a named table, invoked by
	// Get on first acquire for a slot.
	ReaderFactory = core.ReaderFactory

	// Clock is the monotonic microsecond time source the pool consumes.
	Clock = core.Clock

	// SystemClock is the default Clock, backed by the runtime clock.
	SystemClock = core.SystemClock

	// Listener is invoked synchronously on every pool state-change event.
	Listener = core.Listener

	// ListenerFunc adapts a plain function to Listener.
	ListenerFunc = core.ListenerFunc

	// Event is the payload delivered to a Listener.
	Event = core.Event

	// EventCode identifies the kind of event a Listener observes.
	EventCode = core.EventCode

	// TableStatus is a point-in-time snapshot of one table's chain,
	// returned by Pool.Entries.
	TableStatus = core.TableStatus

	// Handle is a caller's exclusive lease on one slot's Reader, returned
	// by Pool.Get.
	Handle = core.Handle
)

// Event codes, re-exported from internal/core. See Listener.
const (
	EventCreate        = core.EventCreate
	EventGet           = core.EventGet
	EventReturn        = core.EventReturn
	EventExpire        = core.EventExpire
	EventFull          = core.EventFull
	EventLockSuccess   = core.EventLockSuccess
	EventLockBusy      = core.EventLockBusy
	EventLockClose     = core.EventLockClose
	EventUnlocked      = core.EventUnlocked
	EventNotLocked     = core.EventNotLocked
	EventNotLockOwner  = core.EventNotLockOwner
)

// NoSlot is used in place of a segment or slot index for slot-agnostic
// events.
const NoSlot = core.NoSlot

// NewOwnerID returns a fresh OwnerID for a new caller.
func NewOwnerID() OwnerID {
	return core.NewOwnerID()
}
