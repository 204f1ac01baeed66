package core

// EventCode identifies the kind of state-change event a Listener observes.
// The set below is exhaustive; nothing else is ever emitted.
type EventCode int

const (
	// EventCreate fires when Get constructs a new Reader for a slot that had
	// never been used before.
	EventCreate EventCode = iota
	// EventGet fires when Get reactivates a cached Reader already resident
	// in a slot.
	EventGet
	// EventReturn fires when a Handle is returned to the pool (not
	// physically closed).
	EventReturn
	// EventExpire fires when the idle-eviction sweep physically closes a
	// Reader that aged past its deadline.
	EventExpire
	// EventFull fires when Get exhausts every slot in every Entry of a
	// table's chain up to MaxSegments.
	EventFull
	// EventLockSuccess fires when Lock acquires every slot of every Entry in
	// a table's chain.
	EventLockSuccess
	// EventLockBusy fires when Lock fails because some slot (or the
	// lockOwner word itself) is held by another thread.
	EventLockBusy
	// EventLockClose fires once per resident Reader that Lock physically
	// closes while fencing a table.
	EventLockClose
	// EventUnlocked fires when Unlock completes successfully.
	EventUnlocked
	// EventNotLocked fires when Unlock is called for a name the pool has no
	// entry chain for. Unlock on a tracked table whose lock the caller does
	// not hold emits EventNotLockOwner instead.
	EventNotLocked
	// EventNotLockOwner fires when Unlock is called by a thread that is not
	// the table's current lock owner.
	EventNotLockOwner
)

// String renders the event code the way it is logged and asserted on in
// tests: the bare enumerator name.
func (c EventCode) String() string {
	switch c {
	case EventCreate:
		return "CREATE"
	case EventGet:
		return "GET"
	case EventReturn:
		return "RETURN"
	case EventExpire:
		return "EXPIRE"
	case EventFull:
		return "FULL"
	case EventLockSuccess:
		return "LOCK_SUCCESS"
	case EventLockBusy:
		return "LOCK_BUSY"
	case EventLockClose:
		return "LOCK_CLOSE"
	case EventUnlocked:
		return "UNLOCKED"
	case EventNotLocked:
		return "NOT_LOCKED"
	case EventNotLockOwner:
		return "NOT_LOCK_OWNER"
	default:
		return "UNKNOWN"
	}
}

// NoSlot is used in place of a segment or slot index for slot-agnostic
// events.
const NoSlot = -1

// Event is the payload delivered to a Listener on every state-change.
type Event struct {
	Code         EventCode
	OwnerID      int64
	Name         string
	SegmentIndex int
	SlotIndex    int
}

// Listener is the observability capability interface passed to New. It is
// invoked synchronously and must not block or panic; a slow or panicking
// Listener will slow down or crash the calling goroutine's pool operation.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a plain function to Listener, the common Go idiom
// for single-method capability interfaces (see http.HandlerFunc).
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// emit delivers ev to p's listener, if any, and always logs it at debug
// level. Logging is unconditional (not just a listener fallback) so a
// production deployment without a custom Listener still gets structured
// per-event logs.
func (p *Pool) emit(ev Event) {
	Logger().Debug("reader pool event",
		"event", ev.Code.String(),
		"owner_id", ev.OwnerID,
		"name", ev.Name,
		"segment_index", ev.SegmentIndex,
		"slot_index", ev.SlotIndex,
	)
	if p.listener != nil {
		p.listener.OnEvent(ev)
	}
}
