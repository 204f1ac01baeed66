package readerpool

import "time"

// Default configuration values for NewPool.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultInactiveReaderTTL).
const (
	// DefaultInactiveReaderTTL is how long a slot may sit unused before the
	// background sweep closes its reader.
	DefaultInactiveReaderTTL = 5 * time.Minute

	// DefaultMaxSegments bounds the length of any single table's entry
	// chain. Total maximum slots per table = DefaultMaxSegments * ENTRY_SIZE
	// (internal/core.EntrySize).
	DefaultMaxSegments = 8

	// DefaultSweepInterval is how often the background idle-eviction pass
	// runs while the pool is open.
	DefaultSweepInterval = 30 * time.Second
)
