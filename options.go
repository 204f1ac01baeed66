package readerpool

import (
	"fmt"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("readerpool: %s must be greater than 0, got %v", name, v))
	}
}

// Option configures a Pool during construction via NewPool. Each With*
// function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (non-positive durations or
// segment counts, nil callbacks). These panics are intentional: option
// values are typically compile-time constants or package-level variables,
// so an invalid value indicates a programmer error rather than a runtime
// condition. The pattern mirrors [regexp.MustCompile] — fail fast during
// initialization instead of returning errors that would be universally
// fatal anyway.
type Option func(*poolConfig)

// WithInactiveReaderTTL sets how long a slot may sit unused before the
// background sweep closes its reader.
//
// Default: DefaultInactiveReaderTTL.
//
// Panics if d <= 0.
func WithInactiveReaderTTL(d time.Duration) Option {
	requirePositive("inactive reader ttl", d)
	return func(c *poolConfig) {
		c.InactiveReaderTTLMicros = d.Microseconds()
	}
}

// WithMaxSegments sets the maximum number of entries in any single table's
// chain. Total maximum slots per table is MaxSegments * ENTRY_SIZE
// (internal/core.EntrySize).
//
// Default: DefaultMaxSegments.
//
// Panics if n < 1.
func WithMaxSegments(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("readerpool: max segments must be at least 1, got %d", n))
	}
	return func(c *poolConfig) {
		c.MaxSegments = n
	}
}

// WithReaderFactory sets the callback used to construct a Reader on first
// acquire for a slot. Required — NewPool fails if no factory is configured.
//
// Panics if f is nil.
func WithReaderFactory(f ReaderFactory) Option {
	if f == nil {
		panic("readerpool: reader factory must not be nil")
	}
	return func(c *poolConfig) {
		c.Factory = f
	}
}

// WithClock overrides the monotonic microsecond time source, both for slot
// timestamps and for computing the background sweep's eviction deadline (the
// sweep's cadence follows WithSweepInterval in real time). Tests use this to drive
// eviction deterministically without sleeping.
//
// Default: SystemClock{}.
//
// Panics if clock is nil.
func WithClock(clock Clock) Option {
	if clock == nil {
		panic("readerpool: clock must not be nil")
	}
	return func(c *poolConfig) {
		c.Clock = clock
		c.clock = clock
	}
}

// WithListener registers a capability invoked synchronously on every
// state-change event (CREATE, GET, RETURN, EXPIRE, FULL, LOCK_SUCCESS,
// LOCK_BUSY, LOCK_CLOSE, UNLOCKED, NOT_LOCKED, NOT_LOCK_OWNER). It must not
// block or panic.
//
// Panics if l is nil.
func WithListener(l Listener) Option {
	if l == nil {
		panic("readerpool: listener must not be nil")
	}
	return func(c *poolConfig) {
		c.listener = l
	}
}

// WithSweepInterval sets how often the background idle-eviction pass runs
// while the pool is open.
//
// Default: DefaultSweepInterval.
//
// Panics if d <= 0.
func WithSweepInterval(d time.Duration) Option {
	requirePositive("sweep interval", d)
	return func(c *poolConfig) {
		c.sweepInterval = d
	}
}
