package readerpool

import (
	"fmt"
	"sync"
	"time"

	"github.com/tsdbkit/readerpool/internal/core"
)

// Pool is the concurrent reader pool described in the package doc comment.
// All methods are safe for concurrent use by multiple owners.
type Pool struct {
	core          *core.Pool
	clock         core.Clock
	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

// NewPool constructs a Pool. WithReaderFactory is required; every other
// Option has a default (see the Default* constants in defaults.go).
//
// NewPool starts a background goroutine that periodically invokes
// ReleaseAll to evict readers idle past WithInactiveReaderTTL; Close stops
// it before performing the final drain.
func NewPool(opts ...Option) (*Pool, error) {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	clock := cfg.clock
	if clock == nil {
		clock = core.SystemClock{}
	}

	engine, err := core.New(cfg.Config, cfg.listener)
	if err != nil {
		return nil, fmt.Errorf("readerpool: %w", err)
	}

	p := &Pool{
		core:          engine,
		clock:         clock,
		sweepInterval: cfg.sweepInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go p.sweepLoop(cfg.InactiveReaderTTLMicros)
	return p, nil
}

// sweepLoop periodically evicts idle readers until Close signals stop.
func (p *Pool) sweepLoop(ttlMicros int64) {
	defer close(p.done)
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			deadline := p.clock.NowMicros() - ttlMicros
			p.core.ReleaseAll(deadline)
		}
	}
}

// Get acquires a Handle wrapping a Reader for name. owner identifies the
// caller (see NewOwnerID) and must be reused by the same logical caller
// across Get/Lock/Unlock calls.
//
// Fails with ErrClosed if the pool has been closed, ErrLocked if another
// owner holds the table's exclusive lock, or ErrUnavailable if the table's
// entry chain is full.
func (p *Pool) Get(name string, owner OwnerID) (*Handle, error) {
	return p.core.Get(name, owner)
}

// Lock fences name for exclusive access: every resident reader is
// physically closed, new acquisitions fail ErrLocked, and the table's
// chain stops growing until Unlock. Returns false if any slot is currently
// owned by a different caller. Reentrant: an owner already holding the
// lock may call Lock again and succeed, provided it holds no outstanding
// Handle on the table.
func (p *Pool) Lock(name string, owner OwnerID) bool {
	return p.core.Lock(name, owner)
}

// Unlock releases an exclusive lock held by owner on name and discards the
// table's entry chain entirely; the next Get creates a fresh one.
//
// Panics if the pool tracks name and owner does not hold its lock; for a
// name the pool does not track, Unlock only emits NOT_LOCKED. Callers must
// ensure no Get is concurrent with Unlock for the same name.
func (p *Pool) Unlock(name string, owner OwnerID) {
	p.core.Unlock(name, owner)
}

// ReleaseAll evicts every resident reader whose last acquire/release
// timestamp is older than deadlineMicros. Returns whether any reader was
// evicted; once the pool has been closed it instead returns whether every
// table was fully drained. Exposed for callers that want to drive eviction on their own
// schedule instead of (or in addition to) the background sweep.
func (p *Pool) ReleaseAll(deadlineMicros int64) bool {
	return p.core.ReleaseAll(deadlineMicros)
}

// BusyCount returns the number of slots currently owned across every
// table.
func (p *Pool) BusyCount() int {
	return p.core.BusyCount()
}

// Entries returns a snapshot of every table the pool currently tracks.
func (p *Pool) Entries() []TableStatus {
	return p.core.Entries()
}

// Close stops the background sweep and drains every resident reader.
// Idempotent: only the first call performs the drain.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.done
		p.core.Close()
	})
	return nil
}
