// Package fencing provides cross-process file-lock coordination for
// filesystem operations (rename, drop) that must not race a separate
// writer pool touching the same table file. It is a narrow, example-grade
// stand-in for real writer-pool coordination, which is a separate
// collaborator this module does not implement.
package fencing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// retryInterval is the interval between consecutive attempts to acquire a
// table's fence file lock. 50ms balances responsiveness against CPU
// overhead from busy-polling.
const retryInterval = 50 * time.Millisecond

// Fence is a held exclusive lock on a table's on-disk fence file,
// coordinating with any other process that respects the same convention
// (e.g. a writer pool) while a reader-pool caller performs a filesystem
// operation under Pool.Lock.
type Fence struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on lockPath, creating it if necessary.
// It respects context cancellation, retrying at retryInterval until the
// lock is acquired or ctx is done.
func Acquire(ctx context.Context, lockPath string) (*Fence, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring fence lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring fence lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring fence lock %s: lock not acquired", lockPath)
	}

	return &Fence{fl: fl}, nil
}

// Release releases the fence and closes its file descriptor. The lock file
// is intentionally left on disk: removing it could invalidate a lock
// concurrently acquired by another process. Close() calls Unlock()
// internally, so no explicit Unlock is needed. Errors are logged at debug
// level; this is best-effort cleanup, so errors are not returned.
func (f *Fence) Release(logger *slog.Logger) {
	if f == nil || f.fl == nil {
		return
	}
	if err := f.fl.Close(); err != nil {
		logger.Debug("failed to release fence lock", "path", f.fl.Path(), "err", err)
	}
}
