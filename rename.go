package readerpool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/tsdbkit/readerpool/internal/core"
	"github.com/tsdbkit/readerpool/internal/fencing"
	"github.com/tsdbkit/readerpool/internal/fileutil"
)

// RenameTable fences oldName for exclusive access, renames its backing file
// from oldPath to newPath under a cross-process fence lock (so a separate
// writer pool respecting the same lockDir convention cannot race the move),
// and releases the fence. oldName's entry chain is discarded by Unlock; the
// next Get under newName starts a fresh chain.
//
// This is a worked example of composing Pool.Lock/Unlock with filesystem
// coordination, not a general rename API — callers with their own
// writer-pool protocol should drive Lock/Unlock directly instead.
func RenameTable(ctx context.Context, p *Pool, lockDir, oldName, oldPath, newPath string, owner OwnerID) error {
	if !p.Lock(oldName, owner) {
		return fmt.Errorf("readerpool: rename %s: table busy", oldName)
	}
	defer p.Unlock(oldName, owner)

	fence, err := fencing.Acquire(ctx, filepath.Join(lockDir, oldName+".lock"))
	if err != nil {
		return fmt.Errorf("readerpool: rename %s: %w", oldName, err)
	}
	defer fence.Release(core.Logger())

	if err := fileutil.EnsureDirForFile(newPath); err != nil {
		return fmt.Errorf("readerpool: rename %s: %w", oldName, err)
	}
	if err := moveFile(oldPath, newPath); err != nil {
		return fmt.Errorf("readerpool: rename %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

// moveFile renames oldPath to newPath, falling back to an atomic copy plus
// removal of oldPath when the two paths sit on different filesystems (the
// case os.Rename cannot handle: EXDEV).
func moveFile(oldPath, newPath string) error {
	err := os.Rename(oldPath, newPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := fileutil.CopyFile(oldPath, newPath, &fileutil.CopyFileOptions{Atomic: true, Sync: true}); err != nil {
		return fmt.Errorf("copy across filesystems: %w", err)
	}
	return os.Remove(oldPath)
}

// DropTable fences name for exclusive access, removes its backing file
// under a cross-process fence lock, and discards its entry chain.
func DropTable(ctx context.Context, p *Pool, lockDir, name, path string, owner OwnerID) error {
	if !p.Lock(name, owner) {
		return fmt.Errorf("readerpool: drop %s: table busy", name)
	}
	defer p.Unlock(name, owner)

	fence, err := fencing.Acquire(ctx, filepath.Join(lockDir, name+".lock"))
	if err != nil {
		return fmt.Errorf("readerpool: drop %s: %w", name, err)
	}
	defer fence.Release(core.Logger())

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("readerpool: drop %s: %w", name, err)
	}
	return nil
}
