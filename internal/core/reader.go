package core

// Reader is the capability interface the pool hands out, adapted and
// reactivated across acquisitions. The real implementation — a table
// reader backed by memory-mapped table segments — is an external
// collaborator; the pool only ever calls these three methods.
//
// Reactivate and Deactivate must be idempotent-safe to call in the sequences
// the pool uses them: Deactivate is called at most once per acquisition
// (Handle.Close), and Reactivate is called at most once per reuse (Pool.Get
// finding a resident reader). Close is called at most once across the
// Reader's lifetime — the pool itself guarantees this via per-slot CAS, so
// a correct Reader implementation need not guard against double-close on
// its own.
type Reader interface {
	// Reactivate resumes a reader that was previously deactivated, without
	// reopening its underlying file descriptors or memory mappings. Returns
	// an error if the reader can no longer be reactivated (e.g., the
	// underlying file vanished), in which case the pool closes it, frees the
	// slot, and returns the error from Get; the next Get that claims the
	// slot constructs a fresh reader.
	Reactivate() error

	// Deactivate suspends background work associated with the reader
	// (e.g., periodic statistics refresh) without releasing file descriptors
	// or unmapping segments. Called when a handle is returned to the pool.
	Deactivate()

	// Close performs the true, physical release of all resources held by
	// the reader. Must be safe to call without a prior Reactivate.
	Close() error
}

// ReaderFactory constructs a new Reader for the named table. Invoked by
// Pool.Get on first acquire for a slot. Construction happens with the
// slot's allocation word already claimed by the calling thread, so
// arbitrary I/O here never blocks other slots.
type ReaderFactory func(name string) (Reader, error)
