// Package readerpool implements the concurrent reader pool at the heart of
// a time-series database's table-access layer: a lock-free, segmented slot
// allocator that hands out shared, reusable table-reader handles, layered
// with an exclusive table lock and a background idle-eviction sweep.
//
// # Basic usage
//
//	pool, err := readerpool.NewPool(
//		readerpool.WithReaderFactory(myFactory),
//		readerpool.WithInactiveReaderTTL(5*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	owner := readerpool.NewOwnerID()
//	handle, err := pool.Get("trades", owner)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer handle.Close()
//
//	// Use handle.Reader()...
//
// # Exclusive access
//
// Lock fences a table for the duration of a rename, drop, or schema
// change, closing every resident reader and blocking new acquisitions
// until Unlock:
//
//	if !pool.Lock("trades", owner) {
//		// another thread is using the table right now
//		return
//	}
//	defer pool.Unlock("trades", owner)
//
// # Scope
//
// The pool itself does not open files, parse table metadata, or execute
// queries — it only manages the lifecycle of whatever Reader its factory
// constructs. Durability, transactionality, and coordination with a
// separate writer pool beyond the shared lock/unlock shape are out of
// scope; see RenameTable and DropTable for a worked example of composing
// the pool's lock with filesystem-level rename coordination.
package readerpool
