// Package sqlitereader is an example-grade default implementation of
// core.Reader, standing in for the real table reader (memory-mapped table
// segments, column metadata, etc.) that a production deployment would
// supply. Each "table" here is a single SQLite database file; Reactivate and
// Deactivate map onto reopening and closing the underlying *sql.DB, which
// is close enough to the real reader's "resume/suspend without releasing
// file descriptors" contract to exercise the pool's full lifecycle in
// tests and examples.
package sqlitereader

import (
	"database/sql"
	"fmt"
	"path/filepath"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/tsdbkit/readerpool/internal/core"
	"github.com/tsdbkit/readerpool/internal/fileutil"
)

// busyTimeoutMs is the SQLite busy_timeout pragma value in milliseconds,
// preventing "database is locked" errors when a reader's reopen races a
// writer's own connection to the same file.
const busyTimeoutMs = 5000

// SQLReader extends core.Reader with access to the underlying connection,
// for callers that need to issue queries against the table a Handle wraps.
type SQLReader interface {
	core.Reader
	DB() *sql.DB
}

// Factory constructs a core.ReaderFactory that opens tables as SQLite
// database files under dir, named "<table>.sqlite". dir is created on
// first use if it does not already exist.
func Factory(dir string) core.ReaderFactory {
	return func(name string) (core.Reader, error) {
		r := &reader{path: filepath.Join(dir, name+".sqlite")}
		if err := r.open(); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// reader is the default core.Reader: one SQLite connection over one file.
type reader struct {
	path string
	db   *sql.DB
}

func (r *reader) open() error {
	if err := fileutil.EnsureDirForFile(r.path); err != nil {
		return fmt.Errorf("prepare table directory: %w", err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		r.path, busyTimeoutMs,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open table %s: %w", r.path, err)
	}
	// One connection per reader: the pool itself is the concurrency
	// mechanism across readers of the same table, so a connection pool
	// inside a single slot's reader would only add contention.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on failed open
		return fmt.Errorf("ping table %s: %w", r.path, err)
	}
	r.db = db
	return nil
}

// Reactivate reopens the connection if a prior Deactivate closed it.
func (r *reader) Reactivate() error {
	if r.db != nil {
		return nil
	}
	return r.open()
}

// Deactivate closes the connection without releasing r's identity; the
// next Reactivate reopens the same file.
func (r *reader) Deactivate() {
	if r.db == nil {
		return
	}
	core.Logger().Debug("sqlitereader: deactivate", "path", r.path)
	if err := r.db.Close(); err != nil {
		core.Logger().Warn("sqlitereader: close on deactivate", "path", r.path, "error", err)
	}
	r.db = nil
}

// Close is the true physical close; safe to call whether or not the
// connection is currently open.
func (r *reader) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// DB returns the underlying *sql.DB for issuing queries. Returns nil if the
// reader is currently deactivated.
func (r *reader) DB() *sql.DB {
	return r.db
}
