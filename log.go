package readerpool

import (
	"log/slog"

	"github.com/tsdbkit/readerpool/internal/core"
)

// SetLogger replaces the package-level logger used by readerpool.
// This allows applications to integrate readerpool logging with their own
// logging infrastructure. The provided logger should already have any
// desired attributes; readerpool will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with
// "component" attribute, re-derived on the next Logger() call and then
// cached. Call SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other readerpool operations.
//
// Example:
//
//	readerpool.SetLogger(myLogger.With("component", "readerpool"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
