package readerpool

import (
	"time"

	"github.com/tsdbkit/readerpool/internal/core"
)

// poolConfig holds configuration for a Pool. This unexported type wraps
// core.Config via embedding, keeping internal/core types out of the public
// API signature while avoiding field-by-field duplication, plus the settings
// kept outside core.Config: the listener (passed to core.New separately), the
// clock the background sweep reads, and the sweep interval.
type poolConfig struct {
	core.Config
	listener      core.Listener
	clock         core.Clock
	sweepInterval time.Duration
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		Config: core.Config{
			InactiveReaderTTLMicros: DefaultInactiveReaderTTL.Microseconds(),
			MaxSegments:             DefaultMaxSegments,
		},
		sweepInterval: DefaultSweepInterval,
	}
}
