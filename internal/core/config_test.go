package core

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	validFactory := func(string) (Reader, error) { return nil, nil }

	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid": {
			cfg:     Config{Factory: validFactory, MaxSegments: 1},
			wantErr: false,
		},
		"nil factory": {
			cfg:     Config{MaxSegments: 1},
			wantErr: true,
		},
		"zero max segments": {
			cfg:     Config{Factory: validFactory, MaxSegments: 0},
			wantErr: true,
		},
		"negative max segments": {
			cfg:     Config{Factory: validFactory, MaxSegments: -1},
			wantErr: true,
		},
		"negative ttl": {
			cfg:     Config{Factory: validFactory, MaxSegments: 1, InactiveReaderTTLMicros: -1},
			wantErr: true,
		},
		"everything wrong at once": {
			cfg:     Config{MaxSegments: -1, InactiveReaderTTLMicros: -1},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_ClockOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("defaults to SystemClock", func(t *testing.T) {
		t.Parallel()
		var cfg Config
		if _, ok := cfg.clockOrDefault().(SystemClock); !ok {
			t.Error("expected SystemClock default")
		}
	})

	t.Run("returns configured clock", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		cfg := Config{Clock: clock}
		if cfg.clockOrDefault() != clock {
			t.Error("expected configured clock to be returned unchanged")
		}
	})
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected New() to reject a zero-value Config")
	}
}

func TestNew_AcceptsValidConfig(t *testing.T) {
	t.Parallel()

	factory := &fakeFactory{}
	p, err := New(Config{Factory: factory.factory, MaxSegments: 1}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if p == nil {
		t.Fatal("New() returned nil Pool with nil error")
	}
}

func TestCriticalErrors_AreDistinctSentinels(t *testing.T) {
	t.Parallel()
	if errors.Is(criticalDoubleClose, criticalNotLockOwner) {
		t.Error("criticalDoubleClose and criticalNotLockOwner must be distinct")
	}
}
