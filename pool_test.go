package readerpool

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeReader struct {
	closes        atomic.Int64
	reactivations atomic.Int64
	deactivations atomic.Int64
}

func (r *fakeReader) Reactivate() error { r.reactivations.Add(1); return nil }
func (r *fakeReader) Deactivate()       { r.deactivations.Add(1) }
func (r *fakeReader) Close() error      { r.closes.Add(1); return nil }

func fakeFactory() (int64, ReaderFactory) {
	var created atomic.Int64
	return 0, func(name string) (Reader, error) {
		created.Add(1)
		return &fakeReader{}, nil
	}
}

type fakeClock struct{ micros atomic.Int64 }

func (c *fakeClock) NowMicros() int64 { return c.micros.Load() }
func (c *fakeClock) set(v int64)      { c.micros.Store(v) }

func TestNewPool_RequiresReaderFactory(t *testing.T) {
	t.Parallel()

	_, err := NewPool()
	if err == nil {
		t.Fatal("expected NewPool() with no factory to fail")
	}
}

func TestPool_GetLockUnlockClose(t *testing.T) {
	t.Parallel()

	_, factory := fakeFactory()
	p, err := NewPool(WithReaderFactory(factory), WithSweepInterval(time.Hour))
	if err != nil {
		t.Fatalf("NewPool() error: %v", err)
	}
	defer p.Close()

	owner := NewOwnerID()
	h, err := p.Get("trades", owner)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if h.Reader() == nil {
		t.Fatal("Handle.Reader() returned nil")
	}
	if h.Name() != "trades" {
		t.Errorf("Handle.Name() = %q, want trades", h.Name())
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Handle.Close() error: %v", err)
	}

	other := NewOwnerID()
	if !p.Lock("trades", other) {
		t.Fatal("Lock() = false, want true")
	}
	if _, err := p.Get("trades", owner); err != ErrLocked {
		t.Errorf("Get() on locked table = %v, want ErrLocked", err)
	}
	p.Unlock("trades", other)

	if _, err := p.Get("trades", owner); err != nil {
		t.Fatalf("Get() after Unlock() error: %v", err)
	}
}

func TestPool_CloseIsIdempotentAndStopsSweep(t *testing.T) {
	t.Parallel()

	_, factory := fakeFactory()
	p, err := NewPool(WithReaderFactory(factory), WithSweepInterval(time.Hour))
	if err != nil {
		t.Fatalf("NewPool() error: %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestPool_BackgroundSweepEvictsIdleReaders(t *testing.T) {
	t.Parallel()

	_, factory := fakeFactory()
	clock := &fakeClock{}
	clock.set(0)
	p, err := NewPool(
		WithReaderFactory(factory),
		WithClock(clock),
		WithInactiveReaderTTL(time.Microsecond),
		WithSweepInterval(5*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewPool() error: %v", err)
	}
	defer p.Close()

	owner := NewOwnerID()
	h, err := p.Get("trades", owner)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	fr := h.Reader().(*fakeReader)
	if err := h.Close(); err != nil {
		t.Fatalf("Handle.Close() error: %v", err)
	}

	clock.set(int64(time.Hour / time.Microsecond))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fr.closes.Load() == 1 && p.BusyCount() == 0 {
			found := false
			for _, ts := range p.Entries() {
				if ts.Name == "trades" {
					found = true
				}
			}
			if found {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("background sweep did not evict the idle reader within timeout")
}

func TestOptions_PanicOnInvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string]func(){
		"negative ttl":       func() { WithInactiveReaderTTL(-1) },
		"zero ttl":           func() { WithInactiveReaderTTL(0) },
		"zero max segments":  func() { WithMaxSegments(0) },
		"negative max segs":  func() { WithMaxSegments(-1) },
		"nil factory":        func() { WithReaderFactory(nil) },
		"nil clock":          func() { WithClock(nil) },
		"nil listener":       func() { WithListener(nil) },
		"non-positive sweep": func() { WithSweepInterval(0) },
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}
