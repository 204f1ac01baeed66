package sqlitereader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFactory_OpensAndCreatesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Factory(dir)("trades")
	if err != nil {
		t.Fatalf("factory() error: %v", err)
	}
	defer r.Close()

	sr, ok := r.(SQLReader)
	if !ok {
		t.Fatal("expected reader to implement SQLReader")
	}
	if sr.DB() == nil {
		t.Fatal("DB() returned nil right after open")
	}
	if err := sr.DB().Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestReader_DeactivateReactivateCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Factory(dir)("trades")
	if err != nil {
		t.Fatalf("factory() error: %v", err)
	}
	defer r.Close()

	sr := r.(SQLReader)
	r.Deactivate()
	if sr.DB() != nil {
		t.Fatal("DB() should be nil after Deactivate()")
	}

	if err := r.Reactivate(); err != nil {
		t.Fatalf("Reactivate() error: %v", err)
	}
	if sr.DB() == nil {
		t.Fatal("DB() should be non-nil after Reactivate()")
	}
	if err := sr.DB().Ping(); err != nil {
		t.Fatalf("Ping() after Reactivate() error: %v", err)
	}
}

func TestReader_ReactivateIsNoopWhenAlreadyOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Factory(dir)("trades")
	if err != nil {
		t.Fatalf("factory() error: %v", err)
	}
	defer r.Close()

	db := r.(SQLReader).DB()
	if err := r.Reactivate(); err != nil {
		t.Fatalf("Reactivate() error: %v", err)
	}
	if r.(SQLReader).DB() != db {
		t.Fatal("Reactivate() on an already-open reader should not replace the connection")
	}
}

func TestReader_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Factory(dir)("trades")
	if err != nil {
		t.Fatalf("factory() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestFactory_CreatesSeparateFilesPerTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	factory := Factory(dir)

	a, err := factory("trades")
	if err != nil {
		t.Fatalf("factory(trades) error: %v", err)
	}
	defer a.Close()
	b, err := factory("quotes")
	if err != nil {
		t.Fatalf("factory(quotes) error: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(filepath.Join(dir, "trades.sqlite")); err != nil {
		t.Errorf("trades.sqlite missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "quotes.sqlite")); err != nil {
		t.Errorf("quotes.sqlite missing: %v", err)
	}
}
