package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/store/storetest"
)

// createTestBackend opens a fresh database in a temp dir.
func createTestBackend(t *testing.T) *Backend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestSQLiteBackend(t *testing.T) {
	storetest.RunBackendTests(t, func(t *testing.T) store.Backend {
		return createTestBackend(t)
	})
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		b, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		b.Close()
	}

	b, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer b.Close()

	for _, table := range []string{"preferences", "clock"} {
		var name string
		err := b.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_Pragmas(t *testing.T) {
	b := createTestBackend(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"user_version": "1",
	}
	for name, want := range checks {
		if err := b.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_MigrationCreatesSeqIndex(t *testing.T) {
	b := createTestBackend(t)

	var name string
	err := b.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_preferences_seq'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("seq index missing: %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	b := &Backend{db: nil}
	if err := b.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	b1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	first, err := b1.Put(ctx, store.Entry{Key: "volume", Kind: "float", Value: []byte("0.75")})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	b1.Close()

	b2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b2.Close()

	got, err := b2.Get(ctx, "volume")
	if err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
	if string(got.Value) != "0.75" || got.Kind != "float" {
		t.Errorf("got %+v, want volume=0.75 (float)", got)
	}

	// The clock survives reopen, so seq keeps increasing.
	next, err := b2.Put(ctx, store.Entry{Key: "volume", Kind: "float", Value: []byte("1")})
	if err != nil {
		t.Fatalf("Put() after reopen failed: %v", err)
	}
	if next.Seq <= first.Seq {
		t.Errorf("seq went backwards: %d then %d", first.Seq, next.Seq)
	}
}
