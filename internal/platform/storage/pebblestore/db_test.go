package pebblestore

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type testMetrics struct {
	read         int
	batchCommits int
	batchOps     int
}

func (m *testMetrics) ObserveRead(_ time.Duration, bytes int) { m.read += bytes }
func (m *testMetrics) ObserveBatchCommit(_ time.Duration, numOps int, _ int) {
	m.batchCommits++
	m.batchOps += numOps
}

func newTestDB(t *testing.T) (*DB, *testMetrics) {
	t.Helper()
	metrics := &testMetrics{}
	db, err := Open(Options{InMemory: true, Fsync: FsyncModeAlways, Metrics: metrics})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, metrics
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatal("expected error without data dir")
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Options{DataDir: dir, Fsync: FsyncModeInterval, FsyncInterval: 2 * time.Millisecond})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := NewTxContext(db)
	if err := ctx.Current().Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ctx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	_ = ctx.Rollback()
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(Options{DataDir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(entries) != 1 || string(entries[0].Value) != "v" {
		t.Fatalf("entries = %v, want k=v", entries)
	}
}

func TestTxReadYourWrites(t *testing.T) {
	db, metrics := newTestDB(t)
	tx := db.Begin()

	if err := tx.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := tx.Get([]byte("a"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "1" {
		t.Fatalf("got %q want 1", got)
	}
	if metrics.read == 0 {
		t.Fatal("expected read metrics to record bytes")
	}

	entries, err := db.Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("uncommitted write visible: %v", entries)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if metrics.batchCommits != 1 || metrics.batchOps != 1 {
		t.Fatalf("commit metrics = %+v", metrics)
	}
	if _, err := tx.Get([]byte("a")); !errors.Is(err, ErrTxClosed) {
		t.Fatalf("get after commit error = %v, want ErrTxClosed", err)
	}
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := NewTxContext(db)

	if err := ctx.Current().Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ctx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if _, err := ctx.Current().Get([]byte("a")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after rollback error = %v, want ErrNotFound", err)
	}
}

func TestTxScanPrefix(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := NewTxContext(db)
	tx := ctx.Current()
	for _, k := range []string{"a1", "b2", "b1", "c1"} {
		if err := tx.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := ctx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := ctx.Current().Set([]byte("b3"), []byte("b3")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ctx.Current().Delete([]byte("b1")); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var seen []string
	err := ctx.Current().Scan([]byte("b"), func(key, value []byte) error {
		seen = append(seen, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(seen) != 2 || seen[0] != "b2" || seen[1] != "b3" {
		t.Fatalf("seen = %v, want [b2 b3]", seen)
	}
}

func TestLoadRestoresDump(t *testing.T) {
	src, _ := newTestDB(t)
	ctx := NewTxContext(src)
	_ = ctx.Current().Set([]byte("x"), []byte("1"))
	_ = ctx.Current().Set([]byte("y"), []byte("2"))
	if err := ctx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	entries, err := src.Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	dst, _ := newTestDB(t)
	if err := dst.Load(entries); err != nil {
		t.Fatalf("load: %v", err)
	}
	copied, err := dst.Dump()
	if err != nil {
		t.Fatalf("dump copy: %v", err)
	}
	if len(copied) != len(entries) {
		t.Fatalf("copied %d entries, want %d", len(copied), len(entries))
	}
	for i := range entries {
		if !bytes.Equal(copied[i].Key, entries[i].Key) || !bytes.Equal(copied[i].Value, entries[i].Value) {
			t.Fatalf("entry %d = %v, want %v", i, copied[i], entries[i])
		}
	}
}

func TestParseFsyncMode(t *testing.T) {
	tests := map[string]FsyncMode{
		"":         FsyncModeInterval,
		"interval": FsyncModeInterval,
		"always":   FsyncModeAlways,
		"never":    FsyncModeNever,
	}
	for input, want := range tests {
		got, err := ParseFsyncMode(input)
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestFlushPersistsWithoutSync(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Options{DataDir: dir, Fsync: FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := NewTxContext(db)
	if err := ctx.Current().Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ctx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := db.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(Options{DataDir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
}
