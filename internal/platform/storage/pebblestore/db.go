package pebblestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// ErrNotFound is returned when a key is absent.
var ErrNotFound = errors.New("pebblestore: not found")

// FsyncMode defines durability behavior for committed transactions.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways syncs the WAL on every commit.
	FsyncModeAlways
	// FsyncModeInterval syncs every commit but lets Pebble coalesce WAL syncs
	// that arrive within FsyncInterval.
	FsyncModeInterval
	// FsyncModeNever leaves WAL syncs to Pebble.
	FsyncModeNever
)

// ParseFsyncMode maps a configuration value onto a FsyncMode.
func ParseFsyncMode(value string) (FsyncMode, error) {
	switch value {
	case "", "interval":
		return FsyncModeInterval, nil
	case "always":
		return FsyncModeAlways, nil
	case "never":
		return FsyncModeNever, nil
	default:
		return FsyncModeUnspecified, fmt.Errorf("unknown fsync mode %q", value)
	}
}

// Options configures a store.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// InMemory keeps the database on an in-memory filesystem. DataDir may be
	// empty.
	InMemory bool
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning. Defaults are used when nil.
	PebbleOptions *pebble.Options
	// Metrics observes reads and commits. Optional.
	Metrics MetricsHook
}

// MetricsHook is a minimal hook surface for storage observations.
type MetricsHook interface {
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// DB wraps a Pebble database with the configured fsync policy.
type DB struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

// Open creates or opens a database.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" && !opts.InMemory {
		return nil, errors.New("pebblestore: Options.DataDir is required")
	}

	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	if opts.InMemory {
		po.FS = vfs.NewMem()
		if opts.DataDir == "" {
			opts.DataDir = "state"
		}
	}

	switch opts.Fsync {
	case FsyncModeAlways, FsyncModeNever:
	case FsyncModeInterval:
		if opts.FsyncInterval <= 0 {
			opts.FsyncInterval = 5 * time.Millisecond
		}
		interval := opts.FsyncInterval
		po.WALMinSyncInterval = func() time.Duration { return interval }
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", opts.DataDir, err)
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &DB{
		inner:     inner,
		writeSync: opts.Fsync != FsyncModeNever,
		metrics:   metrics,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	return db.inner.Close()
}

// Flush writes memtables to sstables so unsynced commits survive a crash.
func (db *DB) Flush() error {
	return db.inner.Flush()
}

// Begin opens a transaction over an indexed batch.
func (db *DB) Begin() *Tx {
	return &Tx{db: db, batch: db.inner.NewIndexedBatch()}
}

// KV is one stored entry.
type KV struct {
	Key   []byte
	Value []byte
}

// Dump returns every committed entry in key order.
func (db *DB) Dump() ([]KV, error) {
	it, err := db.inner.NewIter(nil)
	if err != nil {
		return nil, err
	}
	return collect(it, nil)
}

// Load writes entries in one synchronous batch. It is meant for restoring a
// copied state into an empty database.
func (db *DB) Load(entries []KV) error {
	b := db.inner.NewBatch()
	defer b.Close()
	for _, kv := range entries {
		if err := b.Set(kv.Key, kv.Value, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

func (db *DB) writeOptions() *pebble.WriteOptions {
	if db.writeSync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func collect(it *pebble.Iterator, fn func(key, value []byte) error) (out []KV, err error) {
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()
	for ok := it.First(); ok; ok = it.Next() {
		key := append([]byte(nil), it.Key()...)
		value := append([]byte(nil), it.Value()...)
		if fn != nil {
			if err := fn(key, value); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, KV{Key: key, Value: value})
	}
	return out, it.Error()
}
