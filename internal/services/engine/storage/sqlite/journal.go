package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/waypoint/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/storage/sqlite/migrations"
)

var (
	// ErrInvalidEvent indicates an event the journal refuses to append.
	ErrInvalidEvent = errors.New("invalid journal event")
	// ErrInvalidPartition indicates a partition id below 1.
	ErrInvalidPartition = errors.New("partition id must be at least 1")
)

// Journal is the committed event log.
type Journal struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens (or creates) the journal at path and applies its migrations.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.JournalFS, "journal"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Journal{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// Append assigns the next contiguous positions of the partition to events and
// stores them atomically. Events without a timestamp are stamped with the
// current time. The stored events are returned.
func (j *Journal) Append(ctx context.Context, partitionID int, events ...record.Event) ([]record.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if partitionID < 1 {
		return nil, ErrInvalidPartition
	}
	for _, evt := range events {
		if err := validate(evt); err != nil {
			return nil, err
		}
	}
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := j.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var last int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) FROM events WHERE partition_id = ?", partitionID,
	).Scan(&last); err != nil {
		return nil, fmt.Errorf("read latest position: %w", err)
	}

	stored := make([]record.Event, 0, len(events))
	for i, evt := range events {
		evt.Position = uint64(last) + uint64(i) + 1
		if evt.Timestamp == 0 {
			evt.Timestamp = j.now().UTC().UnixMilli()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (partition_id, position, entity_key, intent, version, value, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			partitionID, int64(evt.Position), evt.Key, string(evt.Intent), evt.Version, []byte(evt.Value), evt.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("insert event %d: %w", evt.Position, err)
		}
		stored = append(stored, evt)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

func validate(evt record.Event) error {
	if !evt.Intent.IsEvent() {
		return fmt.Errorf("%w: %q is not an event intent", ErrInvalidEvent, evt.Intent)
	}
	if evt.Version < 1 {
		return fmt.Errorf("%w: %s version %d", ErrInvalidEvent, evt.Intent, evt.Version)
	}
	if len(evt.Value) == 0 {
		return fmt.Errorf("%w: %s has no value", ErrInvalidEvent, evt.Intent)
	}
	return nil
}

// ReadEvents returns up to limit events of the partition after
// afterPosition, in position order.
func (j *Journal) ReadEvents(ctx context.Context, partitionID int, afterPosition uint64, limit int) ([]record.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := j.sqlDB.QueryContext(ctx,
		`SELECT position, entity_key, intent, version, value, timestamp
FROM events WHERE partition_id = ? AND position > ?
ORDER BY position LIMIT ?`,
		partitionID, int64(afterPosition), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []record.Event
	for rows.Next() {
		var (
			evt      record.Event
			position int64
			in       string
			value    []byte
		)
		if err := rows.Scan(&position, &evt.Key, &in, &evt.Version, &value, &evt.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Position = uint64(position)
		evt.Intent = intent.Intent(in)
		evt.Value = value
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// LatestPosition returns the last position of the partition, or zero for an
// empty partition.
func (j *Journal) LatestPosition(ctx context.Context, partitionID int) (uint64, error) {
	var last int64
	if err := j.sqlDB.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) FROM events WHERE partition_id = ?", partitionID,
	).Scan(&last); err != nil {
		return 0, fmt.Errorf("get latest position: %w", err)
	}
	return uint64(last), nil
}
