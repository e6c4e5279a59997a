// Package replay rebuilds one partition's state store offline from the event
// journal.
package replay

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	entrypoint "github.com/louisbranch/waypoint/internal/platform/cmd"
	apperrors "github.com/louisbranch/waypoint/internal/platform/errors"
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/eventapply"
	enginereplay "github.com/louisbranch/waypoint/internal/services/engine/replay"
	"github.com/louisbranch/waypoint/internal/services/engine/state/pebblestate"
	"github.com/louisbranch/waypoint/internal/services/engine/storage/sqlite"
)

// Config holds replay command configuration. Environment variables carry the
// WAYPOINT_REPLAY_ prefix.
type Config struct {
	JournalPath string        `env:"JOURNAL_PATH" envDefault:"data/engine/journal.db"`
	OutDir      string        `env:"OUT_DIR"`
	Partition   int           `env:"PARTITION" envDefault:"1"`
	Until       uint64        `env:"UNTIL"`
	PageSize    int           `env:"PAGE_SIZE" envDefault:"500"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseServiceConfig(&cfg, entrypoint.ServiceReplay); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path of the SQLite event journal")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory of the state store to build (must not exist)")
	fs.IntVar(&cfg.Partition, "partition", cfg.Partition, "Partition to replay")
	fs.Uint64Var(&cfg.Until, "until", cfg.Until, "Stop after this position (0 replays everything)")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Events read per journal page")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Overall replay timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.OutDir == "" {
		return Config{}, errors.New("-out is required")
	}
	if cfg.Partition < 1 {
		return Config{}, fmt.Errorf("partition must be at least 1, got %d", cfg.Partition)
	}
	return cfg, nil
}

// Run replays the journal into a fresh state store and reports the result to
// out. Replaying into an existing store is refused so a rebuild never mixes
// with live state.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if _, err := os.Stat(cfg.OutDir); err == nil {
		return fmt.Errorf("output %s already exists", cfg.OutDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat output: %w", err)
	}

	journal, err := sqlite.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()

	db, err := pebblestore.Open(pebblestore.Options{DataDir: cfg.OutDir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer db.Close()

	s := pebblestate.New(db)
	registry, err := eventapply.Build(s)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeApplierRegistrationInvalid, err.Error(), err)
	}
	result, err := enginereplay.Replay(ctx, enginereplay.Partition{
		ID:      cfg.Partition,
		Log:     journal,
		Applier: registry,
		Target:  s,
	}, enginereplay.Options{UntilPosition: cfg.Until, PageSize: cfg.PageSize})
	if err != nil {
		return err
	}
	if err := db.Flush(); err != nil {
		return fmt.Errorf("flush state: %w", err)
	}
	fmt.Fprintf(out, "partition %d: applied %d events, last position %d\n", cfg.Partition, result.Applied, result.LastPosition)
	return nil
}
