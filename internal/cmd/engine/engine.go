// Package engine parses engine command flags and starts the replay runtime.
package engine

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"

	entrypoint "github.com/louisbranch/waypoint/internal/platform/cmd"
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	server "github.com/louisbranch/waypoint/internal/services/engine/app"
)

// Config holds engine command configuration. Environment variables carry the
// WAYPOINT_ENGINE_ prefix.
type Config struct {
	Port         int           `env:"PORT" envDefault:"8090"`
	Addr         string        `env:"ADDR"`
	DataDir      string        `env:"DATA_DIR" envDefault:"data/engine"`
	JournalPath  string        `env:"JOURNAL_PATH" envDefault:"data/engine/journal.db"`
	Partitions   int           `env:"PARTITIONS" envDefault:"1"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"250ms"`
	PageSize     int           `env:"PAGE_SIZE" envDefault:"200"`
	Fsync        string        `env:"FSYNC" envDefault:"interval"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseServiceConfig(&cfg, entrypoint.ServiceEngine); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The engine gRPC port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The engine listen address (overrides -port)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding one state store per partition")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path of the SQLite event journal")
	fs.IntVar(&cfg.Partitions, "partitions", cfg.Partitions, "Number of partitions to replay")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "How often to poll the journal for new events")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Events read per journal page")
	fs.StringVar(&cfg.Fsync, "fsync", cfg.Fsync, "State fsync mode: always, interval or never")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) serverConfig() (server.Config, error) {
	fsync, err := pebblestore.ParseFsyncMode(c.Fsync)
	if err != nil {
		return server.Config{}, err
	}
	if c.Partitions < 1 {
		return server.Config{}, fmt.Errorf("partitions must be at least 1, got %d", c.Partitions)
	}
	addr := c.Addr
	if addr == "" {
		addr = net.JoinHostPort("", strconv.Itoa(c.Port))
	}
	return server.Config{
		Addr:         addr,
		DataDir:      c.DataDir,
		JournalPath:  c.JournalPath,
		Partitions:   c.Partitions,
		PollInterval: c.PollInterval,
		PageSize:     c.PageSize,
		Fsync:        fsync,
	}, nil
}

// Run starts the engine replay runtime.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.serverConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEngine, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
