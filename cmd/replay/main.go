// Package main rebuilds a partition's state store from the event journal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	replaycmd "github.com/louisbranch/waypoint/internal/cmd/replay"
	"github.com/louisbranch/waypoint/internal/platform/config"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
)

func main() {
	cfg, err := replaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := replaycmd.Run(ctx, cfg, os.Stdout); err != nil {
		if replay.IsNonRetryable(err) {
			config.ExitCodef(config.ExitCodeReplayFailed, "Error: %v", err)
		}
		config.Exitf("Error: %v", err)
	}
}
