// Package main prints the replay progress of a running engine.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	statuscmd "github.com/louisbranch/waypoint/internal/cmd/status"
	"github.com/louisbranch/waypoint/internal/platform/config"
)

func main() {
	cfg, err := statuscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := statuscmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
