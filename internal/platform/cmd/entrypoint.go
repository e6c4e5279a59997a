// Package cmd holds the startup plumbing shared by the engine commands:
// prefixed env config, flag parsing and the telemetry-wrapped run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/louisbranch/waypoint/internal/platform/config"
	"github.com/louisbranch/waypoint/internal/platform/otel"
	"github.com/louisbranch/waypoint/internal/platform/timeouts"
)

// Service identifiers. They name the env prefix and the OTel service.
const (
	ServiceEngine = "engine"
	ServiceReplay = "replay"
	ServiceStatus = "status"
)

// ParseServiceConfig loads environment defaults for service into cfg. Fields
// are read from WAYPOINT_<SERVICE>_<TAG>.
func ParseServiceConfig[T any](cfg *T, service string) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	return config.ParseEnvPrefixed(cfg, config.EnvPrefix+strings.ToUpper(service)+"_")
}

// ParseArgs parses command-line flags. Flags override the environment.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the trace pipeline for service, runs run and
// flushes telemetry once it returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	shutdown, err := otel.Setup(ctx, "waypoint-"+service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
