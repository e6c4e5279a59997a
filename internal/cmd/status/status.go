// Package status prints the replay progress of a running engine.
package status

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	entrypoint "github.com/louisbranch/waypoint/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/waypoint/internal/platform/grpc"
	"github.com/louisbranch/waypoint/internal/platform/timeouts"
	"github.com/louisbranch/waypoint/internal/services/engine/api/grpc/diagnostics"
)

// Config holds status command configuration. Environment variables carry the
// WAYPOINT_STATUS_ prefix.
type Config struct {
	Addr          string `env:"ADDR" envDefault:"localhost:8090"`
	Registrations bool   `env:"REGISTRATIONS"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseServiceConfig(&cfg, entrypoint.ServiceStatus); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Engine gRPC address")
	fs.BoolVar(&cfg.Registrations, "registrations", cfg.Registrations, "Also list every registered applier")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run dials the engine and writes one line per partition to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	conn, err := platformgrpc.Dial(ctx, cfg.Addr, diagnostics.ServiceName, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return err
	}
	defer conn.Close()
	client := diagnostics.NewClient(conn)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTITION\tAPPLIED\tLATEST\tSERVING\tFAILURE")
	for id := 1; ; id++ {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		st, err := client.PartitionStatus(callCtx, id)
		cancel()
		if grpcstatus.Code(err) == codes.NotFound {
			break
		}
		if err != nil {
			return fmt.Errorf("partition %d status: %w", id, err)
		}
		fmt.Fprintf(w, "%d\t%.0f\t%.0f\t%v\t%s\n", id, st["last_applied_position"], st["latest_position"], st["serving"], failureText(st))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !cfg.Registrations {
		return nil
	}
	return writeRegistrations(ctx, client, out)
}

func failureText(st map[string]any) string {
	code, _ := st["failure_code"].(string)
	msg, _ := st["failure"].(string)
	if code == "" {
		return "-"
	}
	return code + ": " + msg
}

func writeRegistrations(ctx context.Context, client *diagnostics.Client, out io.Writer) error {
	callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()
	regs, err := client.ListRegistrations(callCtx)
	if err != nil {
		return fmt.Errorf("list registrations: %w", err)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nINTENT\tVERSION\tPAYLOAD")
	for _, item := range regs {
		reg, ok := item.(map[string]any)
		if !ok {
			return errors.New("unexpected registration entry")
		}
		fmt.Fprintf(w, "%v\t%.0f\t%v\n", reg["intent"], reg["version"], reg["payload"])
	}
	return w.Flush()
}
