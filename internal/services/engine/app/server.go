package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/platform/timeouts"
	"github.com/louisbranch/waypoint/internal/services/engine/api/grpc/diagnostics"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
	"github.com/louisbranch/waypoint/internal/services/engine/storage/sqlite"
)

// Config configures the engine runtime.
type Config struct {
	// Addr is the gRPC listen address.
	Addr         string
	DataDir      string
	JournalPath  string
	Partitions   int
	PollInterval time.Duration
	PageSize     int
	Fsync        pebblestore.FsyncMode
	// Meter defaults to the global meter provider.
	Meter metric.Meter
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return errors.New("listen address is required")
	case strings.TrimSpace(c.DataDir) == "":
		return errors.New("data dir is required")
	case strings.TrimSpace(c.JournalPath) == "":
		return errors.New("journal path is required")
	case c.Partitions < 1:
		return fmt.Errorf("partitions must be at least 1, got %d", c.Partitions)
	}
	return nil
}

// Server hosts the engine.
type Server struct {
	cfg        Config
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	journal    *sqlite.Journal
	partitions []*partition
}

// New opens the journal and every partition, builds the applier registries
// and registers the gRPC services. A registry build error aborts startup.
func New(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(cfg.JournalPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	s := &Server{cfg: cfg}
	journal, err := sqlite.Open(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	s.journal = journal
	for id := 1; id <= cfg.Partitions; id++ {
		p, err := openPartition(cfg, id, cfg.Meter)
		if err != nil {
			s.closeStores()
			return nil, err
		}
		s.partitions = append(s.partitions, p)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		s.closeStores()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	s.listener = listener

	s.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	s.health = health.NewServer()
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	diagnostics.RegisterServer(s.grpcServer, diagnostics.NewService(s.partitions[0].registry, s))

	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(diagnostics.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	for _, p := range s.partitions {
		s.health.SetServingStatus(p.healthName(), grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return s, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Journal returns the event journal the partitions replay from.
func (s *Server) Journal() *sqlite.Journal {
	return s.journal
}

// Run creates and serves an engine until the context ends.
func Run(ctx context.Context, cfg Config) error {
	s, err := New(cfg)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve replays every partition and serves gRPC until ctx ends. A failed
// partition is marked NOT_SERVING and stays stopped; the others continue.
func (s *Server) Serve(ctx context.Context) error {
	defer s.closeStores()

	log.Printf("engine listening at %v with %d partitions", s.listener.Addr(), len(s.partitions))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.health.Shutdown()
		s.stopGRPC()
		return nil
	})

	options := replay.FollowOptions{
		Options:      replay.Options{PageSize: s.cfg.PageSize, Meter: s.cfg.Meter},
		PollInterval: s.cfg.PollInterval,
	}
	for _, p := range s.partitions {
		g.Go(func() error {
			p.follow(gctx, s.journal, options, func(err error) {
				log.Printf("partition %d failed: %v", p.id, err)
				s.health.SetServingStatus(p.healthName(), grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			})
			return nil
		})
	}
	return g.Wait()
}

// stopGRPC drains in-flight RPCs, forcing the stop after timeouts.Shutdown.
func (s *Server) stopGRPC() {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		log.Printf("graceful stop timed out after %s", timeouts.Shutdown)
		s.grpcServer.Stop()
	}
}

// PartitionStatus implements diagnostics.StatusSource.
func (s *Server) PartitionStatus(ctx context.Context, partitionID int) (diagnostics.PartitionStatus, bool, error) {
	if partitionID < 1 || partitionID > len(s.partitions) {
		return diagnostics.PartitionStatus{}, false, nil
	}
	p := s.partitions[partitionID-1]
	last, failure := p.progress()
	latest, err := s.journal.LatestPosition(ctx, partitionID)
	if err != nil {
		return diagnostics.PartitionStatus{}, false, err
	}
	return diagnostics.PartitionStatus{
		PartitionID:         partitionID,
		LastAppliedPosition: last,
		LatestPosition:      latest,
		Serving:             failure == nil,
		Failure:             failure,
	}, true, nil
}

func (s *Server) closeStores() {
	for _, p := range s.partitions {
		if err := p.close(); err != nil {
			log.Printf("close partition %d state: %v", p.id, err)
		}
	}
	s.partitions = nil
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Printf("close journal: %v", err)
		}
		s.journal = nil
	}
}
