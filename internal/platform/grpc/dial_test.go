package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialWaitsForService(t *testing.T) {
	addr, _, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	defer stop()

	conn, err := Dial(context.Background(), addr, partitionService, 2*time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialFailsAtHealthStage(t *testing.T) {
	addr, _, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	start := time.Now()
	conn, err := Dial(context.Background(), addr, partitionService, 150*time.Millisecond, nil)
	if conn != nil {
		_ = conn.Close()
		t.Fatal("expected nil connection on error")
	}
	var dialErr *DialError
	if !errors.As(err, &dialErr) || dialErr.Stage != DialStageHealth {
		t.Fatalf("expected health stage error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("dial ignored its timeout: %s", time.Since(start))
	}
}

func TestDialErrorFormatting(t *testing.T) {
	err := &DialError{Addr: "localhost:8090", Stage: DialStageHealth, Err: errors.New("boom")}
	if got := err.Error(); !strings.Contains(got, "health localhost:8090: boom") {
		t.Fatalf("unexpected error text %q", got)
	}
}
