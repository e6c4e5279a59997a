package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthInitialBackoff = 100 * time.Millisecond
	healthMaxBackoff     = time.Second
	healthCheckTimeout   = time.Second
)

// NotServingError reports the last status seen before the wait gave up.
type NotServingError struct {
	Service string
	Status  grpc_health_v1.HealthCheckResponse_ServingStatus
	Err     error
}

func (e *NotServingError) Error() string {
	name := e.Service
	if name == "" {
		name = "server"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s is %s: %v", name, e.Status, e.Err)
	}
	return fmt.Sprintf("%s is %s", name, e.Status)
}

func (e *NotServingError) Unwrap() error { return e.Err }

// WaitForHealth polls the health service until service reports SERVING or ctx
// ends. An empty service checks the server as a whole.
func WaitForHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string, logf func(string, ...any)) error {
	if conn == nil {
		return errors.New("gRPC connection is not configured")
	}
	client := grpc_health_v1.NewHealthClient(conn)
	last := grpc_health_v1.HealthCheckResponse_UNKNOWN
	backoff := healthInitialBackoff
	for {
		callCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		resp, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err == nil {
			last = resp.GetStatus()
			if last == grpc_health_v1.HealthCheckResponse_SERVING {
				return nil
			}
		}
		if logf != nil {
			if err != nil {
				logf("waiting for %q health: %v", service, err)
			} else {
				logf("waiting for %q health: %s", service, last)
			}
		}

		select {
		case <-ctx.Done():
			return &NotServingError{Service: service, Status: last, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, healthMaxBackoff)
	}
}
