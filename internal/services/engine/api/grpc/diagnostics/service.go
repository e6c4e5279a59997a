package diagnostics

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apperrors "github.com/louisbranch/waypoint/internal/platform/errors"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
)

// ServiceName is the fully qualified service name, also used for health.
const ServiceName = "waypoint.engine.v1.DiagnosticsService"

const (
	latestVersionMethod     = "/" + ServiceName + "/LatestVersion"
	listRegistrationsMethod = "/" + ServiceName + "/ListRegistrations"
	partitionStatusMethod   = "/" + ServiceName + "/PartitionStatus"
)

// Registry is the read side of the applier registry.
type Registry interface {
	LatestVersion(in intent.Intent) int
	Registrations() []applier.Registration
}

// PartitionStatus is a point-in-time view of one partition.
type PartitionStatus struct {
	PartitionID         int
	LastAppliedPosition uint64
	LatestPosition      uint64
	Serving             bool
	// Failure is set once the partition stopped.
	Failure error
}

// StatusSource reports partition status.
type StatusSource interface {
	PartitionStatus(ctx context.Context, partitionID int) (PartitionStatus, bool, error)
}

// Server is the diagnostics RPC surface.
type Server interface {
	LatestVersion(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int32Value, error)
	ListRegistrations(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
	PartitionStatus(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error)
}

// Service implements Server.
type Service struct {
	registry Registry
	status   StatusSource
}

// NewService creates a diagnostics service.
func NewService(registry Registry, status StatusSource) *Service {
	return &Service{registry: registry, status: status}
}

// LatestVersion returns the newest registered version of an intent, or -1.
func (s *Service) LatestVersion(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int32Value, error) {
	return wrapperspb.Int32(int32(s.registry.LatestVersion(intent.Intent(in.GetValue())))), nil
}

// ListRegistrations returns every (intent, version) pair in sorted order.
func (s *Service) ListRegistrations(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	registrations := s.registry.Registrations()
	values := make([]any, 0, len(registrations))
	for _, r := range registrations {
		values = append(values, map[string]any{
			"intent":  string(r.Intent),
			"version": r.Version,
			"payload": r.Payload,
		})
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, apperrors.ToGRPCStatus(fmt.Errorf("encode registrations: %w", err))
	}
	return list, nil
}

// PartitionStatus reports replay progress and the failure, if any.
func (s *Service) PartitionStatus(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error) {
	id := int(in.GetValue())
	st, ok, err := s.status.PartitionStatus(ctx, id)
	if err != nil {
		return nil, apperrors.ToGRPCStatus(err)
	}
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("partition %d not found", id),
			map[string]string{"partition_id": fmt.Sprint(id)},
		).ToGRPCStatus()
	}

	fields := map[string]any{
		"partition_id":          st.PartitionID,
		"last_applied_position": float64(st.LastAppliedPosition),
		"latest_position":       float64(st.LatestPosition),
		"serving":               st.Serving,
	}
	if st.Failure != nil {
		fields["failure"] = st.Failure.Error()
		fields["failure_code"] = string(failureCode(st.Failure))
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, apperrors.ToGRPCStatus(fmt.Errorf("encode partition status: %w", err))
	}
	return out, nil
}

func failureCode(err error) apperrors.Code {
	var failure *replay.PartitionFailure
	if errors.As(err, &failure) {
		return failure.Code()
	}
	return apperrors.CodeOf(err)
}

// RegisterServer registers srv on s.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "LatestVersion", Handler: latestVersionHandler},
		{MethodName: "ListRegistrations", Handler: listRegistrationsHandler},
		{MethodName: "PartitionStatus", Handler: partitionStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "waypoint/engine/v1/diagnostics",
}

func latestVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).LatestVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: latestVersionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).LatestVersion(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listRegistrationsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).ListRegistrations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listRegistrationsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).ListRegistrations(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func partitionStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).PartitionStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: partitionStatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).PartitionStatus(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}
