package diagnostics

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the diagnostics service.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// LatestVersion returns the newest version registered for the intent.
func (c *Client) LatestVersion(ctx context.Context, in string, opts ...grpc.CallOption) (int, error) {
	out := new(wrapperspb.Int32Value)
	if err := c.conn.Invoke(ctx, latestVersionMethod, wrapperspb.String(in), out, opts...); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

// ListRegistrations returns the registration table as generic values.
func (c *Client) ListRegistrations(ctx context.Context, opts ...grpc.CallOption) ([]any, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, listRegistrationsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out.AsSlice(), nil
}

// PartitionStatus returns the status fields of one partition.
func (c *Client) PartitionStatus(ctx context.Context, partitionID int, opts ...grpc.CallOption) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, partitionStatusMethod, wrapperspb.Int32(int32(partitionID)), out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
