package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "record not found")
	wrapped := fmt.Errorf("load job: %w", Wrap(CodeNotFound, "job 7 not found", nil))
	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected wrapped error to match sentinel by code")
	}
	if stderrors.Is(wrapped, New(CodePartitionFailed, "other")) {
		t.Fatal("expected different code not to match")
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNoApplierForVersion, "no applier"))
	if got := CodeOf(err); got != CodeNoApplierForVersion {
		t.Fatalf("expected %s, got %s", CodeNoApplierForVersion, got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected %s, got %s", CodeUnknown, got)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeNotFound, codes.NotFound},
		{CodeApplierRegistrationInvalid, codes.FailedPrecondition},
		{CodeNoApplierForIntent, codes.Unimplemented},
		{CodeNoApplierForVersion, codes.Unimplemented},
		{CodeEventPositionGap, codes.DataLoss},
		{CodePartitionFailed, codes.Unavailable},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.code, tt.want, got)
		}
	}
}

func TestToGRPCStatusAttachesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeNoApplierForVersion, "no applier for version", map[string]string{"latest_version": "1"})
	st, ok := status.FromError(ToGRPCStatus(err))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.Unimplemented {
		t.Fatalf("expected Unimplemented, got %s", st.Code())
	}
	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if d, ok := detail.(*errdetails.ErrorInfo); ok {
			info = d
		}
	}
	if info == nil {
		t.Fatal("expected ErrorInfo detail")
	}
	if info.Reason != string(CodeNoApplierForVersion) || info.Metadata["latest_version"] != "1" {
		t.Fatalf("unexpected error info: %+v", info)
	}
}

func TestToGRPCStatusPlainError(t *testing.T) {
	st, _ := status.FromError(ToGRPCStatus(stderrors.New("boom")))
	if st.Code() != codes.Internal {
		t.Fatalf("expected Internal, got %s", st.Code())
	}
	if ToGRPCStatus(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
