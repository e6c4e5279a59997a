// Package errors provides structured, coded errors shared by the engine
// packages and mapped onto gRPC status codes at the operational boundary.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Registration errors abort startup before any event is applied.
	CodeApplierRegistrationInvalid Code = "APPLIER_REGISTRATION_INVALID"

	// Replay errors abort processing of the affected partition.
	CodeNoApplierForIntent  Code = "NO_APPLIER_FOR_INTENT"
	CodeNoApplierForVersion Code = "NO_APPLIER_FOR_VERSION"
	CodeEventPositionGap    Code = "EVENT_POSITION_GAP"
	CodePartitionFailed     Code = "PARTITION_FAILED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound

	case CodeApplierRegistrationInvalid:
		return codes.FailedPrecondition

	// Unimplemented - the running binary cannot interpret the log.
	case CodeNoApplierForIntent,
		CodeNoApplierForVersion:
		return codes.Unimplemented

	// DataLoss - the replica state can no longer follow the log.
	case CodeEventPositionGap:
		return codes.DataLoss

	case CodePartitionFailed:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
