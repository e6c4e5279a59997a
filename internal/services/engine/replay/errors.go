package replay

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/waypoint/internal/platform/errors"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
)

var (
	// ErrLogRequired indicates a partition without a log.
	ErrLogRequired = errors.New("event log is required")
	// ErrApplierRequired indicates a partition without an applier.
	ErrApplierRequired = errors.New("applier is required")
	// ErrTargetRequired indicates a partition without a state target.
	ErrTargetRequired = errors.New("state target is required")
	// ErrPositionGap indicates a log that skipped or repeated a position.
	ErrPositionGap = errors.New("event position gap")
)

// PartitionFailure stops a partition. Position and Intent identify the event
// that could not be applied; both are zero when the failure happened before
// any event was read.
type PartitionFailure struct {
	PartitionID int
	Position    uint64
	Intent      intent.Intent
	Err         error
}

func (e *PartitionFailure) Error() string {
	if e.Intent == "" {
		return fmt.Sprintf("partition %d failed after position %d: %v", e.PartitionID, e.Position, e.Err)
	}
	return fmt.Sprintf("partition %d failed at position %d (%s): %v", e.PartitionID, e.Position, e.Intent, e.Err)
}

func (e *PartitionFailure) Unwrap() error { return e.Err }

// NonRetryable returns true from IsNonRetryable checks.
func (e *PartitionFailure) NonRetryable() bool { return true }

// Code classifies the failure for the operational surface.
func (e *PartitionFailure) Code() apperrors.Code {
	switch {
	case errors.Is(e.Err, applier.ErrNoApplierForIntent):
		return apperrors.CodeNoApplierForIntent
	case errors.Is(e.Err, applier.ErrNoApplierForVersion):
		return apperrors.CodeNoApplierForVersion
	case errors.Is(e.Err, ErrPositionGap):
		return apperrors.CodeEventPositionGap
	default:
		return apperrors.CodePartitionFailed
	}
}

// Coded converts the failure into a coded error carrying the partition, the
// position and the intent as metadata.
func (e *PartitionFailure) Coded() *apperrors.Error {
	return apperrors.WrapWithMetadata(e.Code(), e.Error(), map[string]string{
		"partition_id": fmt.Sprint(e.PartitionID),
		"position":     fmt.Sprint(e.Position),
		"intent":       string(e.Intent),
	}, e)
}

// IsNonRetryable returns true when the error (or any error in its chain)
// signals that replaying again would hit the same failure.
func IsNonRetryable(err error) bool {
	var target interface{ NonRetryable() bool }
	if errors.As(err, &target) {
		return target.NonRetryable()
	}
	return false
}
