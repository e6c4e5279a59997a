package applier

import (
	"errors"
	"fmt"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
)

var (
	// ErrIntentNotEvent indicates a registration for a command or unknown intent.
	ErrIntentNotEvent = errors.New("intent is not an event intent")
	// ErrInvalidVersion indicates a registration version below 1.
	ErrInvalidVersion = errors.New("applier version must be at least 1")
	// ErrApplierRequired indicates a nil applier function.
	ErrApplierRequired = errors.New("applier is required")
	// ErrApplierAlreadyRegistered indicates a duplicate (intent, version) pair.
	ErrApplierAlreadyRegistered = errors.New("applier already registered")
	// ErrRegistrySealed indicates a registration after the bootstrap pass.
	ErrRegistrySealed = errors.New("applier registry is sealed")
	// ErrRegistryRequired indicates a nil registry.
	ErrRegistryRequired = errors.New("applier registry is required")
	// ErrNoApplierForIntent indicates an event whose intent has no applier.
	ErrNoApplierForIntent = errors.New("no applier for intent")
	// ErrNoApplierForVersion indicates a known intent replayed at an
	// unregistered version.
	ErrNoApplierForVersion = errors.New("no applier for version")
	// ErrMissingCoverage indicates event intents without any applier.
	ErrMissingCoverage = errors.New("event intents without applier")
)

// NoApplierForVersionError reports the version an event carried together with
// the latest version this binary can apply.
type NoApplierForVersionError struct {
	Intent        intent.Intent
	Version       int
	LatestVersion int
}

func (e *NoApplierForVersionError) Error() string {
	return fmt.Sprintf("%s: %s version %d (latest registered version %d)",
		ErrNoApplierForVersion, e.Intent, e.Version, e.LatestVersion)
}

// Is matches ErrNoApplierForVersion.
func (e *NoApplierForVersionError) Is(target error) bool {
	return target == ErrNoApplierForVersion
}

// ApplyError wraps a failure returned by an applier, or by the decoding of
// its payload.
type ApplyError struct {
	Intent  intent.Intent
	Version int
	Key     int64
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s v%d key %d: %v", e.Intent, e.Version, e.Key, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
