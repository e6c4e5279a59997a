package applier

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
)

// Func is the untyped form of an applier. Typed appliers are adapted to it by
// Register, which decodes the payload before the call.
type Func func(key int64, value []byte) error

// Registration describes one registered (intent, version) pair.
type Registration struct {
	Intent  intent.Intent
	Version int
	// Payload is the Go type name the applier decodes into.
	Payload string
}

type entry struct {
	apply   Func
	payload string
}

// Registry maps (intent, version) pairs to appliers.
//
// Registration is not safe for concurrent use; it happens in a single
// bootstrap pass before Seal. After Seal the registry is read-only and may be
// shared by the replay loops of every partition.
type Registry struct {
	appliers map[intent.Intent]map[int]entry
	latest   map[intent.Intent]int
	sealed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		appliers: make(map[intent.Intent]map[int]entry),
		latest:   make(map[intent.Intent]int),
	}
}

func (r *Registry) register(in intent.Intent, version int, fn Func, payload string) error {
	if r == nil {
		return ErrRegistryRequired
	}
	if r.sealed {
		return fmt.Errorf("%w: %s v%d", ErrRegistrySealed, in, version)
	}
	if !in.IsEvent() {
		return fmt.Errorf("%w: %q", ErrIntentNotEvent, in)
	}
	if version < record.DefaultVersion {
		return fmt.Errorf("%w: %s v%d", ErrInvalidVersion, in, version)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s v%d", ErrApplierRequired, in, version)
	}
	versions, ok := r.appliers[in]
	if !ok {
		versions = make(map[int]entry)
		r.appliers[in] = versions
	}
	if _, exists := versions[version]; exists {
		return fmt.Errorf("%w: %s v%d", ErrApplierAlreadyRegistered, in, version)
	}
	versions[version] = entry{apply: fn, payload: payload}
	if version > r.latest[in] {
		r.latest[in] = version
	}
	return nil
}

// Register registers a typed applier for (in, version). The event value is
// decoded into P before fn runs.
//
// This is a top-level generic function because Go disallows method-level
// type parameters.
func Register[P any](r *Registry, in intent.Intent, version int, fn func(key int64, value P) error) error {
	if fn == nil {
		return r.register(in, version, nil, "")
	}
	return r.register(in, version, decodeInto(in, version, fn), payloadName[P]())
}

// RegisterDefault registers a typed applier at record.DefaultVersion.
func RegisterDefault[P any](r *Registry, in intent.Intent, fn func(key int64, value P) error) error {
	return Register(r, in, record.DefaultVersion, fn)
}

// RegisterNoop registers an applier that accepts the event without touching
// state. Used for events that only matter to exporters.
func RegisterNoop(r *Registry, in intent.Intent) error {
	return r.register(in, record.DefaultVersion, func(int64, []byte) error { return nil }, "none")
}

func decodeInto[P any](in intent.Intent, version int, fn func(int64, P) error) Func {
	return func(key int64, value []byte) error {
		var payload P
		if len(value) > 0 {
			if err := json.Unmarshal(value, &payload); err != nil {
				return fmt.Errorf("decode %s v%d payload: %w", in, version, err)
			}
		}
		return fn(key, payload)
	}
}

func payloadName[P any]() string {
	var zero P
	return strings.TrimPrefix(fmt.Sprintf("%T", zero), "*")
}

// Seal closes registration. Later registrations fail with ErrRegistrySealed.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the bootstrap pass has finished.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// LatestVersion returns the highest version registered for in, or
// record.UnregisteredVersion.
func (r *Registry) LatestVersion(in intent.Intent) int {
	if latest, ok := r.latest[in]; ok {
		return latest
	}
	return record.UnregisteredVersion
}

// ApplyState dispatches one committed event to its applier.
//
// The call is not cancelable: it either runs the applier to completion or
// fails before touching state. Lookup failures return ErrNoApplierForIntent
// or a *NoApplierForVersionError; applier failures return an *ApplyError.
func (r *Registry) ApplyState(key int64, in intent.Intent, value []byte, version int) error {
	versions, ok := r.appliers[in]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoApplierForIntent, in)
	}
	e, ok := versions[version]
	if !ok {
		return &NoApplierForVersionError{Intent: in, Version: version, LatestVersion: r.LatestVersion(in)}
	}
	if err := e.apply(key, value); err != nil {
		return &ApplyError{Intent: in, Version: version, Key: key, Err: err}
	}
	return nil
}

// Apply dispatches a committed event envelope.
func (r *Registry) Apply(evt record.Event) error {
	return r.ApplyState(evt.Key, evt.Intent, evt.Value, evt.Version)
}

// Registrations lists every registered pair sorted by intent then version.
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, 0, len(r.appliers))
	for in, versions := range r.appliers {
		for version, e := range versions {
			out = append(out, Registration{Intent: in, Version: version, Payload: e.payload})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Intent != out[j].Intent {
			return out[i].Intent < out[j].Intent
		}
		return out[i].Version < out[j].Version
	})
	return out
}

// ValidateCoverage checks that every intent in intents has at least one
// applier. The error lists every missing intent.
func (r *Registry) ValidateCoverage(intents []intent.Intent) error {
	var missing []string
	for _, in := range intents {
		if _, ok := r.appliers[in]; !ok {
			missing = append(missing, string(in))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingCoverage, strings.Join(missing, ", "))
}

// Builder accumulates registration errors so a bootstrap pass can register
// everything and report every defect at once.
type Builder struct {
	registry *Registry
	errs     []error
}

// NewBuilder starts a bootstrap pass over a fresh registry.
func NewBuilder() *Builder {
	return &Builder{registry: NewRegistry()}
}

// Registry exposes the registry under construction to the typed helpers.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Check records a registration error.
func (b *Builder) Check(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Build validates coverage of the event intents, seals the registry and
// returns it, or returns every accumulated error.
func (b *Builder) Build(events []intent.Intent) (*Registry, error) {
	b.Check(b.registry.ValidateCoverage(events))
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	b.registry.Seal()
	return b.registry, nil
}
