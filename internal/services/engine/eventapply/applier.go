package eventapply

import (
	"errors"
	"fmt"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// Appliers owns the partitions each applier group writes to.
type Appliers struct {
	Process                       state.ProcessState
	ElementInstance               state.ElementInstanceState
	Variable                      state.VariableState
	EventScope                    state.EventScopeState
	Job                           state.JobState
	UserTask                      state.UserTaskState
	Incident                      state.IncidentState
	Timer                         state.TimerState
	Message                       state.MessageState
	MessageSubscription           state.MessageSubscriptionState
	ProcessMessageSubscription    state.ProcessMessageSubscriptionState
	MessageStartEventSubscription state.MessageStartEventSubscriptionState
	SignalSubscription            state.SignalSubscriptionState
	Distribution                  state.DistributionState
	User                          state.UserState
	Membership                    state.MembershipState
	Group                         state.GroupState
	Role                          state.RoleState
	Tenant                        state.TenantState
	Authorization                 state.AuthorizationState
	Clock                         state.ClockState
	UsageMetric                   state.UsageMetricState
}

// New wires every group to the partitions of one store.
func New(p state.Partitions) Appliers {
	return Appliers{
		Process:                       p,
		ElementInstance:               p,
		Variable:                      p,
		EventScope:                    p,
		Job:                           p,
		UserTask:                      p,
		Incident:                      p,
		Timer:                         p,
		Message:                       p,
		MessageSubscription:           p,
		ProcessMessageSubscription:    p,
		MessageStartEventSubscription: p,
		SignalSubscription:            p,
		Distribution:                  p,
		User:                          p,
		Membership:                    p,
		Group:                         p,
		Role:                          p,
		Tenant:                        p,
		Authorization:                 p,
		Clock:                         p,
		UsageMetric:                   p,
	}
}

// Build registers every applier, checks that every event intent is covered
// and seals the registry. Any error aborts startup.
func Build(p state.Partitions) (*applier.Registry, error) {
	return New(p).Build()
}

// Build is the single bootstrap pass over a.
func (a Appliers) Build() (*applier.Registry, error) {
	b := applier.NewBuilder()
	for _, group := range []func(*applier.Builder){
		a.registerProcess,
		a.registerProcessInstance,
		a.registerJob,
		a.registerUserTask,
		a.registerVariable,
		a.registerIncident,
		a.registerTimer,
		a.registerMessage,
		a.registerSignal,
		a.registerDistribution,
		a.registerIdentity,
		a.registerAuthorization,
		a.registerEngine,
	} {
		group(b)
	}
	registry, err := b.Build(intent.Events())
	if err != nil {
		return nil, fmt.Errorf("build applier registry: %w", err)
	}
	return registry, nil
}

// register is shorthand for the builder's typed registration.
func register[P any](b *applier.Builder, in intent.Intent, version int, fn func(int64, P) error) {
	b.Check(applier.Register(b.Registry(), in, version, fn))
}

// optional treats a missing entry as nothing to do. Used for back-references
// that may already be gone.
func optional(err error) error {
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	return err
}
