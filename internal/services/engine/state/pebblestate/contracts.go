package pebblestate

import "github.com/louisbranch/waypoint/internal/services/engine/state"

var (
	_ state.ProcessState                       = (*State)(nil)
	_ state.ElementInstanceState               = (*State)(nil)
	_ state.VariableState                      = (*State)(nil)
	_ state.EventScopeState                    = (*State)(nil)
	_ state.JobState                           = (*State)(nil)
	_ state.UserTaskState                      = (*State)(nil)
	_ state.IncidentState                      = (*State)(nil)
	_ state.TimerState                         = (*State)(nil)
	_ state.MessageState                       = (*State)(nil)
	_ state.MessageSubscriptionState           = (*State)(nil)
	_ state.ProcessMessageSubscriptionState    = (*State)(nil)
	_ state.MessageStartEventSubscriptionState = (*State)(nil)
	_ state.SignalSubscriptionState            = (*State)(nil)
	_ state.DistributionState                  = (*State)(nil)
	_ state.UserState                          = (*State)(nil)
	_ state.MembershipState                    = (*State)(nil)
	_ state.GroupState                         = (*State)(nil)
	_ state.RoleState                          = (*State)(nil)
	_ state.TenantState                        = (*State)(nil)
	_ state.AuthorizationState                 = (*State)(nil)
	_ state.ClockState                         = (*State)(nil)
	_ state.UsageMetricState                   = (*State)(nil)
)

var _ state.Partitions = (*State)(nil)
