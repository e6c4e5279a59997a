package pebblestate

import (
	"errors"
	"fmt"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// Column family prefixes. Values are persisted; never renumber.
const (
	cfMeta byte = iota + 1
	cfProcess
	cfProcessLatest
	cfElementInstance
	cfElementChild
	cfTakenSequenceFlow
	cfVariableScope
	cfVariable
	cfEventScope
	cfEventTrigger
	cfJob
	cfJobActivatable
	cfJobDeadline
	cfJobBackoff
	cfUserTask
	cfIncident
	cfIncidentByElement
	cfIncidentByJob
	cfTimer
	cfTimerDue
	cfTimerByElement
	cfMessage
	cfMessageDeadline
	cfMessageCorrelated
	cfMessageActiveInstance
	cfMessageSubscription
	cfProcessMessageSubscription
	cfStartEventSubscription
	cfSignalSubscription
	cfDistribution
	cfDistributionPending
	cfDistributionQueue
	cfUser
	cfMembershipByRelation
	cfMembershipByEntity
	cfGroup
	cfRole
	cfTenant
	cfAuthorization
	cfAuthorizationByOwner
	cfClock
	cfUsageMetric
	cfMessageActiveByInstance
)

// State is the Pebble-backed implementation of every state contract.
type State struct {
	tx *pebblestore.TxContext

	meta                *pebblestore.Column[uint64]
	processes           *pebblestore.Column[state.Process]
	processLatest       *pebblestore.Column[int64]
	instances           *pebblestore.Column[state.ElementInstance]
	children            *pebblestore.Column[struct{}]
	takenFlows          *pebblestore.Column[struct{}]
	variableScopes      *pebblestore.Column[int64]
	variables           *pebblestore.Column[state.Variable]
	eventScopes         *pebblestore.Column[state.EventScope]
	eventTriggers       *pebblestore.Column[state.EventTrigger]
	jobs                *pebblestore.Column[state.Job]
	jobActivatable      *pebblestore.Column[struct{}]
	jobDeadlines        *pebblestore.Column[struct{}]
	jobBackoff          *pebblestore.Column[struct{}]
	userTasks           *pebblestore.Column[state.UserTask]
	incidents           *pebblestore.Column[state.Incident]
	incidentByElement   *pebblestore.Column[int64]
	incidentByJob       *pebblestore.Column[int64]
	timers              *pebblestore.Column[state.Timer]
	timerDue            *pebblestore.Column[struct{}]
	timerByElement      *pebblestore.Column[struct{}]
	messages            *pebblestore.Column[state.Message]
	messageDeadlines    *pebblestore.Column[struct{}]
	messageCorrelated   *pebblestore.Column[struct{}]
	messageActive       *pebblestore.Column[int64]
	messageActiveByPI   *pebblestore.Column[activeCorrelation]
	messageSubs         *pebblestore.Column[state.MessageSubscription]
	processMessageSubs  *pebblestore.Column[state.ProcessMessageSubscription]
	startEventSubs      *pebblestore.Column[state.MessageStartEventSubscription]
	signalSubs          *pebblestore.Column[state.SignalSubscription]
	distributions       *pebblestore.Column[state.Distribution]
	distributionPending *pebblestore.Column[struct{}]
	distributionQueue   *pebblestore.Column[struct{}]
	users               *pebblestore.Column[state.User]
	membersByRelation   *pebblestore.Column[state.Member]
	membersByEntity     *pebblestore.Column[struct{}]
	groups              *pebblestore.Column[state.Group]
	roles               *pebblestore.Column[state.Role]
	tenants             *pebblestore.Column[state.Tenant]
	authorizations      *pebblestore.Column[state.Authorization]
	authorizationOwner  *pebblestore.Column[struct{}]
	clock               *pebblestore.Column[state.Clock]
	usage               *pebblestore.Column[state.UsageBucket]
}

// New binds every column family to db through one transaction context.
func New(db *pebblestore.DB) *State {
	tx := pebblestore.NewTxContext(db)
	return &State{
		tx:                  tx,
		meta:                pebblestore.NewColumn[uint64](tx, cfMeta, "meta"),
		processes:           pebblestore.NewColumn[state.Process](tx, cfProcess, "process"),
		processLatest:       pebblestore.NewColumn[int64](tx, cfProcessLatest, "process latest"),
		instances:           pebblestore.NewColumn[state.ElementInstance](tx, cfElementInstance, "element instance"),
		children:            pebblestore.NewColumn[struct{}](tx, cfElementChild, "element child"),
		takenFlows:          pebblestore.NewColumn[struct{}](tx, cfTakenSequenceFlow, "taken sequence flow"),
		variableScopes:      pebblestore.NewColumn[int64](tx, cfVariableScope, "variable scope"),
		variables:           pebblestore.NewColumn[state.Variable](tx, cfVariable, "variable"),
		eventScopes:         pebblestore.NewColumn[state.EventScope](tx, cfEventScope, "event scope"),
		eventTriggers:       pebblestore.NewColumn[state.EventTrigger](tx, cfEventTrigger, "event trigger"),
		jobs:                pebblestore.NewColumn[state.Job](tx, cfJob, "job"),
		jobActivatable:      pebblestore.NewColumn[struct{}](tx, cfJobActivatable, "job activatable"),
		jobDeadlines:        pebblestore.NewColumn[struct{}](tx, cfJobDeadline, "job deadline"),
		jobBackoff:          pebblestore.NewColumn[struct{}](tx, cfJobBackoff, "job backoff"),
		userTasks:           pebblestore.NewColumn[state.UserTask](tx, cfUserTask, "user task"),
		incidents:           pebblestore.NewColumn[state.Incident](tx, cfIncident, "incident"),
		incidentByElement:   pebblestore.NewColumn[int64](tx, cfIncidentByElement, "incident by element"),
		incidentByJob:       pebblestore.NewColumn[int64](tx, cfIncidentByJob, "incident by job"),
		timers:              pebblestore.NewColumn[state.Timer](tx, cfTimer, "timer"),
		timerDue:            pebblestore.NewColumn[struct{}](tx, cfTimerDue, "timer due"),
		timerByElement:      pebblestore.NewColumn[struct{}](tx, cfTimerByElement, "timer by element"),
		messages:            pebblestore.NewColumn[state.Message](tx, cfMessage, "message"),
		messageDeadlines:    pebblestore.NewColumn[struct{}](tx, cfMessageDeadline, "message deadline"),
		messageCorrelated:   pebblestore.NewColumn[struct{}](tx, cfMessageCorrelated, "message correlated"),
		messageActive:       pebblestore.NewColumn[int64](tx, cfMessageActiveInstance, "message active instance"),
		messageActiveByPI:   pebblestore.NewColumn[activeCorrelation](tx, cfMessageActiveByInstance, "message active by instance"),
		messageSubs:         pebblestore.NewColumn[state.MessageSubscription](tx, cfMessageSubscription, "message subscription"),
		processMessageSubs:  pebblestore.NewColumn[state.ProcessMessageSubscription](tx, cfProcessMessageSubscription, "process message subscription"),
		startEventSubs:      pebblestore.NewColumn[state.MessageStartEventSubscription](tx, cfStartEventSubscription, "message start event subscription"),
		signalSubs:          pebblestore.NewColumn[state.SignalSubscription](tx, cfSignalSubscription, "signal subscription"),
		distributions:       pebblestore.NewColumn[state.Distribution](tx, cfDistribution, "distribution"),
		distributionPending: pebblestore.NewColumn[struct{}](tx, cfDistributionPending, "distribution pending"),
		distributionQueue:   pebblestore.NewColumn[struct{}](tx, cfDistributionQueue, "distribution queue"),
		users:               pebblestore.NewColumn[state.User](tx, cfUser, "user"),
		membersByRelation:   pebblestore.NewColumn[state.Member](tx, cfMembershipByRelation, "membership by relation"),
		membersByEntity:     pebblestore.NewColumn[struct{}](tx, cfMembershipByEntity, "membership by entity"),
		groups:              pebblestore.NewColumn[state.Group](tx, cfGroup, "group"),
		roles:               pebblestore.NewColumn[state.Role](tx, cfRole, "role"),
		tenants:             pebblestore.NewColumn[state.Tenant](tx, cfTenant, "tenant"),
		authorizations:      pebblestore.NewColumn[state.Authorization](tx, cfAuthorization, "authorization"),
		authorizationOwner:  pebblestore.NewColumn[struct{}](tx, cfAuthorizationByOwner, "authorization by owner"),
		clock:               pebblestore.NewColumn[state.Clock](tx, cfClock, "clock"),
		usage:               pebblestore.NewColumn[state.UsageBucket](tx, cfUsageMetric, "usage metric"),
	}
}

const metaLastAppliedPosition = "last_applied_position"

// LastAppliedPosition returns the log position of the last committed event,
// or zero for a fresh state.
func (s *State) LastAppliedPosition() (uint64, error) {
	pos, err := s.meta.Get(s.meta.Key().Text(metaLastAppliedPosition))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return 0, nil
	}
	return pos, err
}

// SetLastAppliedPosition records position in the open transaction.
func (s *State) SetLastAppliedPosition(position uint64) error {
	return s.meta.Put(s.meta.Key().Text(metaLastAppliedPosition), position)
}

// Commit makes every mutation since the last commit durable.
func (s *State) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

// Rollback discards every mutation since the last commit.
func (s *State) Rollback() error {
	return s.tx.Rollback()
}

// Dump returns every committed entry in key order.
func (s *State) Dump() ([]pebblestore.KV, error) {
	return s.tx.DB().Dump()
}

func get[V any](col *pebblestore.Column[V], key pebblestore.Key) (V, error) {
	v, err := col.Get(key)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return v, fmt.Errorf("%w: %v", state.ErrNotFound, err)
	}
	return v, err
}

func mark(col *pebblestore.Column[struct{}], key pebblestore.Key) error {
	return col.Put(key, struct{}{})
}
