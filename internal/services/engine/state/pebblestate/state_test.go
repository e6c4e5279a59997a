package pebblestate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func newState(t *testing.T) *State {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{InMemory: true, Fsync: pebblestore.FsyncModeNever})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestLastAppliedPositionCommitsWithState(t *testing.T) {
	s := newState(t)

	pos, err := s.LastAppliedPosition()
	require.NoError(t, err)
	require.Zero(t, pos)

	require.NoError(t, s.PutJob(state.Job{Key: 1, State: state.JobActivatable}))
	require.NoError(t, s.SetLastAppliedPosition(1))
	require.NoError(t, s.Commit())

	require.NoError(t, s.PutJob(state.Job{Key: 2, State: state.JobActivatable}))
	require.NoError(t, s.SetLastAppliedPosition(2))
	require.NoError(t, s.Rollback())

	pos, err = s.LastAppliedPosition()
	require.NoError(t, err)
	require.Equal(t, uint64(1), pos)
	_, err = s.GetJob(2)
	require.ErrorIs(t, err, state.ErrNotFound)
	_, err = s.GetJob(1)
	require.NoError(t, err)
}

func TestDumpOnlyShowsCommittedEntries(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutUser(state.User{Key: 1, Username: "ada"}))

	dump, err := s.Dump()
	require.NoError(t, err)
	require.Empty(t, dump)

	require.NoError(t, s.Commit())
	dump, err = s.Dump()
	require.NoError(t, err)
	require.Len(t, dump, 1)
}

func TestProcessLatestVersion(t *testing.T) {
	s := newState(t)
	v1 := state.Process{Key: 10, State: state.ProcessStateCreated, Value: record.ProcessValue{BpmnProcessID: "order", Version: 1}}
	v2 := state.Process{Key: 20, State: state.ProcessStateCreated, Value: record.ProcessValue{BpmnProcessID: "order", Version: 2}}
	require.NoError(t, s.PutProcess(v1))
	require.NoError(t, s.PutProcess(v2))

	latest, err := s.LatestProcessKey("order")
	require.NoError(t, err)
	require.Equal(t, int64(20), latest)

	// Updating an older version keeps the latest pointer.
	v1.State = state.ProcessStatePendingDeletion
	require.NoError(t, s.PutProcess(v1))
	latest, err = s.LatestProcessKey("order")
	require.NoError(t, err)
	require.Equal(t, int64(20), latest)

	require.NoError(t, s.DeleteProcess(20))
	latest, err = s.LatestProcessKey("order")
	require.NoError(t, err)
	require.Equal(t, int64(10), latest)

	require.NoError(t, s.DeleteProcess(10))
	_, err = s.LatestProcessKey("order")
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestElementInstanceChildren(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutInstance(state.ElementInstance{Key: 1, State: state.ElementActivated}))
	require.NoError(t, s.PutInstance(state.ElementInstance{Key: 3, ParentKey: 1, State: state.ElementActivating}))
	require.NoError(t, s.PutInstance(state.ElementInstance{Key: 2, ParentKey: 1, State: state.ElementActivating}))

	children, err := s.Children(1)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, children)

	require.NoError(t, s.DeleteInstance(2))
	children, err = s.Children(1)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, children)

	require.NoError(t, s.DeleteInstance(99))
}

func TestTakenSequenceFlows(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.AddTakenSequenceFlow(5, "join", "flow_b"))
	require.NoError(t, s.AddTakenSequenceFlow(5, "join", "flow_a"))
	require.NoError(t, s.AddTakenSequenceFlow(5, "join2", "flow_c"))

	flows, err := s.TakenSequenceFlows(5, "join")
	require.NoError(t, err)
	require.Equal(t, []string{"flow_a", "flow_b"}, flows)

	require.NoError(t, s.ClearTakenSequenceFlows(5, "join"))
	flows, err = s.TakenSequenceFlows(5, "join")
	require.NoError(t, err)
	require.Empty(t, flows)
	flows, err = s.TakenSequenceFlows(5, "join2")
	require.NoError(t, err)
	require.Equal(t, []string{"flow_c"}, flows)
}

func TestVariableScopes(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.CreateScope(1, 0))
	require.NoError(t, s.CreateScope(2, 1))
	require.NoError(t, s.SetVariable(state.Variable{Key: 11, ScopeKey: 2, Name: "b", Value: "2"}))
	require.NoError(t, s.SetVariable(state.Variable{Key: 10, ScopeKey: 2, Name: "a", Value: "1"}))
	require.NoError(t, s.SetVariable(state.Variable{Key: 12, ScopeKey: 1, Name: "a", Value: "root"}))

	parent, err := s.ParentScope(2)
	require.NoError(t, err)
	require.Equal(t, int64(1), parent)

	vars, err := s.Variables(2)
	require.NoError(t, err)
	require.Len(t, vars, 2)
	require.Equal(t, "a", vars[0].Name)

	require.NoError(t, s.RemoveScope(2))
	vars, err = s.Variables(2)
	require.NoError(t, err)
	require.Empty(t, vars)
	_, err = s.ParentScope(2)
	require.ErrorIs(t, err, state.ErrNotFound)

	root, err := s.GetVariable(1, "a")
	require.NoError(t, err)
	require.Equal(t, "root", root.Value)
}

func TestEventScopeTriggers(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutEventScope(state.EventScope{Key: 4, Accepting: true}))
	require.NoError(t, s.AddTrigger(state.EventTrigger{Key: 9, ScopeKey: 4, ElementID: "boundary"}))
	require.NoError(t, s.AddTrigger(state.EventTrigger{Key: 8, ScopeKey: 4, ElementID: "timer"}))

	triggers, err := s.Triggers(4)
	require.NoError(t, err)
	require.Len(t, triggers, 2)
	require.Equal(t, int64(8), triggers[0].Key)

	require.NoError(t, s.DeleteTrigger(4, 8))
	triggers, err = s.Triggers(4)
	require.NoError(t, err)
	require.Len(t, triggers, 1)

	require.NoError(t, s.DeleteEventScope(4))
	triggers, err = s.Triggers(4)
	require.NoError(t, err)
	require.Empty(t, triggers)
	_, err = s.GetEventScope(4)
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestIncidentIndices(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutIncident(state.Incident{Key: 1, Value: record.IncidentValue{ElementInstanceKey: 5}}))
	require.NoError(t, s.PutIncident(state.Incident{Key: 2, Value: record.IncidentValue{ElementInstanceKey: 5, JobKey: 7}}))

	key, err := s.IncidentForElement(5)
	require.NoError(t, err)
	require.Equal(t, int64(1), key)
	key, err = s.IncidentForJob(7)
	require.NoError(t, err)
	require.Equal(t, int64(2), key)

	require.NoError(t, s.DeleteIncident(2))
	_, err = s.IncidentForJob(7)
	require.ErrorIs(t, err, state.ErrNotFound)
	_, err = s.IncidentForElement(5)
	require.NoError(t, err)
}

func TestTimerReindexOnPut(t *testing.T) {
	s := newState(t)
	timer := state.Timer{Key: 3, Value: record.TimerValue{ElementInstanceKey: 6, DueDate: 100}}
	require.NoError(t, s.PutTimer(timer))
	timer.Value.DueDate = 200
	require.NoError(t, s.PutTimer(timer))
	require.NoError(t, s.Commit())

	dump, err := s.Dump()
	require.NoError(t, err)
	dueEntries := 0
	for _, kv := range dump {
		if kv.Key[0] == cfTimerDue {
			dueEntries++
			require.Equal(t, int64(200), pebblestore.ReadKey(kv.Key).Int64())
		}
	}
	require.Equal(t, 1, dueEntries)

	keys, err := s.TimersForElement(6)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, keys)

	require.NoError(t, s.DeleteTimer(3))
	keys, err = s.TimersForElement(6)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestMessageCorrelationMarks(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutMessage(state.Message{Key: 1, Value: record.MessageValue{Name: "paid", Deadline: 50}}))
	require.NoError(t, s.MarkCorrelated(1, "order"))

	ok, err := s.IsCorrelated(1, "order")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.RemoveCorrelation(1, "order"))
	ok, err = s.IsCorrelated(1, "order")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, s.MarkCorrelated(1, "order"))

	require.NoError(t, s.DeleteMessage(1))
	ok, err = s.IsCorrelated(1, "order")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetActiveProcessInstance("order", "c-1", 77))
	pi, err := s.ActiveProcessInstance("order", "c-1")
	require.NoError(t, err)
	require.Equal(t, int64(77), pi)
	require.NoError(t, s.RemoveActiveProcessInstance(77))
	require.NoError(t, s.RemoveActiveProcessInstance(78))
	_, err = s.ActiveProcessInstance("order", "c-1")
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestSubscriptionsKeyedByScopeAndName(t *testing.T) {
	s := newState(t)
	first := state.MessageSubscription{Key: 1, Value: record.MessageSubscriptionValue{ElementInstanceKey: 4, MessageName: "paid", CorrelationKey: "a"}}
	second := state.MessageSubscription{Key: 2, Value: record.MessageSubscriptionValue{ElementInstanceKey: 4, MessageName: "paid", CorrelationKey: "b"}}
	require.NoError(t, s.PutMessageSubscription(first))
	require.NoError(t, s.PutMessageSubscription(second))

	got, err := s.GetMessageSubscription(4, "paid")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Key)

	sig := state.SignalSubscription{Key: 3, Value: record.SignalSubscriptionValue{SignalName: "go", ProcessDefinitionKey: 100}}
	require.NoError(t, s.PutSignalSubscription(sig))
	_, err = s.GetSignalSubscription("go", 100)
	require.NoError(t, err)
	require.NoError(t, s.DeleteSignalSubscription("go", 100))
	_, err = s.GetSignalSubscription("go", 100)
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDistributionPending(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.PutDistribution(state.Distribution{Key: 1, State: state.DistributionPending}))
	require.NoError(t, s.AddPending(1, 3))
	require.NoError(t, s.AddPending(1, 2))

	pending, err := s.PendingPartitions(1)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, pending)

	require.NoError(t, s.RemovePending(1, 2))
	pending, err = s.PendingPartitions(1)
	require.NoError(t, err)
	require.Equal(t, []int{3}, pending)

	require.NoError(t, s.DeleteDistribution(1))
	pending, err = s.PendingPartitions(1)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestMembershipBothDirections(t *testing.T) {
	s := newState(t)
	ada := state.Member{EntityType: record.EntityUser, EntityID: "ada"}
	require.NoError(t, s.AddMember(state.RelationGroup, "eng", ada))
	require.NoError(t, s.AddMember(state.RelationGroup, "ops", ada))
	require.NoError(t, s.AddMember(state.RelationRole, "admin", ada))

	groups, err := s.Memberships(ada, state.RelationGroup)
	require.NoError(t, err)
	require.Equal(t, []string{"eng", "ops"}, groups)
	members, err := s.Members(state.RelationGroup, "eng")
	require.NoError(t, err)
	require.Equal(t, []state.Member{ada}, members)

	require.NoError(t, s.RemoveMember(state.RelationGroup, "eng", ada))
	groups, err = s.Memberships(ada, state.RelationGroup)
	require.NoError(t, err)
	require.Equal(t, []string{"ops"}, groups)
	members, err = s.Members(state.RelationGroup, "eng")
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestMembershipWithNulInRelationID(t *testing.T) {
	s := newState(t)
	ada := state.Member{EntityType: record.EntityUser, EntityID: "ada"}
	require.NoError(t, s.AddMember(state.RelationGroup, "eng", ada))
	require.NoError(t, s.AddMember(state.RelationGroup, "eng\x00ops", ada))

	groups, err := s.Memberships(ada, state.RelationGroup)
	require.NoError(t, err)
	require.Equal(t, []string{"eng", "eng\x00ops"}, groups)
	members, err := s.Members(state.RelationGroup, "eng")
	require.NoError(t, err)
	require.Equal(t, []state.Member{ada}, members)

	require.NoError(t, s.RemoveMember(state.RelationGroup, "eng\x00ops", ada))
	groups, err = s.Memberships(ada, state.RelationGroup)
	require.NoError(t, err)
	require.Equal(t, []string{"eng"}, groups)
	members, err = s.Members(state.RelationGroup, "eng\x00ops")
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestAuthorizationOwnerIndexMoves(t *testing.T) {
	s := newState(t)
	auth := state.Authorization{Key: 5, OwnerType: record.OwnerUser, OwnerID: "ada", ResourceType: "process"}
	require.NoError(t, s.PutAuthorization(auth))
	auth.OwnerID = "bob"
	require.NoError(t, s.PutAuthorization(auth))

	keys, err := s.OwnerAuthorizations(string(record.OwnerUser), "ada")
	require.NoError(t, err)
	require.Empty(t, keys)
	keys, err = s.OwnerAuthorizations(string(record.OwnerUser), "bob")
	require.NoError(t, err)
	require.Equal(t, []int64{5}, keys)

	require.NoError(t, s.DeleteAuthorization(5))
	keys, err = s.OwnerAuthorizations(string(record.OwnerUser), "bob")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestClockAndUsageDefaults(t *testing.T) {
	s := newState(t)
	clock, err := s.GetClock()
	require.NoError(t, err)
	require.False(t, clock.Pinned)

	require.NoError(t, s.PinClock(1234))
	clock, err = s.GetClock()
	require.NoError(t, err)
	require.Equal(t, state.Clock{Pinned: true, Time: 1234}, clock)
	require.NoError(t, s.ResetClock())
	clock, err = s.GetClock()
	require.NoError(t, err)
	require.False(t, clock.Pinned)

	bucket, err := s.GetUsageBucket()
	require.NoError(t, err)
	require.Zero(t, bucket.StartTime)
	require.NoError(t, s.PutUsageBucket(state.UsageBucket{StartTime: 60}))
	bucket, err = s.GetUsageBucket()
	require.NoError(t, err)
	require.Equal(t, int64(60), bucket.StartTime)
}
