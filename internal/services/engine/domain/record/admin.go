package record

import (
	"encoding/json"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
)

// CommandDistributionValue is the payload of cross-partition distribution
// events.
type CommandDistributionValue struct {
	PartitionID  int              `json:"partition_id"`
	QueueID      string           `json:"queue_id,omitempty"`
	ValueType    intent.ValueType `json:"value_type"`
	Intent       intent.Intent    `json:"intent"`
	CommandValue json.RawMessage  `json:"command_value,omitempty"`
}

// UserValue is the payload of user events.
type UserValue struct {
	UserKey  int64  `json:"user_key"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// EntityType identifies what kind of member joins a group, role or tenant.
type EntityType string

const (
	EntityUser        EntityType = "USER"
	EntityGroup       EntityType = "GROUP"
	EntityRole        EntityType = "ROLE"
	EntityMapping     EntityType = "MAPPING"
	EntityClient      EntityType = "CLIENT"
	EntityUnspecified EntityType = "UNSPECIFIED"
)

// MembershipValue is the payload shared by group, role and tenant events.
// EntityID and EntityType are only set on entity_added and entity_removed.
type MembershipValue struct {
	Key         int64      `json:"key"`
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	EntityType  EntityType `json:"entity_type,omitempty"`
}

// OwnerType identifies who holds an authorization.
type OwnerType string

const (
	OwnerUser  OwnerType = "USER"
	OwnerGroup OwnerType = "GROUP"
	OwnerRole  OwnerType = "ROLE"
)

// PermissionType is one permission granted on a resource.
type PermissionType string

const (
	PermissionCreate PermissionType = "CREATE"
	PermissionRead   PermissionType = "READ"
	PermissionUpdate PermissionType = "UPDATE"
	PermissionDelete PermissionType = "DELETE"
)

// AuthorizationValue is the payload of authorization events.
type AuthorizationValue struct {
	AuthorizationKey int64            `json:"authorization_key"`
	OwnerID          string           `json:"owner_id"`
	OwnerType        OwnerType        `json:"owner_type"`
	ResourceType     string           `json:"resource_type"`
	ResourceID       string           `json:"resource_id"`
	Permissions      []PermissionType `json:"permissions"`
}

// ClockValue is the payload of engine clock events. Time is epoch millis.
type ClockValue struct {
	Time int64 `json:"time"`
}

// UsageMetricValue is the payload of usage metric exports. ResetTime is the
// start of the next bucket, decided by the writer.
type UsageMetricValue struct {
	IntervalType string           `json:"interval_type"`
	EventType    string           `json:"event_type"`
	StartTime    int64            `json:"start_time"`
	EndTime      int64            `json:"end_time"`
	ResetTime    int64            `json:"reset_time"`
	Counters     map[string]int64 `json:"counters,omitempty"`
}

// GroupValue, RoleValue and TenantValue share the membership payload shape.
type (
	GroupValue  = MembershipValue
	RoleValue   = MembershipValue
	TenantValue = MembershipValue
)
