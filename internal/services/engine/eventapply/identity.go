package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// principalKind bundles what differs between groups, roles and tenants.
type principalKind struct {
	relation state.Relation
	// entity is how this principal appears as a member of other principals;
	// empty when it cannot be a member.
	entity record.EntityType
	// owner is how this principal owns authorizations; empty when it cannot.
	owner  record.OwnerType
	put    func(state.Principal) error
	get    func(id string) (state.Principal, error)
	delete func(id string) error
}

var memberRelations = []state.Relation{state.RelationGroup, state.RelationRole, state.RelationTenant}

func (a Appliers) registerIdentity(b *applier.Builder) {
	register(b, intent.UserCreated, 1, a.applyUserCreated)
	register(b, intent.UserUpdated, 1, a.applyUserUpdated)
	register(b, intent.UserDeleted, 1, a.applyUserDeleted)

	group := principalKind{
		relation: state.RelationGroup, entity: record.EntityGroup, owner: record.OwnerGroup,
		put: a.Group.PutGroup, get: a.Group.GetGroup, delete: a.Group.DeleteGroup,
	}
	role := principalKind{
		relation: state.RelationRole, entity: record.EntityRole, owner: record.OwnerRole,
		put: a.Role.PutRole, get: a.Role.GetRole, delete: a.Role.DeleteRole,
	}
	tenant := principalKind{
		relation: state.RelationTenant,
		put:      a.Tenant.PutTenant, get: a.Tenant.GetTenant, delete: a.Tenant.DeleteTenant,
	}
	a.registerPrincipal(b, group, intent.GroupCreated, intent.GroupUpdated, intent.GroupEntityAdded, intent.GroupEntityRemoved, intent.GroupDeleted)
	a.registerPrincipal(b, role, intent.RoleCreated, intent.RoleUpdated, intent.RoleEntityAdded, intent.RoleEntityRemoved, intent.RoleDeleted)
	a.registerPrincipal(b, tenant, intent.TenantCreated, intent.TenantUpdated, intent.TenantEntityAdded, intent.TenantEntityRemoved, intent.TenantDeleted)
}

func (a Appliers) applyUserCreated(key int64, v record.UserValue) error {
	return a.User.PutUser(state.User{
		Key:      key,
		Username: v.Username,
		Name:     v.Name,
		Email:    v.Email,
		Password: v.Password,
	})
}

func (a Appliers) applyUserUpdated(_ int64, v record.UserValue) error {
	user, err := a.User.GetUser(v.Username)
	if err != nil {
		return err
	}
	user.Name = v.Name
	user.Email = v.Email
	if v.Password != "" {
		user.Password = v.Password
	}
	return a.User.PutUser(user)
}

// applyUserDeleted removes the user from every group, role and tenant on
// both index sides, drops the authorizations it owns, then the user itself.
func (a Appliers) applyUserDeleted(_ int64, v record.UserValue) error {
	member := state.Member{EntityType: record.EntityUser, EntityID: v.Username}
	if err := a.leaveAll(member); err != nil {
		return err
	}
	if err := a.deleteOwnedAuthorizations(record.OwnerUser, v.Username); err != nil {
		return err
	}
	return a.User.DeleteUser(v.Username)
}

func (a Appliers) registerPrincipal(b *applier.Builder, kind principalKind, created, updated, added, removed, deleted intent.Intent) {
	register(b, created, 1, func(key int64, v record.MembershipValue) error {
		return kind.put(state.Principal{Key: key, ID: v.ID, Name: v.Name, Description: v.Description})
	})
	register(b, updated, 1, func(_ int64, v record.MembershipValue) error {
		p, err := kind.get(v.ID)
		if err != nil {
			return err
		}
		p.Name = v.Name
		p.Description = v.Description
		return kind.put(p)
	})
	register(b, added, 1, func(_ int64, v record.MembershipValue) error {
		return a.Membership.AddMember(kind.relation, v.ID, state.Member{EntityType: v.EntityType, EntityID: v.EntityID})
	})
	register(b, removed, 1, func(_ int64, v record.MembershipValue) error {
		return a.Membership.RemoveMember(kind.relation, v.ID, state.Member{EntityType: v.EntityType, EntityID: v.EntityID})
	})
	register(b, deleted, 1, func(_ int64, v record.MembershipValue) error {
		return a.deletePrincipal(kind, v.ID)
	})
}

// deletePrincipal removes every member, then the principal's own
// memberships and authorizations, then the principal.
func (a Appliers) deletePrincipal(kind principalKind, id string) error {
	members, err := a.Membership.Members(kind.relation, id)
	if err != nil {
		return err
	}
	for _, member := range members {
		if err := a.Membership.RemoveMember(kind.relation, id, member); err != nil {
			return err
		}
	}
	if kind.entity != "" {
		if err := a.leaveAll(state.Member{EntityType: kind.entity, EntityID: id}); err != nil {
			return err
		}
	}
	if kind.owner != "" {
		if err := a.deleteOwnedAuthorizations(kind.owner, id); err != nil {
			return err
		}
	}
	return kind.delete(id)
}

func (a Appliers) leaveAll(member state.Member) error {
	for _, relation := range memberRelations {
		ids, err := a.Membership.Memberships(member, relation)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := a.Membership.RemoveMember(relation, id, member); err != nil {
				return err
			}
		}
	}
	return nil
}
