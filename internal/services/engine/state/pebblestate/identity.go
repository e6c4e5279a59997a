package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutUser(u state.User) error {
	return s.users.Put(s.users.Key().Text(u.Username), u)
}

func (s *State) GetUser(username string) (state.User, error) {
	return get(s.users, s.users.Key().Text(username))
}

func (s *State) DeleteUser(username string) error {
	return s.users.Delete(s.users.Key().Text(username))
}

func (s *State) relationKey(relation state.Relation, relationID string, member state.Member) pebblestore.Key {
	return s.membersByRelation.Key().Text(string(relation)).Text(relationID).Text(string(member.EntityType)).Text(member.EntityID)
}

func (s *State) entityKey(member state.Member, relation state.Relation, relationID string) pebblestore.Key {
	return s.membersByEntity.Key().Text(string(member.EntityType)).Text(member.EntityID).Text(string(relation)).Text(relationID)
}

// AddMember writes both index sides.
func (s *State) AddMember(relation state.Relation, relationID string, member state.Member) error {
	if err := s.membersByRelation.Put(s.relationKey(relation, relationID, member), member); err != nil {
		return err
	}
	return mark(s.membersByEntity, s.entityKey(member, relation, relationID))
}

// RemoveMember deletes both index sides.
func (s *State) RemoveMember(relation state.Relation, relationID string, member state.Member) error {
	if err := s.membersByRelation.Delete(s.relationKey(relation, relationID, member)); err != nil {
		return err
	}
	return s.membersByEntity.Delete(s.entityKey(member, relation, relationID))
}

func (s *State) Members(relation state.Relation, relationID string) ([]state.Member, error) {
	var out []state.Member
	prefix := s.membersByRelation.Key().Text(string(relation)).Text(relationID)
	err := s.membersByRelation.ForEach(prefix, func(_ []byte, m state.Member) error {
		out = append(out, m)
		return nil
	})
	return out, err
}

func (s *State) Memberships(member state.Member, relation state.Relation) ([]string, error) {
	var out []string
	prefix := s.membersByEntity.Key().Text(string(member.EntityType)).Text(member.EntityID).Text(string(relation))
	err := s.membersByEntity.ForEach(prefix, func(raw []byte, _ struct{}) error {
		r := pebblestore.ReadKey(raw)
		_, _, _ = r.Text(), r.Text(), r.Text()
		id := r.Text()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, id)
		return nil
	})
	return out, err
}

func (s *State) PutGroup(g state.Group) error {
	return s.groups.Put(s.groups.Key().Text(g.ID), g)
}

func (s *State) GetGroup(id string) (state.Group, error) {
	return get(s.groups, s.groups.Key().Text(id))
}

func (s *State) DeleteGroup(id string) error {
	return s.groups.Delete(s.groups.Key().Text(id))
}

func (s *State) PutRole(r state.Role) error {
	return s.roles.Put(s.roles.Key().Text(r.ID), r)
}

func (s *State) GetRole(id string) (state.Role, error) {
	return get(s.roles, s.roles.Key().Text(id))
}

func (s *State) DeleteRole(id string) error {
	return s.roles.Delete(s.roles.Key().Text(id))
}

func (s *State) PutTenant(t state.Tenant) error {
	return s.tenants.Put(s.tenants.Key().Text(t.ID), t)
}

func (s *State) GetTenant(id string) (state.Tenant, error) {
	return get(s.tenants, s.tenants.Key().Text(id))
}

func (s *State) DeleteTenant(id string) error {
	return s.tenants.Delete(s.tenants.Key().Text(id))
}
