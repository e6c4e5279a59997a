package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// PutAuthorization stores the authorization and moves its owner index entry
// when the owner changed.
func (s *State) PutAuthorization(a state.Authorization) error {
	prev, err := s.GetAuthorization(a.Key)
	switch {
	case err == nil:
		if err := s.authorizationOwner.Delete(s.ownerKey(string(prev.OwnerType), prev.OwnerID, prev.Key)); err != nil {
			return err
		}
	case !errors.Is(err, state.ErrNotFound):
		return err
	}
	if err := s.authorizations.Put(s.authorizations.Key().Int64(a.Key), a); err != nil {
		return err
	}
	return mark(s.authorizationOwner, s.ownerKey(string(a.OwnerType), a.OwnerID, a.Key))
}

func (s *State) GetAuthorization(key int64) (state.Authorization, error) {
	return get(s.authorizations, s.authorizations.Key().Int64(key))
}

func (s *State) DeleteAuthorization(key int64) error {
	a, err := s.GetAuthorization(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.authorizationOwner.Delete(s.ownerKey(string(a.OwnerType), a.OwnerID, key)); err != nil {
		return err
	}
	return s.authorizations.Delete(s.authorizations.Key().Int64(key))
}

func (s *State) OwnerAuthorizations(ownerType string, ownerID string) ([]int64, error) {
	var out []int64
	prefix := s.authorizationOwner.Key().Text(ownerType).Text(ownerID)
	err := s.authorizationOwner.ForEach(prefix, func(raw []byte, _ struct{}) error {
		r := pebblestore.ReadKey(raw)
		_, _ = r.Text(), r.Text()
		key := r.Int64()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, key)
		return nil
	})
	return out, err
}

func (s *State) ownerKey(ownerType, ownerID string, key int64) pebblestore.Key {
	return s.authorizationOwner.Key().Text(ownerType).Text(ownerID).Int64(key)
}
