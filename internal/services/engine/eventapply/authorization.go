package eventapply

import (
	"slices"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerAuthorization(b *applier.Builder) {
	register(b, intent.AuthorizationCreated, 1, a.applyAuthorizationPut)
	register(b, intent.AuthorizationUpdated, 1, a.applyAuthorizationPut)
	register(b, intent.AuthorizationDeleted, 1, a.applyAuthorizationDeleted)
}

// applyAuthorizationPut serves creation and update; the store moves the owner
// index when the owner changes.
func (a Appliers) applyAuthorizationPut(key int64, v record.AuthorizationValue) error {
	permissions := slices.Clone(v.Permissions)
	slices.Sort(permissions)
	return a.Authorization.PutAuthorization(state.Authorization{
		Key:          key,
		OwnerID:      v.OwnerID,
		OwnerType:    v.OwnerType,
		ResourceType: v.ResourceType,
		ResourceID:   v.ResourceID,
		Permissions:  slices.Compact(permissions),
	})
}

func (a Appliers) applyAuthorizationDeleted(key int64, _ record.AuthorizationValue) error {
	return a.Authorization.DeleteAuthorization(key)
}

func (a Appliers) deleteOwnedAuthorizations(owner record.OwnerType, ownerID string) error {
	keys, err := a.Authorization.OwnerAuthorizations(string(owner), ownerID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := a.Authorization.DeleteAuthorization(key); err != nil {
			return err
		}
	}
	return nil
}
