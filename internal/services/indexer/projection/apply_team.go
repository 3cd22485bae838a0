package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

func (a Applier) loadMembership(ctx context.Context, id string) (storage.MembershipRecord, bool, error) {
	return storage.Load[storage.MembershipRecord](ctx, a.Tx, storage.KindMembership, id)
}

// applyTeamMemberAdded adds the member, creating a placeholder user when the
// member has not registered, or restores a soft-deleted membership.
func (a Applier) applyTeamMemberAdded(ctx context.Context, evt domain.Event, payload domain.TeamMemberPayload) error {
	if _, err := a.ensureUser(ctx, payload.Member); err != nil {
		return err
	}

	id := domain.PairID(payload.Organizer, payload.Member)
	record, found, err := a.loadMembership(ctx, id)
	if err != nil {
		return err
	}
	ts := evt.Envelope.BlockTimestamp
	if !found {
		record = storage.MembershipRecord{
			ID:        id,
			Organizer: payload.Organizer,
			Member:    payload.Member,
			AddedAt:   ts,
		}
	}
	record.Deleted = false
	record.DeletedAt = 0
	record.CanEditEvents = payload.CanEditEvents
	record.CanManageParticipants = payload.CanManageParticipants
	record.CanSubmitProof = payload.CanSubmitProof
	record.LastUpdatedAt = ts
	if err := storage.Save(ctx, a.Tx, storage.KindMembership, id, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.Member,
		message:     notify.MessageTeamMemberAdded,
		related:     id,
		relatedKind: storage.KindMembership,
	})
}

func (a Applier) applyTeamMemberRemoved(ctx context.Context, evt domain.Event, payload domain.TeamMemberRemovedPayload) error {
	id := domain.PairID(payload.Organizer, payload.Member)
	record, found, err := a.loadMembership(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingMembership, zap.String("membership", id))
		return nil
	}

	if a.TeamRemoval == TeamRemovalHard {
		if err := a.Tx.Delete(ctx, storage.KindMembership, id); err != nil {
			return err
		}
	} else {
		if !record.Deleted {
			record.Deleted = true
			record.DeletedAt = evt.Envelope.BlockTimestamp
		}
		record.LastUpdatedAt = evt.Envelope.BlockTimestamp
		if err := storage.Save(ctx, a.Tx, storage.KindMembership, id, record); err != nil {
			return err
		}
	}
	return a.emit(ctx, evt, notification{
		user:        payload.Member,
		message:     notify.MessageTeamMemberRemoved,
		related:     id,
		relatedKind: storage.KindMembership,
	})
}

// applyTeamMemberPermissionsUpdated only touches an active membership.
func (a Applier) applyTeamMemberPermissionsUpdated(ctx context.Context, evt domain.Event, payload domain.TeamMemberPayload) error {
	id := domain.PairID(payload.Organizer, payload.Member)
	record, found, err := a.loadMembership(ctx, id)
	if err != nil {
		return err
	}
	if !found || record.Deleted {
		a.skip(evt, skipMissingMembership, zap.String("membership", id))
		return nil
	}
	record.CanEditEvents = payload.CanEditEvents
	record.CanManageParticipants = payload.CanManageParticipants
	record.CanSubmitProof = payload.CanSubmitProof
	record.LastUpdatedAt = evt.Envelope.BlockTimestamp
	return storage.Save(ctx, a.Tx, storage.KindMembership, id, record)
}
