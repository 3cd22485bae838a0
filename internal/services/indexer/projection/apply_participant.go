package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// participantRefs lazily creates the event and user a participant points at.
func (a Applier) participantRefs(ctx context.Context, evt domain.Event, eventID string, user domain.Address) (storage.EventRecord, error) {
	event, err := a.ensureEvent(ctx, evt, eventID)
	if err != nil {
		return storage.EventRecord{}, err
	}
	if _, err := a.ensureUser(ctx, user); err != nil {
		return storage.EventRecord{}, err
	}
	return event, nil
}

func (a Applier) loadParticipant(ctx context.Context, id string) (storage.ParticipantRecord, bool, error) {
	return storage.Load[storage.ParticipantRecord](ctx, a.Tx, storage.KindParticipant, id)
}

// applyParticipantApplied records the application without undoing an
// organizer decision that was applied first.
func (a Applier) applyParticipantApplied(ctx context.Context, evt domain.Event, payload domain.ParticipantAppliedPayload) error {
	eventID := domain.DomainID(payload.EventID)
	event, err := a.participantRefs(ctx, evt, eventID, payload.Participant)
	if err != nil {
		return err
	}
	appliedAt := payload.AppliedAt
	if appliedAt == 0 {
		appliedAt = evt.Envelope.BlockTimestamp
	}

	id := domain.ParticipantID(eventID, payload.Participant)
	record, found, err := a.loadParticipant(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		record = storage.ParticipantRecord{
			ID:          id,
			EventID:     eventID,
			Participant: payload.Participant,
		}
	}
	if record.Status.IsDecided() {
		a.logger(evt).Debug("application after decision", zap.String("participant_id", id), zap.String("status", string(record.Status)))
	} else {
		record.Status = domain.ParticipantApplied
	}
	record.AppliedAt = appliedAt
	if err := storage.Save(ctx, a.Tx, storage.KindParticipant, id, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.Participant,
		message:     notify.MessageApplied,
		args:        []any{event.Variant.Noun()},
		related:     id,
		relatedKind: storage.KindParticipant,
	})
}

func (a Applier) applyParticipantAccepted(ctx context.Context, evt domain.Event, payload domain.ParticipantPayload) error {
	return a.decideParticipant(ctx, evt, payload, domain.ParticipantAccepted)
}

func (a Applier) applyParticipantRejected(ctx context.Context, evt domain.Event, payload domain.ParticipantPayload) error {
	return a.decideParticipant(ctx, evt, payload, domain.ParticipantRejected)
}

// decideParticipant applies an organizer decision, creating the participant
// with the block time as its application time when the application was not seen.
func (a Applier) decideParticipant(ctx context.Context, evt domain.Event, payload domain.ParticipantPayload, status domain.ParticipantStatus) error {
	eventID := domain.DomainID(payload.EventID)
	event, err := a.participantRefs(ctx, evt, eventID, payload.Participant)
	if err != nil {
		return err
	}
	ts := evt.Envelope.BlockTimestamp

	id := domain.ParticipantID(eventID, payload.Participant)
	record, found, err := a.loadParticipant(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		record = storage.ParticipantRecord{
			ID:          id,
			EventID:     eventID,
			Participant: payload.Participant,
			AppliedAt:   ts,
		}
	}
	record.Status = status
	msg := notify.MessageAccepted
	if status == domain.ParticipantAccepted {
		record.AcceptedAt = ts
	} else {
		record.RejectedAt = ts
		msg = notify.MessageRejected
	}
	if err := storage.Save(ctx, a.Tx, storage.KindParticipant, id, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.Participant,
		message:     msg,
		args:        []any{event.Variant.Noun()},
		related:     id,
		relatedKind: storage.KindParticipant,
	})
}
