package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// applyEventCreated completes a placeholder with every descriptive field and
// the initial status, unless later events already moved it. A record that was
// already created only has its empty fields filled.
func (a Applier) applyEventCreated(ctx context.Context, evt domain.Event, payload domain.EventCreatedPayload) error {
	variant, err := domain.ParseVariant(payload.Variant)
	if err != nil {
		return err
	}
	id := domain.DomainID(payload.EventID)
	record, found, err := a.loadEvent(ctx, id)
	if err != nil {
		return err
	}
	ts := evt.Envelope.BlockTimestamp

	if !found || record.Placeholder {
		record.ID = id
		record.Placeholder = false
		record.Variant = variant
		record.Organizer = payload.Organizer
		record.Metadata = payload.Metadata
		record.Category = payload.Category
		record.Location = payload.Location
		record.City = payload.City
		record.Country = payload.Country
		record.Latitude = payload.Latitude
		record.Longitude = payload.Longitude
		record.Date = payload.Date
		record.StartTime = payload.StartTime
		record.EndTime = payload.EndTime
		record.MaxParticipants = payload.MaxParticipants
		record.IsPrivate = payload.IsPrivate
		// Status and publication reached by earlier events stay as they are.
		if payload.IsPrivate {
			if record.Status == domain.EventStatusUnpublished {
				record.Status = domain.EventStatusOpen
			}
			record.Published = true
			record.PublishedAt = fillInt(record.PublishedAt, ts)
		}
	} else {
		record.Organizer = fillAddress(record.Organizer, payload.Organizer)
		record.Metadata = fillString(record.Metadata, payload.Metadata)
		record.Category = fillString(record.Category, payload.Category)
		record.Location = fillString(record.Location, payload.Location)
		record.City = fillString(record.City, payload.City)
		record.Country = fillString(record.Country, payload.Country)
		record.Latitude = fillString(record.Latitude, payload.Latitude)
		record.Longitude = fillString(record.Longitude, payload.Longitude)
		record.Date = fillInt(record.Date, payload.Date)
		record.StartTime = fillInt(record.StartTime, payload.StartTime)
		record.EndTime = fillInt(record.EndTime, payload.EndTime)
		record.MaxParticipants = fillInt(record.MaxParticipants, payload.MaxParticipants)
	}
	record.CreatedAt = earliest(record.CreatedAt, ts)
	record.UpdatedAt = latest(record.UpdatedAt, ts)
	return a.saveEvent(ctx, record)
}

func (a Applier) applyEventPublished(ctx context.Context, evt domain.Event, payload domain.EventRefPayload) error {
	record, found, err := a.loadEvent(ctx, domain.DomainID(payload.EventID))
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingEvent, zap.String("event_id", payload.EventID.String()))
		return nil
	}
	record.Published = true
	record.PublishedAt = evt.Envelope.BlockTimestamp
	record.UpdatedAt = latest(record.UpdatedAt, evt.Envelope.BlockTimestamp)
	return a.saveEvent(ctx, record)
}

func (a Applier) applyEventUnpublished(ctx context.Context, evt domain.Event, payload domain.EventRefPayload) error {
	record, found, err := a.loadEvent(ctx, domain.DomainID(payload.EventID))
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingEvent, zap.String("event_id", payload.EventID.String()))
		return nil
	}
	record.Published = false
	record.UnpublishedAt = evt.Envelope.BlockTimestamp
	record.UpdatedAt = latest(record.UpdatedAt, evt.Envelope.BlockTimestamp)
	return a.saveEvent(ctx, record)
}

// plausibleTransitions lists the status changes the contracts are expected to emit.
var plausibleTransitions = map[domain.EventStatus][]domain.EventStatus{
	domain.EventStatusUnpublished: {domain.EventStatusOpen},
	domain.EventStatusOpen:        {domain.EventStatusUnpublished, domain.EventStatusInProgress, domain.EventStatusCompleted},
	domain.EventStatusInProgress:  {domain.EventStatusCompleted},
	domain.EventStatusCompleted:   {domain.EventStatusRewarded},
}

func isPlausibleTransition(from, to domain.EventStatus) bool {
	if from == to {
		return true
	}
	for _, next := range plausibleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// applyEventStatusUpdated moves the event to the new status. Mismatches with
// the declared old status and unexpected transitions are logged and applied;
// REWARDED events and unknown statuses are left untouched.
func (a Applier) applyEventStatusUpdated(ctx context.Context, evt domain.Event, payload domain.EventStatusUpdatedPayload) error {
	id := domain.DomainID(payload.EventID)
	record, found, err := a.loadEvent(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingEvent, zap.String("event_id", id))
		return nil
	}
	next := domain.EventStatusFromCode(payload.NewStatus)
	if next == domain.EventStatusUnknown {
		a.skip(evt, skipUnknownStatus, zap.String("event_id", id), zap.Int64("new_status", payload.NewStatus))
		return nil
	}
	if record.Status.IsTerminal() {
		a.skip(evt, skipTerminalEvent, zap.String("event_id", id), zap.Stringer("new_status", next))
		return nil
	}

	declared := domain.EventStatusFromCode(payload.OldStatus)
	if declared != record.Status {
		a.warn(evt, "event status mismatch",
			zap.String("event_id", id),
			zap.Stringer("declared", declared),
			zap.Stringer("stored", record.Status),
		)
	}
	if !isPlausibleTransition(record.Status, next) {
		a.warn(evt, "unexpected event status transition",
			zap.String("event_id", id),
			zap.Stringer("from", record.Status),
			zap.Stringer("to", next),
		)
	}

	ts := evt.Envelope.BlockTimestamp
	switch next {
	case domain.EventStatusOpen:
		if declared == domain.EventStatusUnpublished {
			record.Published = true
			record.PublishedAt = fillInt(record.PublishedAt, ts)
		}
	case domain.EventStatusUnpublished:
		if declared == domain.EventStatusOpen {
			record.Published = false
			record.UnpublishedAt = ts
		}
	case domain.EventStatusInProgress:
		duration := int64(0)
		if record.StartTime > 0 && record.EndTime > record.StartTime {
			duration = record.EndTime - record.StartTime
		}
		record.StartTime = ts
		record.EndTime = ts + duration
		if record.Variant == domain.VariantImpact {
			record.Date = ts
		}
	case domain.EventStatusCompleted:
		record.EndTime = ts
	}
	record.Status = next
	record.UpdatedAt = latest(record.UpdatedAt, ts)
	return a.saveEvent(ctx, record)
}

func (a Applier) applyEventMadePublic(ctx context.Context, evt domain.Event, payload domain.EventRefPayload) error {
	id := domain.DomainID(payload.EventID)
	record, found, err := a.loadEvent(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingEvent, zap.String("event_id", id))
		return nil
	}
	ts := evt.Envelope.BlockTimestamp
	record.IsPrivate = false
	record.Published = true
	record.PublishedAt = fillInt(record.PublishedAt, ts)
	record.UpdatedAt = latest(record.UpdatedAt, ts)
	if err := a.saveEvent(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        record.Organizer,
		message:     notify.MessageEventMadePublic,
		titleArgs:   []any{record.Variant.Title()},
		args:        []any{record.Variant.Noun()},
		related:     id,
		relatedKind: storage.KindEvent,
	})
}

// applyEventUpdateAdded appends the update and counts it once.
func (a Applier) applyEventUpdateAdded(ctx context.Context, evt domain.Event, payload domain.EventUpdateAddedPayload) error {
	eventID := domain.DomainID(payload.EventID)
	record, err := a.ensureEvent(ctx, evt, eventID)
	if err != nil {
		return err
	}
	addedAt := payload.AddedAt
	if addedAt == 0 {
		addedAt = evt.Envelope.BlockTimestamp
	}
	updateID := domain.OccurrenceID(evt.Envelope, "event_update")
	created, err := a.putIfAbsent(ctx, storage.KindUpdate, updateID, storage.UpdateRecord{
		ID:          updateID,
		EventID:     eventID,
		Organizer:   payload.Organizer,
		Metadata:    payload.Metadata,
		AddedAt:     addedAt,
		BlockNumber: evt.Envelope.BlockNumber,
		TxHash:      evt.Envelope.TxHash,
	})
	if err != nil {
		return err
	}
	if !created {
		a.skip(evt, skipDuplicate, zap.String("update_id", updateID))
		return nil
	}
	record.UpdatesCount++
	record.UpdatedAt = latest(record.UpdatedAt, evt.Envelope.BlockTimestamp)
	if err := a.saveEvent(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        fillAddress(payload.Organizer, record.Organizer),
		message:     notify.MessageEventUpdate,
		titleArgs:   []any{record.Variant.Title()},
		args:        []any{record.Variant.Noun()},
		related:     updateID,
		relatedKind: storage.KindUpdate,
	})
}

// applyProofOfWorkSubmitted stores the proof and flags the event when it is known.
func (a Applier) applyProofOfWorkSubmitted(ctx context.Context, evt domain.Event, payload domain.ProofOfWorkSubmittedPayload) error {
	eventID := domain.DomainID(payload.EventID)
	if len(payload.IPFSHashes) != len(payload.Mimetypes) {
		a.warn(evt, "proof of work media count mismatch",
			zap.Int("ipfs_hashes", len(payload.IPFSHashes)),
			zap.Int("mimetypes", len(payload.Mimetypes)),
		)
	}
	submittedAt := payload.SubmittedAt
	if submittedAt == 0 {
		submittedAt = evt.Envelope.BlockTimestamp
	}
	proofID := domain.OccurrenceID(evt.Envelope, "proof_of_work")
	if _, err := a.putIfAbsent(ctx, storage.KindProofOfWork, proofID, storage.ProofOfWorkRecord{
		ID:          proofID,
		EventID:     eventID,
		IPFSHashes:  payload.IPFSHashes,
		Mimetypes:   payload.Mimetypes,
		SubmittedAt: submittedAt,
		BlockNumber: evt.Envelope.BlockNumber,
		TxHash:      evt.Envelope.TxHash,
	}); err != nil {
		return err
	}

	variant := domain.VariantCleanup
	organizer := payload.Organizer
	record, found, err := a.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if found {
		record.ProofOfWorkSubmitted = true
		record.ProofOfWorkSubmittedAt = submittedAt
		record.LastProofOfWorkID = proofID
		record.UpdatedAt = latest(record.UpdatedAt, evt.Envelope.BlockTimestamp)
		if err := a.saveEvent(ctx, record); err != nil {
			return err
		}
		variant = record.Variant
		organizer = fillAddress(organizer, record.Organizer)
	} else {
		a.warn(evt, "proof of work for unknown event", zap.String("event_id", eventID))
	}
	return a.emit(ctx, evt, notification{
		user:        organizer,
		message:     notify.MessageProofOfWork,
		args:        []any{variant.Noun()},
		related:     proofID,
		relatedKind: storage.KindProofOfWork,
	})
}

// applyEventContractDeployed records a per-event contract created by the factory.
func (a Applier) applyEventContractDeployed(ctx context.Context, evt domain.Event, payload domain.EventContractDeployedPayload) error {
	id := string(payload.Contract)
	record, found, err := storage.Load[storage.EventContractRecord](ctx, a.Tx, storage.KindEventContract, id)
	if err != nil {
		return err
	}
	if found {
		record.Organizer = fillAddress(record.Organizer, payload.Organizer)
		record.Metadata = fillString(record.Metadata, payload.Metadata)
		record.Date = fillInt(record.Date, payload.Date)
		record.CreatedAt = earliest(record.CreatedAt, evt.Envelope.BlockTimestamp)
	} else {
		record = storage.EventContractRecord{
			Address:     payload.Contract,
			Organizer:   payload.Organizer,
			Metadata:    payload.Metadata,
			Date:        payload.Date,
			CreatedAt:   evt.Envelope.BlockTimestamp,
			BlockNumber: evt.Envelope.BlockNumber,
			TxHash:      evt.Envelope.TxHash,
		}
	}
	if err := storage.Save(ctx, a.Tx, storage.KindEventContract, id, record); err != nil {
		return fmt.Errorf("store event contract: %w", err)
	}
	return nil
}
