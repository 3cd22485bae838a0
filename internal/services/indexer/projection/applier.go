package projection

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// TeamRemoval selects how a removed team member is stored.
type TeamRemoval string

const (
	// TeamRemovalSoft marks the membership deleted so a later add restores it.
	TeamRemovalSoft TeamRemoval = "soft"
	// TeamRemovalHard deletes the membership record.
	TeamRemovalHard TeamRemoval = "hard"
)

// ParseTeamRemoval normalizes a removal mode. Empty input means soft.
func ParseTeamRemoval(value string) (TeamRemoval, error) {
	switch TeamRemoval(strings.ToLower(strings.TrimSpace(value))) {
	case "", TeamRemovalSoft:
		return TeamRemovalSoft, nil
	case TeamRemovalHard:
		return TeamRemovalHard, nil
	default:
		return "", fmt.Errorf("unknown team removal mode %q", value)
	}
}

// Applier applies one event to the records visible through Tx.
type Applier struct {
	// Tx is the atomic unit of the event being applied.
	Tx storage.Tx
	// Logger receives projection decisions. Nil disables logging.
	Logger *zap.Logger
	// Notify renders notification copy.
	Notify *notify.Renderer
	// TeamRemoval selects soft or hard membership removal.
	TeamRemoval TeamRemoval
	// OnSkip is called when a projector ignores an event.
	OnSkip func(reason string)
}

// Skip reasons reported to OnSkip and logged.
const (
	skipMissingUser        = "missing_user"
	skipMissingEvent       = "missing_event"
	skipMissingMembership  = "missing_membership"
	skipDuplicate          = "duplicate"
	skipTerminalEvent      = "terminal_event"
	skipTerminalSubmission = "terminal_submission"
	skipUnknownStatus      = "unknown_status"
)

func (a Applier) logger(evt domain.Event) *zap.Logger {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(
		zap.String("event_type", string(evt.Type)),
		zap.String("tx_hash", evt.Envelope.TxHash),
		zap.Uint32("log_index", evt.Envelope.LogIndex),
		zap.Uint64("block_number", evt.Envelope.BlockNumber),
	)
}

// skip logs that evt was ignored and reports the reason.
func (a Applier) skip(evt domain.Event, reason string, fields ...zap.Field) {
	a.logger(evt).Info("projection skipped", append([]zap.Field{zap.String("reason", reason)}, fields...)...)
	if a.OnSkip != nil {
		a.OnSkip(reason)
	}
}

// warn logs an inconsistency that does not stop the event from applying.
func (a Applier) warn(evt domain.Event, msg string, fields ...zap.Field) {
	a.logger(evt).Warn(msg, fields...)
}

func (a Applier) loadUser(ctx context.Context, user domain.Address) (storage.UserRecord, bool, error) {
	return storage.Load[storage.UserRecord](ctx, a.Tx, storage.KindUser, string(user))
}

func (a Applier) saveUser(ctx context.Context, record storage.UserRecord) error {
	return storage.Save(ctx, a.Tx, storage.KindUser, string(record.ID), record)
}

// ensureUser loads the user or stores a placeholder for one that has only
// been referenced so far.
func (a Applier) ensureUser(ctx context.Context, user domain.Address) (storage.UserRecord, error) {
	record, found, err := a.loadUser(ctx, user)
	if err != nil {
		return storage.UserRecord{}, err
	}
	if found {
		return record, nil
	}
	record = newUserPlaceholder(user)
	if err := a.saveUser(ctx, record); err != nil {
		return storage.UserRecord{}, err
	}
	return record, nil
}

func newUserPlaceholder(user domain.Address) storage.UserRecord {
	return storage.UserRecord{
		ID:          user,
		Placeholder: true,
		KYCStatus:   domain.KYCNotStarted,
	}
}

func (a Applier) loadEvent(ctx context.Context, eventID string) (storage.EventRecord, bool, error) {
	return storage.Load[storage.EventRecord](ctx, a.Tx, storage.KindEvent, eventID)
}

func (a Applier) saveEvent(ctx context.Context, record storage.EventRecord) error {
	return storage.Save(ctx, a.Tx, storage.KindEvent, record.ID, record)
}

// ensureEvent loads the event or stores a placeholder owned by the zero
// address until the created event fills it in.
func (a Applier) ensureEvent(ctx context.Context, evt domain.Event, eventID string) (storage.EventRecord, error) {
	record, found, err := a.loadEvent(ctx, eventID)
	if err != nil {
		return storage.EventRecord{}, err
	}
	if found {
		return record, nil
	}
	ts := evt.Envelope.BlockTimestamp
	record = storage.EventRecord{
		ID:          eventID,
		Variant:     domain.VariantCleanup,
		Placeholder: true,
		Organizer:   domain.ZeroAddress,
		Status:      domain.EventStatusUnpublished,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := a.saveEvent(ctx, record); err != nil {
		return storage.EventRecord{}, err
	}
	return record, nil
}

// putIfAbsent stores value at kind/id unless a record is already there.
// created reports whether this call stored it.
func (a Applier) putIfAbsent(ctx context.Context, kind storage.Kind, id string, value any) (created bool, err error) {
	exists, err := storage.Exists(ctx, a.Tx, kind, id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := storage.Save(ctx, a.Tx, kind, id, value); err != nil {
		return false, err
	}
	return true, nil
}

// earliest returns the smaller non-zero timestamp.
func earliest(current, candidate int64) int64 {
	switch {
	case current == 0:
		return candidate
	case candidate == 0:
		return current
	case candidate < current:
		return candidate
	default:
		return current
	}
}

func latest(current, candidate int64) int64 {
	if candidate > current {
		return candidate
	}
	return current
}

func fillString(current, candidate string) string {
	if current == "" {
		return candidate
	}
	return current
}

func fillInt(current, candidate int64) int64 {
	if current == 0 {
		return candidate
	}
	return current
}

func fillAddress(current, candidate domain.Address) domain.Address {
	if current.IsZero() {
		return candidate
	}
	return current
}
