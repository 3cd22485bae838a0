package storage

import (
	"context"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// Reader exposes typed reads over a store for query-serving collaborators.
// Every method returns ErrNotFound when the entity does not exist.
type Reader struct {
	store Getter
}

// Lister scans entities of one kind in id order.
type Lister interface {
	List(ctx context.Context, kind Kind, afterID string, limit int) (Page, error)
}

// NewReader wraps a store for typed reads.
func NewReader(store Getter) Reader {
	return Reader{store: store}
}

// List returns the next page of kind after afterID. The limit is clamped to
// the default and maximum page sizes.
func (r Reader) List(ctx context.Context, kind Kind, afterID string, limit int) (Page, error) {
	lister, ok := r.store.(Lister)
	if !ok {
		return Page{}, apperrors.New(apperrors.CodeStoreUnavailable, "store does not support listing")
	}
	return lister.List(ctx, kind, afterID, ClampPageSize(limit))
}

func get[T any](ctx context.Context, g Getter, kind Kind, id string) (T, error) {
	value, found, err := Load[T](ctx, g, kind, id)
	if err != nil {
		return value, err
	}
	if !found {
		return value, ErrNotFound
	}
	return value, nil
}

func (r Reader) User(ctx context.Context, user domain.Address) (UserRecord, error) {
	return get[UserRecord](ctx, r.store, KindUser, string(user))
}

func (r Reader) Event(ctx context.Context, eventID string) (EventRecord, error) {
	return get[EventRecord](ctx, r.store, KindEvent, eventID)
}

func (r Reader) EventContract(ctx context.Context, contract domain.Address) (EventContractRecord, error) {
	return get[EventContractRecord](ctx, r.store, KindEventContract, string(contract))
}

func (r Reader) Participant(ctx context.Context, eventID string, user domain.Address) (ParticipantRecord, error) {
	return get[ParticipantRecord](ctx, r.store, KindParticipant, domain.ParticipantID(eventID, user))
}

func (r Reader) ProofOfWork(ctx context.Context, id string) (ProofOfWorkRecord, error) {
	return get[ProofOfWorkRecord](ctx, r.store, KindProofOfWork, id)
}

func (r Reader) Update(ctx context.Context, id string) (UpdateRecord, error) {
	return get[UpdateRecord](ctx, r.store, KindUpdate, id)
}

func (r Reader) Transaction(ctx context.Context, id string) (TransactionRecord, error) {
	return get[TransactionRecord](ctx, r.store, KindTransaction, id)
}

func (r Reader) Submission(ctx context.Context, submissionID string) (SubmissionRecord, error) {
	return get[SubmissionRecord](ctx, r.store, KindSubmission, submissionID)
}

func (r Reader) StreakStats(ctx context.Context, user domain.Address) (StreakStatsRecord, error) {
	return get[StreakStatsRecord](ctx, r.store, KindStreakStats, string(user))
}

func (r Reader) Membership(ctx context.Context, organizer, member domain.Address) (MembershipRecord, error) {
	return get[MembershipRecord](ctx, r.store, KindMembership, domain.PairID(organizer, member))
}

func (r Reader) Passport(ctx context.Context, user domain.Address) (PassportRecord, error) {
	return get[PassportRecord](ctx, r.store, KindPassport, string(user))
}

func (r Reader) Notification(ctx context.Context, id string) (NotificationRecord, error) {
	return get[NotificationRecord](ctx, r.store, KindNotification, id)
}

func (r Reader) AddressUpdated(ctx context.Context, id string) (AddressUpdatedRecord, error) {
	return get[AddressUpdatedRecord](ctx, r.store, KindAddressUpdated, id)
}

func (r Reader) AppIDUpdated(ctx context.Context, id string) (AppIDUpdatedRecord, error) {
	return get[AppIDUpdatedRecord](ctx, r.store, KindAppIDUpdated, id)
}

func (r Reader) RewardsPoolUpdated(ctx context.Context, id string) (RewardsPoolUpdatedRecord, error) {
	return get[RewardsPoolUpdatedRecord](ctx, r.store, KindRewardsPoolUpdated, id)
}
