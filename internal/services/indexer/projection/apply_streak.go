package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// DefaultStreakerCode is assigned when stats are created before the user joins.
func DefaultStreakerCode(user domain.Address) string {
	return "STREAKER_" + string(user)
}

// loadStats returns the user's stats or new empty stats with the default code.
func (a Applier) loadStats(ctx context.Context, user domain.Address) (storage.StreakStatsRecord, error) {
	stats, found, err := storage.Load[storage.StreakStatsRecord](ctx, a.Tx, storage.KindStreakStats, string(user))
	if err != nil {
		return storage.StreakStatsRecord{}, err
	}
	if !found {
		stats = storage.StreakStatsRecord{User: user, StreakerCode: DefaultStreakerCode(user)}
	}
	return stats, nil
}

func (a Applier) saveStats(ctx context.Context, stats storage.StreakStatsRecord) error {
	return storage.Save(ctx, a.Tx, storage.KindStreakStats, string(stats.User), stats)
}

func (a Applier) loadSubmission(ctx context.Context, id string) (storage.SubmissionRecord, bool, error) {
	return storage.Load[storage.SubmissionRecord](ctx, a.Tx, storage.KindSubmission, id)
}

func (a Applier) saveSubmission(ctx context.Context, record storage.SubmissionRecord) error {
	return storage.Save(ctx, a.Tx, storage.KindSubmission, record.ID, record)
}

func (a Applier) applyStreakerJoined(ctx context.Context, evt domain.Event, payload domain.StreakerJoinedPayload) error {
	if _, err := a.ensureUser(ctx, payload.User); err != nil {
		return err
	}
	stats, err := a.loadStats(ctx, payload.User)
	if err != nil {
		return err
	}
	if payload.StreakerCode != "" {
		stats.StreakerCode = payload.StreakerCode
	}
	if err := a.saveStats(ctx, stats); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageStreakerJoined,
		args:        []any{stats.StreakerCode},
		related:     string(payload.User),
		relatedKind: storage.KindStreakStats,
	})
}

// applyStreakSubmitted counts a new submission as pending. A placeholder left
// by an earlier decision keeps its status and is only completed.
func (a Applier) applyStreakSubmitted(ctx context.Context, evt domain.Event, payload domain.StreakSubmittedPayload) error {
	if _, err := a.ensureUser(ctx, payload.User); err != nil {
		return err
	}
	id := domain.DomainID(payload.SubmissionID)
	record, found, err := a.loadSubmission(ctx, id)
	if err != nil {
		return err
	}
	stats, err := a.loadStats(ctx, payload.User)
	if err != nil {
		return err
	}
	ts := evt.Envelope.BlockTimestamp

	switch {
	case !found:
		record = storage.SubmissionRecord{
			ID:          id,
			User:        payload.User,
			Metadata:    payload.Metadata,
			IPFSHashes:  payload.IPFSHashes,
			Mimetypes:   payload.Mimetypes,
			Status:      domain.SubmissionPending,
			SubmittedAt: ts,
			BlockNumber: evt.Envelope.BlockNumber,
			TxHash:      evt.Envelope.TxHash,
		}
		moveSubmission(&stats, bucketNone, bucketPending, domain.BigUint{})
	case record.Placeholder:
		record.Placeholder = false
		record.User = payload.User
		record.Metadata = payload.Metadata
		record.IPFSHashes = payload.IPFSHashes
		record.Mimetypes = payload.Mimetypes
		record.SubmittedAt = earliest(record.SubmittedAt, ts)
		record.BlockNumber = evt.Envelope.BlockNumber
		record.TxHash = evt.Envelope.TxHash
	default:
		record.Metadata = fillString(record.Metadata, payload.Metadata)
		if len(record.IPFSHashes) == 0 {
			record.IPFSHashes = payload.IPFSHashes
			record.Mimetypes = payload.Mimetypes
		}
		record.SubmittedAt = earliest(record.SubmittedAt, ts)
	}
	stats.LastSubmissionAt = latest(stats.LastSubmissionAt, ts)

	if err := a.saveSubmission(ctx, record); err != nil {
		return err
	}
	if err := a.saveStats(ctx, stats); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageStreakSubmitted,
		related:     id,
		relatedKind: storage.KindSubmission,
	})
}

func (a Applier) applyStreakApproved(ctx context.Context, evt domain.Event, payload domain.StreakApprovedPayload) error {
	return a.reviewSubmission(ctx, evt, payload.User, payload.SubmissionID, func(record *storage.SubmissionRecord) (notification, domain.BigUint) {
		record.Status = domain.SubmissionApproved
		record.Amount = payload.Amount
		return notification{message: notify.MessageStreakApproved}, payload.Amount
	})
}

func (a Applier) applyStreakRejected(ctx context.Context, evt domain.Event, payload domain.StreakRejectedPayload) error {
	return a.reviewSubmission(ctx, evt, payload.User, payload.SubmissionID, func(record *storage.SubmissionRecord) (notification, domain.BigUint) {
		record.Status = domain.SubmissionRejected
		record.RejectionReason = payload.Reason
		return notification{message: notify.MessageStreakRejected, args: []any{payload.Reason}}, domain.BigUint{}
	})
}

// reviewSubmission applies a reviewer decision. A decision on an unseen
// submission leaves a placeholder; a decision on a REWARDED one is ignored.
func (a Applier) reviewSubmission(
	ctx context.Context,
	evt domain.Event,
	user domain.Address,
	submissionID domain.BigUint,
	decide func(*storage.SubmissionRecord) (notification, domain.BigUint),
) error {
	id := domain.DomainID(submissionID)
	record, found, err := a.loadSubmission(ctx, id)
	if err != nil {
		return err
	}
	if found && record.Status == domain.SubmissionRewarded {
		a.skip(evt, skipTerminalSubmission, zap.String("submission_id", id))
		return nil
	}
	if !found {
		record = storage.SubmissionRecord{
			ID:          id,
			User:        user,
			Placeholder: true,
			Status:      domain.SubmissionUnknown,
			BlockNumber: evt.Envelope.BlockNumber,
			TxHash:      evt.Envelope.TxHash,
		}
	}
	if _, err := a.ensureUser(ctx, user); err != nil {
		return err
	}
	stats, err := a.loadStats(ctx, user)
	if err != nil {
		return err
	}

	from := bucketOf(record.Status)
	n, amount := decide(&record)
	record.ReviewedAt = evt.Envelope.BlockTimestamp
	moveSubmission(&stats, from, bucketOf(record.Status), amount)

	if err := a.saveSubmission(ctx, record); err != nil {
		return err
	}
	if err := a.saveStats(ctx, stats); err != nil {
		return err
	}
	n.user = user
	n.related = id
	n.relatedKind = storage.KindSubmission
	return a.emit(ctx, evt, n)
}
