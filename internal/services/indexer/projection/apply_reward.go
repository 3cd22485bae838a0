package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// applyRewardEarned appends a RECEIVE transaction and accumulates it. The
// transaction id is the dedupe key: a replayed reward changes nothing.
func (a Applier) applyRewardEarned(ctx context.Context, evt domain.Event, payload domain.RewardEarnedPayload) error {
	var eventID, submissionID string
	if !payload.EventID.IsZero() {
		eventID = domain.DomainID(payload.EventID)
	}
	if !payload.StreakSubmissionID.IsZero() {
		submissionID = domain.DomainID(payload.StreakSubmissionID)
	}
	ts := evt.Envelope.BlockTimestamp
	rewardType := payload.RewardType
	category := domain.RewardCategoryFromCode(rewardType)

	txID := domain.OccurrenceID(evt.Envelope, "reward_earned")
	created, err := a.putIfAbsent(ctx, storage.KindTransaction, txID, storage.TransactionRecord{
		ID:                 txID,
		User:               payload.Participant,
		EventID:            eventID,
		StreakSubmissionID: submissionID,
		Amount:             payload.Amount,
		Type:               domain.TransactionReceive,
		RewardType:         &rewardType,
		Category:           category,
		Timestamp:          ts,
		BlockNumber:        evt.Envelope.BlockNumber,
		TxHash:             evt.Envelope.TxHash,
	})
	if err != nil {
		return err
	}
	if !created {
		a.skip(evt, skipDuplicate, zap.String("transaction_id", txID))
		return nil
	}

	user, err := a.ensureUser(ctx, payload.Participant)
	if err != nil {
		return err
	}
	user.Received = user.Received.Add(payload.Amount)
	switch category {
	case domain.RewardReferral:
		user.Referral = user.Referral.Add(payload.Amount)
	case domain.RewardBonus:
		user.Bonus = user.Bonus.Add(payload.Amount)
	case domain.RewardOther:
		user.Other = user.Other.Add(payload.Amount)
	default:
		user.Uncategorized = user.Uncategorized.Add(payload.Amount)
	}
	if err := a.saveUser(ctx, user); err != nil {
		return err
	}

	n := notification{
		user:        payload.Participant,
		message:     notify.MessageRewardEarned,
		related:     txID,
		relatedKind: storage.KindTransaction,
	}
	if eventID != "" {
		variant, err := a.rewardParticipant(ctx, evt, eventID, payload)
		if err != nil {
			return err
		}
		n.message = notify.MessageEventRewardEarned
		n.args = []any{variant.Noun()}
	}
	if submissionID != "" {
		if err := a.rewardSubmission(ctx, evt, submissionID, payload); err != nil {
			return err
		}
		if eventID == "" {
			n.message = notify.MessageStreakRewardEarned
		}
	}
	return a.emit(ctx, evt, n)
}

// rewardParticipant adds the reward to the participation, creating the
// participant and event when the reward arrives first.
func (a Applier) rewardParticipant(ctx context.Context, evt domain.Event, eventID string, payload domain.RewardEarnedPayload) (domain.Variant, error) {
	event, err := a.ensureEvent(ctx, evt, eventID)
	if err != nil {
		return "", err
	}
	ts := evt.Envelope.BlockTimestamp
	id := domain.ParticipantID(eventID, payload.Participant)
	record, found, err := a.loadParticipant(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		record = storage.ParticipantRecord{
			ID:          id,
			EventID:     eventID,
			Participant: payload.Participant,
			AppliedAt:   ts,
		}
	}
	record.RewardEarned = record.RewardEarned.Add(payload.Amount)
	record.RewardEarnedAt = ts
	if err := storage.Save(ctx, a.Tx, storage.KindParticipant, id, record); err != nil {
		return "", err
	}
	return event.Variant, nil
}

// rewardSubmission moves a known submission to REWARDED whatever its status.
func (a Applier) rewardSubmission(ctx context.Context, evt domain.Event, submissionID string, payload domain.RewardEarnedPayload) error {
	record, found, err := a.loadSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if !found {
		a.logger(evt).Info("reward for unknown streak submission", zap.String("submission_id", submissionID))
		return nil
	}
	user := fillAddress(record.User, payload.Participant)
	stats, err := a.loadStats(ctx, user)
	if err != nil {
		return err
	}

	from := bucketOf(record.Status)
	record.Status = domain.SubmissionRewarded
	record.RewardEarned = record.RewardEarned.Add(payload.Amount)
	record.RewardedAt = evt.Envelope.BlockTimestamp
	moveSubmission(&stats, from, bucketApproved, payload.Amount)

	if err := a.saveSubmission(ctx, record); err != nil {
		return err
	}
	return a.saveStats(ctx, stats)
}

func (a Applier) applyRewardsDistributed(ctx context.Context, evt domain.Event, payload domain.RewardsDistributedPayload) error {
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
	record.Status = domain.EventStatusRewarded
	record.RewardsDistributed = true
	record.RewardsTotalAmount = payload.TotalAmount
	record.RewardsParticipantCount = payload.ParticipantCount
	record.RewardsDistributedAt = ts
	record.UpdatedAt = latest(record.UpdatedAt, ts)
	return a.saveEvent(ctx, record)
}

// applyTokenTransferred appends a CLAIM transaction and adds it to the
// user's claimed amount once.
func (a Applier) applyTokenTransferred(ctx context.Context, evt domain.Event, payload domain.TokenTransferredPayload) error {
	txID := domain.OccurrenceID(evt.Envelope, "token_transferred")
	created, err := a.putIfAbsent(ctx, storage.KindTransaction, txID, storage.TransactionRecord{
		ID:          txID,
		User:        payload.User,
		Amount:      payload.Amount,
		Type:        domain.TransactionClaim,
		Timestamp:   evt.Envelope.BlockTimestamp,
		BlockNumber: evt.Envelope.BlockNumber,
		TxHash:      evt.Envelope.TxHash,
	})
	if err != nil {
		return err
	}
	if !created {
		a.skip(evt, skipDuplicate, zap.String("transaction_id", txID))
		return nil
	}
	user, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	user.Claimed = user.Claimed.Add(payload.Amount)
	return a.saveUser(ctx, user)
}
