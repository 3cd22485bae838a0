package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

func (a Applier) applyUserRegistered(ctx context.Context, evt domain.Event, payload domain.UserRegisteredPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	ts := evt.Envelope.BlockTimestamp

	switch {
	case !found:
		record = newUserPlaceholder(payload.User)
		fallthrough
	case record.Placeholder:
		record.Placeholder = false
		record.Metadata = payload.Metadata
		if payload.Email != "" {
			record.Email = payload.Email
		}
	default:
		record.Metadata = fillString(record.Metadata, payload.Metadata)
		record.Email = fillString(record.Email, payload.Email)
	}
	record.RegisteredAt = earliest(record.RegisteredAt, ts)

	if err := a.saveUser(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageUserRegistered,
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}

func (a Applier) applyEmailVerified(ctx context.Context, evt domain.Event, payload domain.UserPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	record.EmailVerified = true
	record.EmailVerifiedAt = fillInt(record.EmailVerifiedAt, evt.Envelope.BlockTimestamp)
	if err := a.saveUser(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageEmailVerified,
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}

func (a Applier) applyKYCStatusUpdated(ctx context.Context, evt domain.Event, payload domain.KYCStatusUpdatedPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	status := domain.KYCStatusFromCode(payload.NewStatus)
	if status == domain.KYCUnknown {
		a.warn(evt, "unknown kyc status code", zap.Int64("code", payload.NewStatus))
	}
	record.KYCStatus = status
	if err := a.saveUser(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageKYCStatusUpdated,
		args:        []any{status.String()},
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}

func (a Applier) applyProfileUpdated(ctx context.Context, evt domain.Event, payload domain.ProfileUpdatedPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	record.Metadata = payload.Metadata
	record.LastProfileUpdateAt = latest(record.LastProfileUpdateAt, evt.Envelope.BlockTimestamp)
	if err := a.saveUser(ctx, record); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageProfileUpdated,
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}

func (a Applier) applyReferralCodeSet(ctx context.Context, evt domain.Event, payload domain.ReferralCodeSetPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	record.ReferralCode = payload.ReferralCode
	return a.saveUser(ctx, record)
}

// applyUserReferred counts the referral once: the referrer's count only moves
// when the referred user's referrer changes to it.
func (a Applier) applyUserReferred(ctx context.Context, evt domain.Event, payload domain.UserReferredPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	if record.Referrer == payload.Referrer {
		return nil
	}
	if !record.Referrer.IsZero() {
		a.warn(evt, "user referrer replaced",
			zap.String("user", string(payload.User)),
			zap.String("previous_referrer", string(record.Referrer)),
		)
	}
	record.Referrer = payload.Referrer
	if err := a.saveUser(ctx, record); err != nil {
		return err
	}

	referrer, found, err := a.loadUser(ctx, payload.Referrer)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("referrer", string(payload.Referrer)))
		return nil
	}
	referrer.ReferralCount++
	if err := a.saveUser(ctx, referrer); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.Referrer,
		message:     notify.MessageUserReferred,
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}

func (a Applier) applyOrganizerStatusUpdated(ctx context.Context, evt domain.Event, payload domain.OrganizerStatusUpdatedPayload) error {
	record, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	record.IsOrganizer = payload.IsOrganizer
	if err := a.saveUser(ctx, record); err != nil {
		return err
	}
	msg := notify.MessageOrganizerRevoked
	if payload.IsOrganizer {
		msg = notify.MessageOrganizerGranted
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     msg,
		related:     string(payload.User),
		relatedKind: storage.KindUser,
	})
}
