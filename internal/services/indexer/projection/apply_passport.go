package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// applyPassportStatusUpdated stores the passport decision and mirrors it on
// the user's KYC status.
func (a Applier) applyPassportStatusUpdated(ctx context.Context, evt domain.Event, payload domain.PassportStatusUpdatedPayload) error {
	user, found, err := a.loadUser(ctx, payload.User)
	if err != nil {
		return err
	}
	if !found {
		a.skip(evt, skipMissingUser, zap.String("user", string(payload.User)))
		return nil
	}
	status := domain.KYCStatusFromCode(payload.Status)
	if status == domain.KYCUnknown {
		a.warn(evt, "unknown passport status code", zap.Int64("code", payload.Status))
	}

	id := string(payload.User)
	passport := storage.PassportRecord{
		User:         payload.User,
		Status:       status,
		Reason:       payload.Reason,
		DocumentType: payload.DocumentType,
		UpdatedAt:    evt.Envelope.BlockTimestamp,
		BlockNumber:  evt.Envelope.BlockNumber,
		TxHash:       evt.Envelope.TxHash,
	}
	if err := storage.Save(ctx, a.Tx, storage.KindPassport, id, passport); err != nil {
		return err
	}
	user.PassportID = id
	user.KYCStatus = status
	if err := a.saveUser(ctx, user); err != nil {
		return err
	}
	return a.emit(ctx, evt, notification{
		user:        payload.User,
		message:     notify.MessageKYCStatusUpdated,
		args:        []any{status.String()},
		related:     id,
		relatedKind: storage.KindPassport,
	})
}
