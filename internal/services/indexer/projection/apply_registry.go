package projection

import (
	"context"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

func (a Applier) applyAddressUpdated(ctx context.Context, evt domain.Event, payload domain.AddressUpdatedPayload) error {
	id := domain.OccurrenceID(evt.Envelope, "address_updated")
	_, err := a.putIfAbsent(ctx, storage.KindAddressUpdated, id, storage.AddressUpdatedRecord{
		ID:             id,
		Key:            payload.Key,
		OldAddress:     payload.OldAddress,
		NewAddress:     payload.NewAddress,
		BlockNumber:    evt.Envelope.BlockNumber,
		BlockTimestamp: evt.Envelope.BlockTimestamp,
		TxHash:         evt.Envelope.TxHash,
	})
	return err
}

func (a Applier) applyAppIDUpdated(ctx context.Context, evt domain.Event, payload domain.AppIDUpdatedPayload) error {
	id := domain.OccurrenceID(evt.Envelope, "app_id_updated")
	_, err := a.putIfAbsent(ctx, storage.KindAppIDUpdated, id, storage.AppIDUpdatedRecord{
		ID:             id,
		OldAppID:       payload.OldAppID,
		NewAppID:       payload.NewAppID,
		BlockNumber:    evt.Envelope.BlockNumber,
		BlockTimestamp: evt.Envelope.BlockTimestamp,
		TxHash:         evt.Envelope.TxHash,
	})
	return err
}

func (a Applier) applyRewardsPoolUpdated(ctx context.Context, evt domain.Event, payload domain.RewardsPoolUpdatedPayload) error {
	id := domain.OccurrenceID(evt.Envelope, "rewards_pool_updated")
	_, err := a.putIfAbsent(ctx, storage.KindRewardsPoolUpdated, id, storage.RewardsPoolUpdatedRecord{
		ID:             id,
		OldPool:        payload.OldPool,
		NewPool:        payload.NewPool,
		BlockNumber:    evt.Envelope.BlockNumber,
		BlockTimestamp: evt.Envelope.BlockTimestamp,
		TxHash:         evt.Envelope.TxHash,
	})
	return err
}
