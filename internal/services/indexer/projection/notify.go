package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

// notification describes one message addressed to a user.
type notification struct {
	user      domain.Address
	message   notify.Message
	titleArgs []any
	args      []any
	// related points at the record the notification is about.
	related     string
	relatedKind storage.Kind
}

// notificationID is unique per event occurrence, kind and recipient.
func notificationID(env domain.Envelope, kind notify.Kind, user domain.Address) string {
	return domain.OccurrenceID(env, "notification:"+string(kind)+":"+string(user))
}

// emit appends a notification. Notifications are never rewritten, so a
// replayed event leaves the stored one untouched. Zero recipients are dropped.
func (a Applier) emit(ctx context.Context, evt domain.Event, n notification) error {
	if n.user.IsZero() {
		return nil
	}
	content, err := a.Notify.Render(n.message, n.titleArgs, n.args...)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}
	id := notificationID(evt.Envelope, content.Kind, n.user)
	record := storage.NotificationRecord{
		ID:                id,
		User:              n.user,
		Type:              string(content.Kind),
		Title:             content.Title,
		Message:           content.Message,
		RelatedEntity:     n.related,
		RelatedEntityType: string(n.relatedKind),
		CreatedAt:         evt.Envelope.BlockTimestamp,
		BlockNumber:       evt.Envelope.BlockNumber,
		TxHash:            evt.Envelope.TxHash,
	}
	if _, err := a.putIfAbsent(ctx, storage.KindNotification, id, record); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}
