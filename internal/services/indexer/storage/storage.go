// Package storage defines the entity store contract the projectors write
// through and the records it holds.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// ErrNotFound indicates a requested entity is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Kind names an entity collection.
type Kind string

const (
	KindUser               Kind = "user"
	KindEvent              Kind = "event"
	KindEventContract      Kind = "event_contract"
	KindParticipant        Kind = "participant"
	KindProofOfWork        Kind = "proof_of_work"
	KindUpdate             Kind = "event_update"
	KindTransaction        Kind = "transaction"
	KindSubmission         Kind = "streak_submission"
	KindStreakStats        Kind = "user_streak_stats"
	KindMembership         Kind = "team_membership"
	KindPassport           Kind = "native_passport"
	KindNotification       Kind = "notification"
	KindAddressUpdated     Kind = "address_updated"
	KindAppIDUpdated       Kind = "app_id_updated"
	KindRewardsPoolUpdated Kind = "rewards_pool_updated"
)

// Getter reads one entity body.
type Getter interface {
	// Get returns the stored body or ErrNotFound.
	Get(ctx context.Context, kind Kind, id string) ([]byte, error)
}

// Tx is the view of the store scoped to one event. Reads observe the
// transaction's own writes. Nothing is visible to other readers until commit.
type Tx interface {
	Getter
	// Put inserts or replaces the entity body.
	Put(ctx context.Context, kind Kind, id string, body []byte) error
	// Delete removes the entity. Deleting a missing entity is not an error.
	Delete(ctx context.Context, kind Kind, id string) error
	// SaveCheckpoint records the position reached, committed with the writes.
	SaveCheckpoint(ctx context.Context, checkpoint Checkpoint) error
}

// Store owns every entity. Atomic groups the writes of one event.
type Store interface {
	Getter
	// List returns up to limit entities of kind with id greater than afterID,
	// ordered by id.
	List(ctx context.Context, kind Kind, afterID string, limit int) (Page, error)
	// Checkpoint returns the named checkpoint or ErrNotFound.
	Checkpoint(ctx context.Context, name string) (Checkpoint, error)
	// Atomic runs fn in a unit that commits only when fn returns nil.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Document is one raw entity returned by List.
type Document struct {
	ID   string
	Body []byte
}

// Page is a page of documents. NextAfterID is empty on the last page.
type Page struct {
	Documents   []Document
	NextAfterID string
}

// Checkpoint is the last event position applied by a named projection.
type Checkpoint struct {
	Name     string
	Position domain.Position
	TxHash   string
	// RunID identifies the ingestion run that wrote the checkpoint.
	RunID     string
	UpdatedAt time.Time
}

// List page sizes.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// ClampPageSize applies the default and maximum page sizes.
func ClampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Load decodes the entity at kind/id. found is false when it does not exist.
func Load[T any](ctx context.Context, g Getter, kind Kind, id string) (value T, found bool, err error) {
	body, err := g.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	if err := json.Unmarshal(body, &value); err != nil {
		return value, false, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	return value, true, nil
}

// Save encodes and upserts the entity at kind/id.
func Save(ctx context.Context, tx Tx, kind Kind, id string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	if err := tx.Put(ctx, kind, id, body); err != nil {
		return fmt.Errorf("put %s %s: %w", kind, id, err)
	}
	return nil
}

// Exists reports whether kind/id is stored.
func Exists(ctx context.Context, g Getter, kind Kind, id string) (bool, error) {
	_, err := g.Get(ctx, kind, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get %s %s: %w", kind, id, err)
}
