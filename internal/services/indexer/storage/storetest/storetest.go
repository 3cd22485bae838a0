// Package storetest holds behavior checks every storage.Store must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

// Run exercises open() against the store contract. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("get missing returns not found", func(t *testing.T) {
		store := open(t)
		_, err := store.Get(context.Background(), storage.KindUser, "0x1")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("atomic reads its own writes", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.Put(ctx, storage.KindUser, "0x1", []byte(`{"metadata":"a"}`)); err != nil {
				return err
			}
			body, err := tx.Get(ctx, storage.KindUser, "0x1")
			if err != nil {
				return err
			}
			if string(body) != `{"metadata":"a"}` {
				return fmt.Errorf("read-your-write body = %s", body)
			}
			return tx.Put(ctx, storage.KindUser, "0x1", []byte(`{"metadata":"b"}`))
		})
		if err != nil {
			t.Fatalf("atomic: %v", err)
		}
		body, err := store.Get(ctx, storage.KindUser, "0x1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(body) != `{"metadata":"b"}` {
			t.Fatalf("committed body = %s", body)
		}
	})

	t.Run("failed unit commits nothing", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		boom := errors.New("boom")
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.Put(ctx, storage.KindEvent, "7", []byte(`{}`)); err != nil {
				return err
			}
			if err := tx.SaveCheckpoint(ctx, storage.Checkpoint{Name: "projection", Position: domain.Position{Block: 9}}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error, got %v", err)
		}
		if _, err := store.Get(ctx, storage.KindEvent, "7"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected rollback of entity, got %v", err)
		}
		if _, err := store.Checkpoint(ctx, "projection"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected rollback of checkpoint, got %v", err)
		}
	})

	t.Run("delete removes entity", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		put(t, store, storage.KindMembership, "a||b", `{"deleted":false}`)
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.Delete(ctx, storage.KindMembership, "a||b"); err != nil {
				return err
			}
			if _, err := tx.Get(ctx, storage.KindMembership, "a||b"); !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("expected deleted entity to be hidden, got %v", err)
			}
			return tx.Delete(ctx, storage.KindMembership, "missing")
		})
		if err != nil {
			t.Fatalf("atomic: %v", err)
		}
		if _, err := store.Get(ctx, storage.KindMembership, "a||b"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected deleted entity, got %v", err)
		}
	})

	t.Run("kinds do not collide", func(t *testing.T) {
		store := open(t)
		put(t, store, storage.KindUpdate, "0xab||1||event_update", `{"kind":"update"}`)
		put(t, store, storage.KindNotification, "0xab||1||event_update", `{"kind":"notification"}`)
		body, err := store.Get(context.Background(), storage.KindUpdate, "0xab||1||event_update")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(body) != `{"kind":"update"}` {
			t.Fatalf("update body = %s", body)
		}
	})

	t.Run("list pages in id order", func(t *testing.T) {
		store := open(t)
		for _, id := range []string{"3", "1", "2"} {
			put(t, store, storage.KindEvent, id, `{"id":"`+id+`"}`)
		}
		put(t, store, storage.KindUser, "0", `{}`)

		page, err := store.List(context.Background(), storage.KindEvent, "", 2)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Documents) != 2 || page.Documents[0].ID != "1" || page.Documents[1].ID != "2" {
			t.Fatalf("first page = %+v", page.Documents)
		}
		if page.NextAfterID != "2" {
			t.Fatalf("next after id = %q, want 2", page.NextAfterID)
		}
		page, err = store.List(context.Background(), storage.KindEvent, page.NextAfterID, 2)
		if err != nil {
			t.Fatalf("list second page: %v", err)
		}
		if len(page.Documents) != 1 || page.Documents[0].ID != "3" || page.NextAfterID != "" {
			t.Fatalf("second page = %+v next=%q", page.Documents, page.NextAfterID)
		}
	})

	t.Run("checkpoint round trip", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		want := storage.Checkpoint{
			Name:      "projection",
			Position:  domain.Position{Block: 12, TxIndex: 3, LogIndex: 4},
			TxHash:    "0xfeed",
			RunID:     "01HZY",
			UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.SaveCheckpoint(ctx, want) }); err != nil {
			t.Fatalf("save checkpoint: %v", err)
		}
		got, err := store.Checkpoint(ctx, "projection")
		if err != nil {
			t.Fatalf("checkpoint: %v", err)
		}
		if got.Position != want.Position || got.TxHash != want.TxHash || got.RunID != want.RunID || !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Fatalf("checkpoint = %+v, want %+v", got, want)
		}
	})
}

func put(t *testing.T, store storage.Store, kind storage.Kind, id, body string) {
	t.Helper()
	ctx := context.Background()
	if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.Put(ctx, kind, id, []byte(body)) }); err != nil {
		t.Fatalf("put %s/%s: %v", kind, id, err)
	}
}
