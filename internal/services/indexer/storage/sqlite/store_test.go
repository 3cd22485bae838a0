package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/storetest"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return openTempStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReopenKeepsEntitiesAndCheckpoint(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "indexer.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = store.Atomic(ctx, func(tx storage.Tx) error {
		if err := tx.Put(ctx, storage.KindUser, "0xabc", []byte(`{"id":"0xabc"}`)); err != nil {
			return err
		}
		return tx.SaveCheckpoint(ctx, storage.Checkpoint{
			Name:     "cleanmate",
			Position: domain.Position{Block: 12, TxIndex: 1, LogIndex: 3},
			TxHash:   "0xfeed",
			RunID:    "run-1",
		})
	})
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Migrations run again on reopen and must be a no-op.
	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	body, err := reopened.Get(ctx, storage.KindUser, "0xabc")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !strings.Contains(string(body), "0xabc") {
		t.Fatalf("body = %s", body)
	}
	checkpoint, err := reopened.Checkpoint(ctx, "cleanmate")
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if checkpoint.Position.Block != 12 || checkpoint.Position.LogIndex != 3 {
		t.Fatalf("position = %v", checkpoint.Position)
	}
	if checkpoint.RunID != "run-1" {
		t.Fatalf("run id = %q, want %q", checkpoint.RunID, "run-1")
	}
	if checkpoint.UpdatedAt.IsZero() {
		t.Fatal("expected updated at to be set")
	}
}

func openTempStore(t *testing.T) storage.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indexer.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
