package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/storetest"
)

const dsnEnv = "CLEANMATE_INDEXER_TEST_POSTGRES_DSN"

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestStoreConformance(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv(dsnEnv))
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	storetest.Run(t, func(t *testing.T) storage.Store {
		ctx := context.Background()
		store, err := Open(ctx, dsn)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		// Each subtest starts from empty tables.
		if _, err := store.DB().ExecContext(ctx, "TRUNCATE entities, checkpoints"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}
