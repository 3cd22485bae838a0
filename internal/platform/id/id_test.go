package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewRunIDFormat(t *testing.T) {
	runID := NewRunID()
	if len(runID) != ulid.EncodedSize {
		t.Fatalf("expected %d-character id, got %d", ulid.EncodedSize, len(runID))
	}
	if _, err := ulid.ParseStrict(runID); err != nil {
		t.Fatalf("parse id: %v", err)
	}
}

func TestNewRunIDIsMonotonic(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	first := newRunID(now)
	second := newRunID(now)
	if second <= first {
		t.Fatalf("expected %q to sort after %q", second, first)
	}
	parsed, err := ulid.ParseStrict(first)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	if parsed.Time() != uint64(now.UnixMilli()) {
		t.Fatalf("timestamp = %d, want %d", parsed.Time(), now.UnixMilli())
	}
}
