package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/memory"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	alice     = domain.Address("0x00000000000000000000000000000000000000a1")
	bob       = domain.Address("0x00000000000000000000000000000000000000b2")
	carol     = domain.Address("0x00000000000000000000000000000000000000c3")
	organizer = domain.Address("0x00000000000000000000000000000000000000f0")
)

type recordingObserver struct {
	applied []domain.Type
	skipped []string
	failed  []error
}

func (o *recordingObserver) EventApplied(evt domain.Event, _ time.Duration) {
	o.applied = append(o.applied, evt.Type)
}

func (o *recordingObserver) EventSkipped(_ domain.Event, reason string) {
	o.skipped = append(o.skipped, reason)
}

func (o *recordingObserver) EventFailed(_ domain.Event, err error) {
	o.failed = append(o.failed, err)
}

type harness struct {
	t        *testing.T
	store    *memory.Store
	engine   *Engine
	reader   storage.Reader
	logs     *observer.ObservedLogs
	observer *recordingObserver
	block    uint64
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, EngineConfig{})
}

func newHarnessWith(t *testing.T, cfg EngineConfig) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	store := memory.New()
	rec := &recordingObserver{}
	cfg.RunID = "run-test"
	cfg.Logger = zap.New(core)
	cfg.Observer = rec
	cfg.Now = func() time.Time { return time.Unix(1700000000, 0) }
	engine, err := NewEngine(store, cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return &harness{
		t:        t,
		store:    store,
		engine:   engine,
		reader:   storage.NewReader(store),
		logs:     logs,
		observer: rec,
	}
}

// next builds the next event in chain order with block time ts.
func (h *harness) next(typ domain.Type, ts int64, payload any) domain.Event {
	h.t.Helper()
	h.block++
	return makeEvent(h.t, typ, envelopeAt(h.block, ts), payload)
}

// emit builds and applies the next event.
func (h *harness) emit(typ domain.Type, ts int64, payload any) domain.Event {
	h.t.Helper()
	evt := h.next(typ, ts, payload)
	h.apply(evt)
	return evt
}

func (h *harness) apply(events ...domain.Event) {
	h.t.Helper()
	for _, evt := range events {
		if err := h.engine.Apply(context.Background(), evt); err != nil {
			h.t.Fatalf("apply %s: %v", evt.Type, err)
		}
	}
}

func envelopeAt(block uint64, ts int64) domain.Envelope {
	return domain.Envelope{
		TxHash:         fmt.Sprintf("0x%064x", block),
		TxIndex:        0,
		LogIndex:       1,
		BlockNumber:    block,
		BlockTimestamp: ts,
	}
}

func makeEvent(t *testing.T, typ domain.Type, env domain.Envelope, payload any) domain.Event {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode %s payload: %v", typ, err)
	}
	return domain.Event{Type: typ, Envelope: env, PayloadJSON: body}
}

func (h *harness) user(addr domain.Address) storage.UserRecord {
	h.t.Helper()
	record, err := h.reader.User(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("get user %s: %v", addr, err)
	}
	return record
}

func (h *harness) event(id string) storage.EventRecord {
	h.t.Helper()
	record, err := h.reader.Event(context.Background(), id)
	if err != nil {
		h.t.Fatalf("get event %s: %v", id, err)
	}
	return record
}

func (h *harness) participant(eventID string, addr domain.Address) storage.ParticipantRecord {
	h.t.Helper()
	record, err := h.reader.Participant(context.Background(), eventID, addr)
	if err != nil {
		h.t.Fatalf("get participant %s/%s: %v", eventID, addr, err)
	}
	return record
}

func (h *harness) submission(id string) storage.SubmissionRecord {
	h.t.Helper()
	record, err := h.reader.Submission(context.Background(), id)
	if err != nil {
		h.t.Fatalf("get submission %s: %v", id, err)
	}
	return record
}

func (h *harness) stats(addr domain.Address) storage.StreakStatsRecord {
	h.t.Helper()
	record, err := h.reader.StreakStats(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("get stats %s: %v", addr, err)
	}
	return record
}

func (h *harness) membership(org, member domain.Address) (storage.MembershipRecord, bool) {
	h.t.Helper()
	record, err := h.reader.Membership(context.Background(), org, member)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.MembershipRecord{}, false
	}
	if err != nil {
		h.t.Fatalf("get membership: %v", err)
	}
	return record, true
}

// notification returns the notification evt addressed to user with kind.
func (h *harness) notification(evt domain.Event, kind string, user domain.Address) (storage.NotificationRecord, bool) {
	h.t.Helper()
	id := domain.OccurrenceID(evt.Envelope, "notification:"+kind+":"+string(user))
	record, err := h.reader.Notification(context.Background(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.NotificationRecord{}, false
	}
	if err != nil {
		h.t.Fatalf("get notification: %v", err)
	}
	return record, true
}

func (h *harness) skippedWith(reason string) int {
	return h.logs.FilterMessage("projection skipped").FilterField(zap.String("reason", reason)).Len()
}

func amount(n uint64) domain.BigUint {
	return domain.NewBigUint(n)
}

func registerUser(h *harness, addr domain.Address, ts int64) domain.Event {
	h.t.Helper()
	return h.emit(domain.TypeUserRegistered, ts, domain.UserRegisteredPayload{User: addr, Metadata: "ipfs://" + string(addr)})
}

func createEvent(h *harness, id uint64, ts int64, mutate func(*domain.EventCreatedPayload)) domain.Event {
	h.t.Helper()
	payload := domain.EventCreatedPayload{
		EventID:   amount(id),
		Organizer: organizer,
		Metadata:  "ipfs://event",
		Location:  "Beach",
		StartTime: 100,
		EndTime:   200,
	}
	if mutate != nil {
		mutate(&payload)
	}
	return h.emit(domain.TypeEventCreated, ts, payload)
}
