package projection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/notify"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultCheckpointName names the checkpoint of the CleanMate projection.
const DefaultCheckpointName = "cleanmate"

const tracerName = "github.com/louisbranch/cleanmate.space/internal/services/indexer/projection"

// Observer receives the outcome of every applied event.
type Observer interface {
	// EventApplied is called after the event's unit commits.
	EventApplied(evt domain.Event, elapsed time.Duration)
	// EventSkipped is called after a committed event whose projector ignored it.
	EventSkipped(evt domain.Event, reason string)
	// EventFailed is called when the event's unit is rolled back.
	EventFailed(evt domain.Event, err error)
}

type nopObserver struct{}

func (nopObserver) EventApplied(domain.Event, time.Duration) {}
func (nopObserver) EventSkipped(domain.Event, string)        {}
func (nopObserver) EventFailed(domain.Event, error)          {}

// EngineConfig configures an Engine. Zero values select defaults.
type EngineConfig struct {
	// CheckpointName defaults to DefaultCheckpointName.
	CheckpointName string
	// RunID is stamped on every checkpoint written by this engine.
	RunID       string
	TeamRemoval TeamRemoval
	Logger      *zap.Logger
	Notify      *notify.Renderer
	Observer    Observer
	// Router defaults to DefaultRouter.
	Router *Router
	Now    func() time.Time
}

// Engine applies events one at a time, each in its own atomic unit together
// with the checkpoint.
type Engine struct {
	store      storage.Store
	router     *Router
	checkpoint string
	runID      string
	removal    TeamRemoval
	logger     *zap.Logger
	notify     *notify.Renderer
	observer   Observer
	tracer     trace.Tracer
	now        func() time.Time
}

// NewEngine builds an engine writing to store.
func NewEngine(store storage.Store, cfg EngineConfig) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("entity store is required")
	}
	removal, err := ParseTeamRemoval(string(cfg.TeamRemoval))
	if err != nil {
		return nil, err
	}
	e := &Engine{
		store:      store,
		router:     cfg.Router,
		checkpoint: strings.TrimSpace(cfg.CheckpointName),
		runID:      cfg.RunID,
		removal:    removal,
		logger:     cfg.Logger,
		notify:     cfg.Notify,
		observer:   cfg.Observer,
		tracer:     otel.Tracer(tracerName),
		now:        cfg.Now,
	}
	if e.router == nil {
		e.router = DefaultRouter()
	}
	if e.checkpoint == "" {
		e.checkpoint = DefaultCheckpointName
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.notify == nil {
		e.notify = notify.NewRenderer(notify.BaseLanguage)
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// CheckpointName returns the name the engine saves its position under.
func (e *Engine) CheckpointName() string {
	return e.checkpoint
}

// Checkpoint returns the last committed position. found is false before the
// first event is applied.
func (e *Engine) Checkpoint(ctx context.Context) (checkpoint storage.Checkpoint, found bool, err error) {
	checkpoint, err = e.store.Checkpoint(ctx, e.checkpoint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Checkpoint{}, false, nil
		}
		return storage.Checkpoint{}, false, fmt.Errorf("load checkpoint: %w", err)
	}
	return checkpoint, true, nil
}

// Apply projects evt. Either every write of the event and the checkpoint
// commit, or none do.
func (e *Engine) Apply(ctx context.Context, evt domain.Event) error {
	if !evt.Type.IsValid() {
		return apperrors.New(apperrors.CodeInvalidEnvelope, "event type is required")
	}
	if err := evt.Envelope.Validate(); err != nil {
		return err
	}
	position := evt.Envelope.Position()

	ctx, span := e.tracer.Start(ctx, "projection.apply", trace.WithAttributes(
		attribute.String("event.type", string(evt.Type)),
		attribute.String("tx.hash", evt.Envelope.TxHash),
		attribute.Int64("block.number", int64(position.Block)),
		attribute.Int("log.index", int(position.LogIndex)),
	))
	defer span.End()

	logger := e.logger
	if sc := span.SpanContext(); sc.IsValid() {
		logger = logger.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	start := e.now()
	var skipped []string
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		skipped = skipped[:0]
		a := Applier{
			Tx:          tx,
			Logger:      logger,
			Notify:      e.notify,
			TeamRemoval: e.removal,
			OnSkip:      func(reason string) { skipped = append(skipped, reason) },
		}
		if err := e.router.Route(a, ctx, evt); err != nil {
			return err
		}
		return tx.SaveCheckpoint(ctx, storage.Checkpoint{
			Name:      e.checkpoint,
			Position:  position,
			TxHash:    evt.Envelope.TxHash,
			RunID:     e.runID,
			UpdatedAt: e.now().UTC(),
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.observer.EventFailed(evt, err)
		logger.Error("projection failed",
			zap.String("event_type", string(evt.Type)),
			zap.Stringer("position", position),
			zap.Error(err),
		)
		return fmt.Errorf("apply %s at %s: %w", evt.Type, position, err)
	}

	if len(skipped) > 0 {
		span.SetAttributes(attribute.String("projection.skipped", skipped[0]))
		e.observer.EventSkipped(evt, skipped[0])
		return nil
	}
	e.observer.EventApplied(evt, e.now().Sub(start))
	return nil
}
