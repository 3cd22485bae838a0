package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"go.uber.org/zap"
)

// Engine applies one event and reports the last committed position.
type Engine interface {
	Apply(ctx context.Context, evt domain.Event) error
	Checkpoint(ctx context.Context) (storage.Checkpoint, bool, error)
}

// Config controls a Runner.
type Config struct {
	// RunID is logged with every run.
	RunID string
	// IgnoreCheckpoint replays events at or before the saved checkpoint.
	IgnoreCheckpoint bool
	// Network bounds ingestion to its start block when set.
	Network *Network
	Logger  *zap.Logger
}

// Summary counts what a run did.
type Summary struct {
	Applied int
	// Resumed counts events at or before the checkpoint that were not reapplied.
	Resumed int
	// BeforeStart counts events below the network start block.
	BeforeStart int
	Last        domain.Position
}

// Runner drains a Source into an Engine, halting on the first failed event.
type Runner struct {
	source Source
	engine Engine
	cfg    Config
	logger *zap.Logger
}

// NewRunner builds a runner reading from source.
func NewRunner(source Source, engine Engine, cfg Config) (*Runner, error) {
	if source == nil {
		return nil, fmt.Errorf("event source is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("projection engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{source: source, engine: engine, cfg: cfg, logger: logger.With(zap.String("run_id", cfg.RunID))}, nil
}

// Run applies events until the source is exhausted or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	var resumeAt domain.Position
	resume := false
	if !r.cfg.IgnoreCheckpoint {
		checkpoint, found, err := r.engine.Checkpoint(ctx)
		if err != nil {
			return summary, err
		}
		if found {
			resumeAt, resume = checkpoint.Position, true
			r.logger.Info("resuming from checkpoint",
				zap.Stringer("position", checkpoint.Position),
				zap.String("previous_run_id", checkpoint.RunID),
			)
		}
	}
	var startBlock uint64
	if r.cfg.Network != nil {
		startBlock = r.cfg.Network.StartBlock()
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		evt, err := r.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read event: %w", err)
		}

		position := evt.Envelope.Position()
		if evt.Envelope.BlockNumber < startBlock {
			summary.BeforeStart++
			continue
		}
		if resume && position.Compare(resumeAt) <= 0 {
			summary.Resumed++
			continue
		}
		if err := r.engine.Apply(ctx, evt); err != nil {
			r.logger.Error("ingestion halted", r.eventFields(evt, zap.Error(err))...)
			return summary, err
		}
		summary.Applied++
		summary.Last = position
	}

	r.logger.Info("ingestion finished",
		zap.Int("applied", summary.Applied),
		zap.Int("resumed", summary.Resumed),
		zap.Int("before_start", summary.BeforeStart),
		zap.Stringer("last_position", summary.Last),
	)
	return summary, nil
}

func (r *Runner) eventFields(evt domain.Event, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("event_type", string(evt.Type)),
		zap.Stringer("position", evt.Envelope.Position()),
		zap.String("tx_hash", evt.Envelope.TxHash),
	}
	if r.cfg.Network != nil && !evt.Envelope.Contract.IsZero() {
		if name, ok := r.cfg.Network.ContractName(evt.Envelope.Contract); ok {
			fields = append(fields, zap.String("data_source", name))
		}
	}
	return append(fields, extra...)
}
