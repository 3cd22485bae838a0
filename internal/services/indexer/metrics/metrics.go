// Package metrics exports projection progress as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors records engine outcomes. It implements projection.Observer.
type Collectors struct {
	applied    *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	failed     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	checkpoint prometheus.Gauge
}

// New registers the indexer collectors with reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_events_applied_total",
				Help: "Events projected and committed.",
			},
			[]string{"event_type"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_events_skipped_total",
				Help: "Events committed without changes because a projector ignored them.",
			},
			[]string{"event_type", "reason"},
		),
		failed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_events_failed_total",
				Help: "Events whose atomic unit was rolled back.",
			},
			[]string{"event_type", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "indexer_event_apply_duration_seconds",
				Help:    "Time to project and commit one event.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),
		checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indexer_checkpoint_block",
			Help: "Block number of the last committed event.",
		}),
	}
	for _, collector := range []prometheus.Collector{c.applied, c.skipped, c.failed, c.duration, c.checkpoint} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EventApplied counts a committed event.
func (c *Collectors) EventApplied(evt domain.Event, elapsed time.Duration) {
	c.applied.WithLabelValues(string(evt.Type)).Inc()
	c.duration.WithLabelValues(string(evt.Type)).Observe(elapsed.Seconds())
	c.checkpoint.Set(float64(evt.Envelope.BlockNumber))
}

// EventSkipped counts a committed event that changed nothing.
func (c *Collectors) EventSkipped(evt domain.Event, reason string) {
	c.skipped.WithLabelValues(string(evt.Type), reason).Inc()
	c.checkpoint.Set(float64(evt.Envelope.BlockNumber))
}

// EventFailed counts a rolled back event by error code.
func (c *Collectors) EventFailed(evt domain.Event, err error) {
	c.failed.WithLabelValues(string(evt.Type), apperrors.CodeOf(err).Label()).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
