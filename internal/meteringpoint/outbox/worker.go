package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"datahub/internal/meteringpoint/metrics"
)

// Source is where the worker reads pending envelopes from.
type Source interface {
	Pending(ctx context.Context, limit int) ([]Envelope, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher delivers envelopes to the message bus. Publish must not return
// before the batch is acknowledged.
type Publisher interface {
	Publish(ctx context.Context, envs []Envelope) error
}

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Worker relays pending outbox entries to a Publisher. A failed batch stays
// pending and is retried on the next tick.
type Worker struct {
	source    Source
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type WorkerOption func(*Worker)

func WithInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

func NewWorker(source Source, publisher Publisher, opts ...WorkerOption) *Worker {
	w := &Worker{
		source:    source,
		publisher: publisher,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// Drain relays batches until nothing is pending and returns how many
// envelopes were published.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := w.RelayOnce(ctx)
		total += n
		if err != nil || n < w.batchSize {
			return total, err
		}
	}
}

// RelayOnce publishes one batch.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	envs, err := w.source.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(envs) == 0 {
		return 0, nil
	}
	if err := w.publisher.Publish(ctx, envs); err != nil {
		w.metrics.ObserveOutboxBatch(len(envs), true)
		return 0, err
	}
	ids := make([]uuid.UUID, len(envs))
	for i, e := range envs {
		ids[i] = e.ID
	}
	if err := w.source.MarkPublished(ctx, ids); err != nil {
		// Published but not marked: the batch is sent again next time.
		w.metrics.ObserveOutboxBatch(len(envs), true)
		return 0, err
	}
	w.metrics.ObserveOutboxBatch(len(envs), false)
	w.logger.DebugContext(ctx, "outbox batch published", "count", len(envs))
	return len(envs), nil
}
