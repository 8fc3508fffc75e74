package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "datahub/pkg/domain"
	"datahub/pkg/requestcontext"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/metrics"
)

const (
	gsrn      = "571234567891234568"
	connectOn = "2024-01-15T23:00:00Z"
)

func connected(mpID id.MeteringPointID) meteringpoint.Event {
	return meteringpoint.MeteringPointConnected{
		Header: meteringpoint.Header{
			MeteringPointID: mpID,
			GsrnNumber:      shared.MustGsrnNumber(gsrn),
		},
		EffectiveDate: shared.MustEffectiveDate(connectOn),
	}
}

func TestNewEnvelope(t *testing.T) {
	mpID := id.NewMeteringPointID()
	occurred := time.Date(2024, 1, 16, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	env, err := NewEnvelope(connected(mpID), occurred)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, env.ID)
	assert.Equal(t, meteringpoint.EventMeteringPointConnected, env.EventType)
	assert.Equal(t, mpID.String(), env.AggregateID)
	assert.Equal(t, gsrn, env.GsrnNumber)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())

	var payload map[string]string
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, connectOn, payload["effective_date"])

	decoded, err := decodeEnvelope(envelopeJSON(env))
	require.NoError(t, err)
	assert.Equal(t, env.ID, decoded.ID)
	assert.JSONEq(t, string(env.Payload), string(decoded.Payload))
}

type unknownEvent struct{ meteringpoint.Header }

func (unknownEvent) EventName() string { return "Unknown" }

func TestNewEnvelopeRejectsUnknownEvents(t *testing.T) {
	_, err := NewEnvelope(unknownEvent{}, time.Now())
	assert.Error(t, err)
}

func TestMemoryOutbox(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC))
	m := NewMemory()
	mpID := id.NewMeteringPointID()
	require.NoError(t, m.Append(ctx, []meteringpoint.Event{connected(mpID), connected(mpID), connected(mpID)}))

	pending, err := m.Pending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), pending[0].OccurredAt)

	require.NoError(t, m.MarkPublished(ctx, []uuid.UUID{pending[0].ID, pending[1].ID}))
	rest, err := m.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Len(t, m.All(), 3)
}

type recordingPublisher struct {
	batches [][]Envelope
	fail    error
}

func (p *recordingPublisher) Publish(_ context.Context, envs []Envelope) error {
	if p.fail != nil {
		return p.fail
	}
	p.batches = append(p.batches, envs)
	return nil
}

type WorkerSuite struct {
	suite.Suite
	ctx       context.Context
	source    *Memory
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	worker    *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = NewMemory()
	s.publisher = &recordingPublisher{}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.worker = NewWorker(s.source, s.publisher,
		WithBatchSize(2),
		WithInterval(10*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	mpID := id.NewMeteringPointID()
	s.Require().NoError(s.source.Append(s.ctx, []meteringpoint.Event{connected(mpID), connected(mpID), connected(mpID)}))
}

func (s *WorkerSuite) TestDrainPublishesInBatches() {
	n, err := s.worker.Drain(s.ctx)

	s.Require().NoError(err)
	s.Equal(3, n)
	s.Len(s.publisher.batches, 2)
	s.Len(s.publisher.batches[0], 2)
	pending, _ := s.source.Pending(s.ctx, 10)
	s.Empty(pending)
	s.Equal(3.0, testutil.ToFloat64(s.metrics.OutboxPublished))
}

func (s *WorkerSuite) TestFailedBatchStaysPending() {
	s.publisher.fail = errors.New("broker down")

	_, err := s.worker.RelayOnce(s.ctx)

	s.Error(err)
	pending, _ := s.source.Pending(s.ctx, 10)
	s.Len(pending, 3)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OutboxFailed))

	s.publisher.fail = nil
	n, err := s.worker.Drain(s.ctx)
	s.NoError(err)
	s.Equal(3, n)
}

func (s *WorkerSuite) TestRunStopsWithContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()

	s.Eventually(func() bool {
		pending, _ := s.source.Pending(s.ctx, 10)
		return len(pending) == 0
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
}

func TestLogPublisher(t *testing.T) {
	var logged []string
	p := LogPublisher{Log: func(_ context.Context, msg string, args ...any) {
		logged = append(logged, msg)
	}}
	env, err := NewEnvelope(connected(id.NewMeteringPointID()), time.Now())
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), []Envelope{env, env}))
	assert.Len(t, logged, 2)
}
