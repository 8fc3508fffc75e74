package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of OperationsTotal.
const (
	OutcomeSuccess  = "success"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics provides observability for the metering point registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ViolationsTotal   *prometheus.CounterVec
	EventsRaised      *prometheus.CounterVec
	OutboxPublished   prometheus.Counter
	OutboxFailed      prometheus.Counter
	OutboxBatchSize   prometheus.Histogram
}

// New registers the metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "datahub_metering_point_operations_total",
			Help: "Metering point operations by outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "datahub_metering_point_operation_duration_seconds",
			Help:    "Duration of metering point operations including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		ViolationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "datahub_business_rule_violations_total",
			Help: "Broken business rules reported to callers, by rule code",
		}, []string{"code"}),
		EventsRaised: f.NewCounterVec(prometheus.CounterOpts{
			Name: "datahub_metering_point_events_total",
			Help: "Domain events written to the outbox, by event type",
		}, []string{"event"}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "datahub_outbox_published_total",
			Help: "Outbox entries published to the message bus",
		}),
		OutboxFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "datahub_outbox_publish_failures_total",
			Help: "Outbox relay attempts that failed",
		}),
		OutboxBatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "datahub_outbox_batch_size",
			Help:    "Entries relayed per outbox batch",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// ObserveOperation records one finished operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementViolation(code string) {
	if m == nil {
		return
	}
	m.ViolationsTotal.WithLabelValues(code).Inc()
}

func (m *Metrics) IncrementEvent(name string) {
	if m == nil {
		return
	}
	m.EventsRaised.WithLabelValues(name).Inc()
}

// ObserveOutboxBatch records a relayed batch. failed marks a batch that could
// not be published and stays pending.
func (m *Metrics) ObserveOutboxBatch(size int, failed bool) {
	if m == nil {
		return
	}
	m.OutboxBatchSize.Observe(float64(size))
	if failed {
		m.OutboxFailed.Inc()
		return
	}
	m.OutboxPublished.Add(float64(size))
}
