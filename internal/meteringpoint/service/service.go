// Package service orchestrates the metering point registry: it parses
// requests, loads aggregates, runs domain operations inside one transaction
// and hands raised events to the outbox.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/metrics"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/ports"
	"datahub/pkg/requestcontext"
)

const tracerName = "datahub/internal/meteringpoint/service"

// Operation names used for spans, metrics and logs.
const (
	opCreate              = "create"
	opCreateExchange      = "create_exchange"
	opConnect             = "connect"
	opDisconnect          = "disconnect"
	opReconnect           = "reconnect"
	opCloseDown           = "close_down"
	opChangeMasterData    = "change_master_data"
	opChangeAddress       = "change_address"
	opChangeConfiguration = "change_metering_configuration"
	opSetEnergySupplier   = "set_energy_supplier"
	opGet                 = "get"
	opValidateMasterData  = "validate_master_data"
)

// Result is the outcome of a mutating operation. Events is empty when the
// operation was a no-op.
type Result struct {
	MeteringPoint *meteringpoint.MeteringPoint
	Events        []meteringpoint.Event
}

// Service is the application service of the registry.
type Service struct {
	tx        ports.TxRunner
	validator masterdata.Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithValidator replaces the cross-field master data validator.
func WithValidator(v masterdata.Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service.
func New(tx ports.TxRunner, opts ...Option) *Service {
	s := &Service{
		tx:        tx,
		validator: masterdata.NewValidator(),
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutation loads the metering point named by gsrn and applies op to it. The
// returned events are persisted together with the aggregate; no events
// means nothing is written.
type mutation func(store ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error)

func (s *Service) mutate(ctx context.Context, operation, rawGsrn string, op mutation) (*Result, error) {
	ctx, span := s.startSpan(ctx, operation, attribute.String("gsrn", rawGsrn))
	defer span.End()
	start := time.Now()

	var result *Result
	err := func() error {
		gsrn, err := models.ParseGsrn(rawGsrn)
		if err != nil {
			return err
		}
		return s.tx.RunInTx(ctx, func(store ports.Store) error {
			mp, err := store.MeteringPoints().FindByGSRN(ctx, gsrn)
			if err != nil {
				return err
			}
			events, err := op(store, mp)
			if err != nil {
				return err
			}
			if len(events) > 0 {
				if err := store.MeteringPoints().Update(ctx, mp); err != nil {
					return err
				}
				if err := store.Outbox().Append(ctx, events); err != nil {
					return err
				}
			}
			result = &Result{MeteringPoint: mp, Events: events}
			return nil
		})
	}()
	if err != nil {
		return nil, s.fail(ctx, span, operation, start, err)
	}
	s.succeed(ctx, span, operation, start, result)
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("operation", operation))
	return s.tracer.Start(ctx, "meteringpoint."+operation, trace.WithAttributes(attrs...))
}

func (s *Service) succeed(ctx context.Context, span trace.Span, operation string, start time.Time, r *Result) {
	outcome := metrics.OutcomeSuccess
	if len(r.Events) == 0 {
		outcome = metrics.OutcomeNoop
	}
	for _, e := range r.Events {
		s.metrics.IncrementEvent(e.EventName())
	}
	s.metrics.ObserveOperation(operation, outcome, start)
	span.SetAttributes(attribute.Int("events", len(r.Events)))

	s.logger.InfoContext(ctx, "metering point operation completed",
		"operation", operation,
		"gsrn", r.MeteringPoint.Gsrn().String(),
		"metering_point_id", r.MeteringPoint.ID().String(),
		"events", len(r.Events),
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", requestcontext.ActorID(ctx),
	)
}

// fail translates err, records it and returns the translated error.
func (s *Service) fail(ctx context.Context, span trace.Span, operation string, start time.Time, err error) error {
	translated := translate(err)
	outcome := outcomeOf(translated)
	s.metrics.ObserveOperation(operation, outcome, start)
	for _, v := range violationsOf(translated) {
		s.metrics.IncrementViolation(string(v.Code))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)

	attrs := []any{
		"operation", operation,
		"outcome", outcome,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", requestcontext.ActorID(ctx),
	}
	if outcome == metrics.OutcomeError {
		s.logger.ErrorContext(ctx, "metering point operation failed", attrs...)
	} else {
		s.logger.WarnContext(ctx, "metering point operation rejected", attrs...)
	}
	return translated
}

func effectiveOf(d shared.EffectiveDate) meteringpoint.ConnectionDetails {
	return meteringpoint.ConnectionDetails{EffectiveDate: d}
}
