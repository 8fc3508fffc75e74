package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/metrics"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/ports"
)

// GetByGSRN loads one metering point.
func (s *Service) GetByGSRN(ctx context.Context, rawGsrn string) (*meteringpoint.MeteringPoint, error) {
	ctx, span := s.startSpan(ctx, opGet, attribute.String("gsrn", rawGsrn))
	defer span.End()
	start := time.Now()

	gsrn, err := models.ParseGsrn(rawGsrn)
	if err != nil {
		return nil, s.fail(ctx, span, opGet, start, err)
	}
	var mp *meteringpoint.MeteringPoint
	err = s.tx.RunInTx(ctx, func(store ports.Store) error {
		found, err := store.MeteringPoints().FindByGSRN(ctx, gsrn)
		mp = found
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, span, opGet, start, err)
	}
	s.metrics.ObserveOperation(opGet, metrics.OutcomeSuccess, start)
	return mp, nil
}

// ValidateMasterData runs the builder and the cross-field validator without
// persisting anything. Broken rules are the result, not an error; the error
// is reserved for requests that cannot be evaluated at all.
func (s *Service) ValidateMasterData(ctx context.Context, req *models.ValidateMasterDataRequest) (rules.Result, error) {
	ctx, span := s.startSpan(ctx, opValidateMasterData)
	defer span.End()
	start := time.Now()

	if req == nil {
		return rules.Result{}, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return rules.Result{}, s.fail(ctx, span, opValidateMasterData, start, err)
	}
	md, r := masterdata.NewBuilder(req.ParsedType()).Build(req.MasterData)
	if r.Success() {
		r = s.validator.Validate(req.ParsedType(), md)
	}

	outcome := metrics.OutcomeSuccess
	if !r.Success() {
		outcome = metrics.OutcomeRejected
		span.SetStatus(codes.Error, outcome)
	}
	span.SetAttributes(attribute.Int("violations", r.Len()))
	s.metrics.ObserveOperation(opValidateMasterData, outcome, start)
	s.logger.DebugContext(ctx, "master data validated",
		"type", req.ParsedType().Name(),
		"violations", r.Len(),
	)
	return r, nil
}
