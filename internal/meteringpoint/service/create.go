package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/platform/sentinel"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/ports"
)

// CreateMeteringPoint registers a new metering point of any type but
// Exchange. The GSRN must be unused and the grid area known.
func (s *Service) CreateMeteringPoint(ctx context.Context, req *models.CreateMeteringPointRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.create(ctx, opCreate, req.GsrnNumber, func(ctx context.Context, store ports.Store) (*meteringpoint.MeteringPoint, []meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, nil, err
		}
		md, areas, err := prepare(ctx, store, req.ParsedType(), req.MasterData,
			gridAreaRef{"grid_area_code", req.GridAreaCode})
		if err != nil {
			return nil, nil, err
		}
		if err := ensureUnused(ctx, store, req.ParsedGsrn()); err != nil {
			return nil, nil, err
		}
		return meteringpoint.Create(s.validator, meteringpoint.CreateParams{
			ID:             id.NewMeteringPointID(),
			GSRN:           req.ParsedGsrn(),
			Type:           req.ParsedType(),
			GridAreaLinkID: areas[0].LinkID,
			EffectiveDate:  md.EffectiveDate(),
			MasterData:     md,
		})
	})
}

// CreateExchangeMeteringPoint registers an exchange point measuring the flow
// between two grid areas.
func (s *Service) CreateExchangeMeteringPoint(ctx context.Context, req *models.CreateExchangeMeteringPointRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.create(ctx, opCreateExchange, req.GsrnNumber, func(ctx context.Context, store ports.Store) (*meteringpoint.MeteringPoint, []meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, nil, err
		}
		md, areas, err := prepare(ctx, store, catalog.TypeExchange, req.MasterData,
			gridAreaRef{"grid_area_code", req.GridAreaCode},
			gridAreaRef{"from_grid_area_code", req.FromGridAreaCode},
			gridAreaRef{"to_grid_area_code", req.ToGridAreaCode})
		if err != nil {
			return nil, nil, err
		}
		if err := ensureUnused(ctx, store, req.ParsedGsrn()); err != nil {
			return nil, nil, err
		}
		area, from, to := areas[0], areas[1], areas[2]
		return meteringpoint.CreateExchange(s.validator, meteringpoint.ExchangeParams{
			CreateParams: meteringpoint.CreateParams{
				ID:             id.NewMeteringPointID(),
				GSRN:           req.ParsedGsrn(),
				Type:           catalog.TypeExchange,
				GridAreaLinkID: area.LinkID,
				EffectiveDate:  md.EffectiveDate(),
				MasterData:     md,
			},
			From: from.LinkID,
			To:   to.LinkID,
		})
	})
}

type creation func(ctx context.Context, store ports.Store) (*meteringpoint.MeteringPoint, []meteringpoint.Event, error)

func (s *Service) create(ctx context.Context, operation, rawGsrn string, build creation) (*Result, error) {
	ctx, span := s.startSpan(ctx, operation, attribute.String("gsrn", rawGsrn))
	defer span.End()
	start := time.Now()

	var result *Result
	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		mp, events, err := build(ctx, store)
		if err != nil {
			return err
		}
		if err := store.MeteringPoints().Add(ctx, mp); err != nil {
			return err
		}
		if err := store.Outbox().Append(ctx, events); err != nil {
			return err
		}
		result = &Result{MeteringPoint: mp, Events: events}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, operation, start, err)
	}
	s.succeed(ctx, span, operation, start, result)
	return result, nil
}

type gridAreaRef struct {
	field string
	code  string
}

// prepare builds the master data and resolves the referenced grid areas.
// Builder violations and unknown grid areas are reported together as a
// failed creation; other lookup failures are returned as they are.
func prepare(ctx context.Context, store ports.Store, t catalog.MeteringPointType, in masterdata.Input, refs ...gridAreaRef) (masterdata.MasterData, []ports.GridArea, error) {
	md, r := masterdata.NewBuilder(t).Build(in)
	areas := make([]ports.GridArea, len(refs))
	for i, ref := range refs {
		area, err := store.GridAreas().FindByCode(ctx, ref.code)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			r = r.Merge(rules.Of(rules.Violation{
				Code:    models.CodeUnknownGridArea,
				Field:   ref.field,
				Message: "unknown grid area " + ref.code,
			}))
		case err != nil:
			return masterdata.MasterData{}, nil, err
		}
		areas[i] = area
	}
	if !r.Success() {
		return masterdata.MasterData{}, nil, rules.Broken(meteringpoint.ErrCannotCreate, r)
	}
	return md, areas, nil
}

func ensureUnused(ctx context.Context, store ports.Store, gsrn shared.GsrnNumber) error {
	_, err := store.MeteringPoints().FindByGSRN(ctx, gsrn)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeConflict, "gsrn number "+gsrn.String()+" is already registered")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	}
	return err
}
