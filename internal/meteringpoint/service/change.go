package service

import (
	"context"

	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/ports"
)

// ChangeMasterData overlays the supplied fields on the current master data.
// An unchanged result raises no event.
func (s *Service) ChangeMasterData(ctx context.Context, req *models.ChangeMasterDataRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.mutate(ctx, opChangeMasterData, req.GsrnNumber, func(_ ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error) {
		return mp.ChangeMasterData(s.validator, req.MasterData)
	})
}

// ChangeAddress replaces the supplied address parts as of the effective date.
func (s *Service) ChangeAddress(ctx context.Context, req *models.ChangeAddressRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.mutate(ctx, opChangeAddress, req.GsrnNumber, func(_ ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return mp.ChangeAddress(s.validator, req.Address, req.ParsedEffectiveDate())
	})
}

// ChangeMeteringConfiguration replaces metering method and meter together.
func (s *Service) ChangeMeteringConfiguration(ctx context.Context, req *models.ChangeMeteringConfigurationRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.mutate(ctx, opChangeConfiguration, req.GsrnNumber, func(_ ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return mp.ChangeMeteringConfiguration(s.validator, req.ParsedMethod(), req.MeterID, req.ParsedEffectiveDate())
	})
}
