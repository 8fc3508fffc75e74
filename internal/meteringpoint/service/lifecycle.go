package service

import (
	"context"

	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/ports"
)

// ConnectMeteringPoint moves a new metering point to Connected.
func (s *Service) ConnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*Result, error) {
	return s.transition(ctx, opConnect, req, func(mp *meteringpoint.MeteringPoint, d meteringpoint.ConnectionDetails) ([]meteringpoint.Event, error) {
		return mp.Connect(d)
	})
}

// DisconnectMeteringPoint moves a connected metering point to Disconnected.
func (s *Service) DisconnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*Result, error) {
	return s.transition(ctx, opDisconnect, req, func(mp *meteringpoint.MeteringPoint, d meteringpoint.ConnectionDetails) ([]meteringpoint.Event, error) {
		return mp.Disconnect(d)
	})
}

// ReconnectMeteringPoint moves a disconnected metering point back to Connected.
func (s *Service) ReconnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*Result, error) {
	return s.transition(ctx, opReconnect, req, func(mp *meteringpoint.MeteringPoint, d meteringpoint.ConnectionDetails) ([]meteringpoint.Event, error) {
		return mp.Reconnect(d)
	})
}

// CloseDown retires a metering point for good.
func (s *Service) CloseDown(ctx context.Context, req *models.ConnectionRequest) (*Result, error) {
	return s.transition(ctx, opCloseDown, req, func(mp *meteringpoint.MeteringPoint, d meteringpoint.ConnectionDetails) ([]meteringpoint.Event, error) {
		return mp.CloseDown(d.EffectiveDate)
	})
}

func (s *Service) transition(
	ctx context.Context,
	operation string,
	req *models.ConnectionRequest,
	apply func(*meteringpoint.MeteringPoint, meteringpoint.ConnectionDetails) ([]meteringpoint.Event, error),
) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.mutate(ctx, operation, req.GsrnNumber, func(_ ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return apply(mp, effectiveOf(req.ParsedEffectiveDate()))
	})
}

// SetEnergySupplier records the supplier's start of supply. Only accounting
// points accept a supplier; any other type is rejected before the aggregate
// is asked.
func (s *Service) SetEnergySupplier(ctx context.Context, req *models.SetEnergySupplierRequest) (*Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return s.mutate(ctx, opSetEnergySupplier, req.GsrnNumber, func(_ ports.Store, mp *meteringpoint.MeteringPoint) ([]meteringpoint.Event, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		if !mp.IsClosedDown() && !mp.Type().IsAccountingPoint() {
			return nil, dErrors.New(dErrors.CodeBadRequest,
				"metering point type "+mp.Type().Name()+" cannot have an energy supplier")
		}
		return mp.SetEnergySupplierDetails(meteringpoint.EnergySupplierDetails{
			StartOfSupply: req.StartOfSupply.UTC(),
		})
	})
}
