package meteringpoint

import (
	"time"

	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/shared"
)

// Snapshot is the flat persistence form of the aggregate. Stores save and
// load whole snapshots; there are no partial loads.
type Snapshot struct {
	ID               id.MeteringPointID
	GsrnNumber       string
	Type             catalog.MeteringPointType
	GridAreaLinkID   id.GridAreaLinkID
	ExchangeFrom     *id.GridAreaLinkID
	ExchangeTo       *id.GridAreaLinkID
	MasterData       masterdata.Input
	PhysicalState    catalog.PhysicalState
	StateEffectiveAt time.Time
	StartOfSupply    *time.Time
	Version          int
}

func (mp *MeteringPoint) Snapshot() Snapshot {
	s := Snapshot{
		ID:               mp.id,
		GsrnNumber:       mp.gsrn.String(),
		Type:             mp.typ,
		GridAreaLinkID:   mp.gridAreaLinkID,
		MasterData:       masterdata.InputFrom(mp.masterData),
		PhysicalState:    mp.connection.PhysicalState,
		StateEffectiveAt: mp.connection.EffectiveAt.Time(),
		Version:          mp.version,
	}
	if mp.exchange != nil {
		from, to := mp.exchange.From, mp.exchange.To
		s.ExchangeFrom, s.ExchangeTo = &from, &to
	}
	if mp.energySupplier != nil {
		start := mp.energySupplier.StartOfSupply
		s.StartOfSupply = &start
	}
	return s
}

// Restore rebuilds an aggregate from a stored snapshot. A snapshot that no
// longer builds is reported as an invariant violation.
func Restore(s Snapshot) (*MeteringPoint, error) {
	gsrn, err := shared.NewGsrnNumber(s.GsrnNumber)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "stored gsrn number is invalid")
	}
	if !s.Type.IsValid() || !s.PhysicalState.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "stored metering point type or state is invalid")
	}
	md, r := masterdata.NewBuilder(s.Type).Build(s.MasterData)
	if !r.Success() {
		return nil, dErrors.Wrap(r.Err(), dErrors.CodeInvariantViolation, "stored master data is invalid")
	}
	effectiveAt, err := shared.EffectiveDateFromTime(s.StateEffectiveAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "stored state effective date is invalid")
	}

	mp := &MeteringPoint{
		id:             s.ID,
		gsrn:           gsrn,
		typ:            s.Type,
		gridAreaLinkID: s.GridAreaLinkID,
		masterData:     md,
		connection:     ConnectionState{PhysicalState: s.PhysicalState, EffectiveAt: effectiveAt},
		version:        s.Version,
	}
	if s.ExchangeFrom != nil && s.ExchangeTo != nil {
		mp.exchange = &ExchangeGridAreas{From: *s.ExchangeFrom, To: *s.ExchangeTo}
	}
	if s.StartOfSupply != nil {
		supplier := EnergySupplierDetails{StartOfSupply: *s.StartOfSupply}.normalized()
		mp.energySupplier = &supplier
	}
	return mp, nil
}
