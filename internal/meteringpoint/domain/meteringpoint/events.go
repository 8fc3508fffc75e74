package meteringpoint

import (
	"time"

	id "datahub/pkg/domain"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/shared"
)

// Event is one immutable fact raised by a state-changing operation. Every
// operation returns the events it raised; nothing is buffered on the
// aggregate.
type Event interface {
	EventName() string
	AggregateID() id.MeteringPointID
	Gsrn() shared.GsrnNumber
}

// Header identifies the metering point an event belongs to.
type Header struct {
	MeteringPointID id.MeteringPointID
	GsrnNumber      shared.GsrnNumber
}

func (h Header) AggregateID() id.MeteringPointID { return h.MeteringPointID }
func (h Header) Gsrn() shared.GsrnNumber         { return h.GsrnNumber }

const (
	EventMeteringPointCreated         = "MeteringPointCreated"
	EventMeteringPointConnected       = "MeteringPointConnected"
	EventMeteringPointDisconnected    = "MeteringPointDisconnected"
	EventMeteringPointReconnected     = "MeteringPointReconnected"
	EventMeteringPointClosedDown      = "MeteringPointClosedDown"
	EventEnergySupplierDetailsChanged = "EnergySupplierDetailsChanged"
	EventAddressChanged               = "AddressChanged"
	EventMeteringConfigurationChanged = "MeteringConfigurationChanged"
	EventMasterDataChanged            = "MasterDataChanged"
)

type MeteringPointCreated struct {
	Header
	Type           catalog.MeteringPointType
	GridAreaLinkID id.GridAreaLinkID
	Exchange       *ExchangeGridAreas
	EffectiveDate  shared.EffectiveDate
	MasterData     masterdata.MasterData
}

func (MeteringPointCreated) EventName() string { return EventMeteringPointCreated }

type MeteringPointConnected struct {
	Header
	EffectiveDate shared.EffectiveDate
}

func (MeteringPointConnected) EventName() string { return EventMeteringPointConnected }

type MeteringPointDisconnected struct {
	Header
	EffectiveDate shared.EffectiveDate
}

func (MeteringPointDisconnected) EventName() string { return EventMeteringPointDisconnected }

type MeteringPointReconnected struct {
	Header
	EffectiveDate shared.EffectiveDate
}

func (MeteringPointReconnected) EventName() string { return EventMeteringPointReconnected }

type MeteringPointClosedDown struct {
	Header
	EffectiveDate shared.EffectiveDate
}

func (MeteringPointClosedDown) EventName() string { return EventMeteringPointClosedDown }

type EnergySupplierDetailsChanged struct {
	Header
	StartOfSupply time.Time
}

func (EnergySupplierDetailsChanged) EventName() string { return EventEnergySupplierDetailsChanged }

type AddressChanged struct {
	Header
	EffectiveDate shared.EffectiveDate
	Address       shared.Address
}

func (AddressChanged) EventName() string { return EventAddressChanged }

type MeteringConfigurationChanged struct {
	Header
	EffectiveDate shared.EffectiveDate
	Configuration shared.MeteringConfiguration
}

func (MeteringConfigurationChanged) EventName() string { return EventMeteringConfigurationChanged }

// MasterDataChanged carries only the new snapshot.
type MasterDataChanged struct {
	Header
	MasterData masterdata.MasterData
}

func (MasterDataChanged) EventName() string { return EventMasterDataChanged }
