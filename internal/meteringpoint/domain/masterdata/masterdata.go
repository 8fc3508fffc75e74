// Package masterdata decides which master data a metering point type must,
// may or must not carry, builds the immutable MasterData snapshot from raw
// request input and runs the cross-field validation battery over it.
//
// The flow is always: PolicyFor(type) drives the Builder, which turns an
// Input into a MasterData or a set of field violations; the Validator then
// checks rules that span several fields. Both steps return rules.Result so
// callers can report every problem at once.
package masterdata

import (
	"strconv"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/shared"
)

// MasterData is an immutable snapshot of the descriptive and technical
// attributes of a metering point as of its effective date. Build it with a
// Builder; the zero value holds no data.
type MasterData struct {
	productType               catalog.ProductType
	unitType                  catalog.MeasurementUnitType
	assetType                 catalog.AssetType
	readingOccurrence         catalog.ReadingOccurrence
	powerLimit                shared.PowerLimit
	powerPlant                shared.GsrnNumber
	effectiveDate             shared.EffectiveDate
	capacity                  shared.Capacity
	address                   shared.Address
	meteringConfiguration     shared.MeteringConfiguration
	settlementMethod          catalog.SettlementMethod
	scheduledMeterReadingDate shared.ScheduledMeterReadingDate
	connectionType            catalog.ConnectionType
	disconnectionType         catalog.DisconnectionType
	netSettlementGroup        catalog.NetSettlementGroup
	productionObligation      *bool
}

func (m MasterData) ProductType() catalog.ProductType             { return m.productType }
func (m MasterData) UnitType() catalog.MeasurementUnitType        { return m.unitType }
func (m MasterData) AssetType() catalog.AssetType                 { return m.assetType }
func (m MasterData) ReadingOccurrence() catalog.ReadingOccurrence { return m.readingOccurrence }
func (m MasterData) PowerLimit() shared.PowerLimit                { return m.powerLimit }
func (m MasterData) PowerPlant() shared.GsrnNumber                { return m.powerPlant }
func (m MasterData) EffectiveDate() shared.EffectiveDate          { return m.effectiveDate }
func (m MasterData) Capacity() shared.Capacity                    { return m.capacity }
func (m MasterData) Address() shared.Address                      { return m.address }
func (m MasterData) SettlementMethod() catalog.SettlementMethod   { return m.settlementMethod }
func (m MasterData) ConnectionType() catalog.ConnectionType       { return m.connectionType }
func (m MasterData) DisconnectionType() catalog.DisconnectionType { return m.disconnectionType }
func (m MasterData) NetSettlementGroup() catalog.NetSettlementGroup {
	return m.netSettlementGroup
}

func (m MasterData) MeteringConfiguration() shared.MeteringConfiguration {
	return m.meteringConfiguration
}

func (m MasterData) ScheduledMeterReadingDate() shared.ScheduledMeterReadingDate {
	return m.scheduledMeterReadingDate
}

// ProductionObligation returns the flag and whether it was set.
func (m MasterData) ProductionObligation() (bool, bool) {
	if m.productionObligation == nil {
		return false, false
	}
	return *m.productionObligation, true
}

// IsZero reports whether m was never built.
func (m MasterData) IsZero() bool { return m.productType == 0 && m.effectiveDate.IsZero() }

// Equal compares canonical forms, so capacity 10 equals 10.0.
func (m MasterData) Equal(other MasterData) bool {
	return InputFrom(m).Equal(InputFrom(other))
}

// InputFrom converts a snapshot back into canonical raw input. Building the
// result for the same type yields a MasterData equal to m.
func InputFrom(m MasterData) Input {
	var in Input

	a := m.address.Parts()
	in.StreetName = opt(a.StreetName)
	in.StreetCode = opt(a.StreetCode)
	in.BuildingNumber = opt(a.BuildingNumber)
	in.PostCode = opt(a.PostCode)
	in.City = opt(a.City)
	in.CitySubDivision = opt(a.CitySubDivision)
	in.CountryCode = opt(a.CountryCode)
	in.Floor = opt(a.Floor)
	in.Room = opt(a.Room)
	in.MunicipalityCode = opt(a.MunicipalityCode)
	in.LocationDescription = opt(a.LocationDescription)
	in.GeoInfoReference = opt(a.GeoInfoReference)
	in.IsActualAddress = a.IsActualAddress

	in.PowerPlant = opt(m.powerPlant.String())
	if kwh, ok := m.powerLimit.Kwh(); ok {
		in.PowerLimitKwh = Str(strconv.Itoa(kwh))
	}
	if ampere, ok := m.powerLimit.Ampere(); ok {
		in.PowerLimitAmpere = Str(strconv.Itoa(ampere))
	}
	in.Capacity = opt(m.capacity.String())
	in.AssetType = opt(m.assetType.Name())
	in.ConnectionType = opt(m.connectionType.Name())
	in.DisconnectionType = opt(m.disconnectionType.Name())
	in.SettlementMethod = opt(m.settlementMethod.Name())
	in.NetSettlementGroup = opt(m.netSettlementGroup.Name())
	in.MeteringMethod = opt(m.meteringConfiguration.Method().Name())
	in.MeterID = opt(m.meteringConfiguration.Meter().String())
	in.ScheduledMeterReadingDate = opt(m.scheduledMeterReadingDate.String())
	in.ProductType = opt(m.productType.Name())
	in.UnitType = opt(m.unitType.Name())
	in.ReadingOccurrence = opt(m.readingOccurrence.Name())
	in.EffectiveDate = opt(m.effectiveDate.String())
	if m.productionObligation != nil {
		in.ProductionObligation = Bool(*m.productionObligation)
	}
	return in
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
