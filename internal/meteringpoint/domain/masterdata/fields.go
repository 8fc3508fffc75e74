package masterdata

import (
	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/shared"
)

// Field names one master data input. Violations carry string(Field).
type Field string

const (
	FieldStreetName                Field = shared.FieldStreetName
	FieldStreetCode                Field = shared.FieldStreetCode
	FieldBuildingNumber            Field = shared.FieldBuildingNumber
	FieldPostCode                  Field = shared.FieldPostCode
	FieldCity                      Field = shared.FieldCity
	FieldCitySubDivision           Field = shared.FieldCitySubDivision
	FieldCountryCode               Field = shared.FieldCountryCode
	FieldFloor                     Field = shared.FieldFloor
	FieldRoom                      Field = shared.FieldRoom
	FieldMunicipalityCode          Field = shared.FieldMunicipalityCode
	FieldLocationDescription       Field = shared.FieldLocationDescription
	FieldGeoInfoReference          Field = shared.FieldGeoInfoReference
	FieldIsActualAddress           Field = shared.FieldIsActualAddress
	FieldPowerPlant                Field = "power_plant"
	FieldPowerLimit                Field = "power_limit"
	FieldPowerLimitKwh             Field = shared.FieldPowerLimitKwh
	FieldPowerLimitAmpere          Field = shared.FieldPowerLimitAmpere
	FieldCapacity                  Field = shared.FieldCapacity
	FieldAssetType                 Field = "asset_type"
	FieldConnectionType            Field = "connection_type"
	FieldDisconnectionType         Field = "disconnection_type"
	FieldSettlementMethod          Field = "settlement_method"
	FieldNetSettlementGroup        Field = "net_settlement_group"
	FieldMeteringMethod            Field = shared.FieldMeteringMethod
	FieldMeterID                   Field = shared.FieldMeterID
	FieldScheduledMeterReadingDate Field = shared.FieldScheduledMeterReadingDate
	FieldProductType               Field = "product_type"
	FieldUnitType                  Field = "unit_type"
	FieldReadingOccurrence         Field = "reading_occurrence"
	FieldEffectiveDate             Field = shared.FieldEffectiveDate
	FieldProductionObligation      Field = "production_obligation"
)

// Requiredness is the selector's verdict for one field of one type.
type Requiredness int

const (
	Optional Requiredness = iota
	Required
	NotAllowed
)

func (r Requiredness) String() string {
	switch r {
	case Required:
		return "required"
	case NotAllowed:
		return "not_allowed"
	default:
		return "optional"
	}
}

// policyFields are the field categories the selector rules on. The power
// limit ceilings share one category; the meter id follows the metering
// method and is always Optional here.
var policyFields = []Field{
	FieldStreetName, FieldStreetCode, FieldBuildingNumber, FieldPostCode, FieldCity,
	FieldCitySubDivision, FieldCountryCode, FieldFloor, FieldRoom, FieldMunicipalityCode,
	FieldLocationDescription, FieldGeoInfoReference, FieldIsActualAddress,
	FieldPowerPlant, FieldPowerLimit, FieldCapacity, FieldAssetType, FieldConnectionType,
	FieldDisconnectionType, FieldSettlementMethod, FieldNetSettlementGroup,
	FieldMeteringMethod, FieldMeterID, FieldScheduledMeterReadingDate, FieldProductType,
	FieldUnitType, FieldReadingOccurrence, FieldEffectiveDate, FieldProductionObligation,
}

// Fields lists every field category in a stable order.
func Fields() []Field {
	out := make([]Field, len(policyFields))
	copy(out, policyFields)
	return out
}

// Policy is the requiredness of every field for one metering point type.
type Policy struct {
	typ    catalog.MeteringPointType
	fields map[Field]Requiredness
}

func (p Policy) Type() catalog.MeteringPointType { return p.typ }

// Of returns the requiredness of f. Fields outside the table are Optional.
func (p Policy) Of(f Field) Requiredness { return p.fields[f] }

// With lists the fields that have requiredness r, in Fields() order.
func (p Policy) With(r Requiredness) []Field {
	var out []Field
	for _, f := range policyFields {
		if p.Of(f) == r {
			out = append(out, f)
		}
	}
	return out
}

// PolicyFor is the field selector: a pure lookup from type to policy.
// An unknown type gets a policy where every field is NotAllowed.
func PolicyFor(t catalog.MeteringPointType) Policy {
	if p, ok := policies[t]; ok {
		return p
	}
	closed := make(map[Field]Requiredness, len(policyFields))
	for _, f := range policyFields {
		closed[f] = NotAllowed
	}
	return Policy{typ: t, fields: closed}
}

type overrides map[Field]Requiredness

var (
	requiredEverywhere = overrides{
		FieldMeteringMethod:    Required,
		FieldProductType:       Required,
		FieldUnitType:          Required,
		FieldReadingOccurrence: Required,
		FieldEffectiveDate:     Required,
	}

	requiredAddress = overrides{
		FieldStreetName: Required,
		FieldPostCode:   Required,
		FieldCity:       Required,
	}

	childType = overrides{
		FieldPowerPlant:                NotAllowed,
		FieldPowerLimit:                Optional,
		FieldCapacity:                  Optional,
		FieldAssetType:                 Optional,
		FieldConnectionType:            NotAllowed,
		FieldDisconnectionType:         Optional,
		FieldSettlementMethod:          NotAllowed,
		FieldNetSettlementGroup:        NotAllowed,
		FieldScheduledMeterReadingDate: NotAllowed,
		FieldProductionObligation:      NotAllowed,
	}
)

var policies = map[catalog.MeteringPointType]Policy{
	catalog.TypeConsumption: newPolicy(catalog.TypeConsumption, requiredAddress, overrides{
		FieldPowerPlant:                Optional,
		FieldPowerLimit:                Optional,
		FieldCapacity:                  Required,
		FieldAssetType:                 Optional,
		FieldConnectionType:            Optional,
		FieldDisconnectionType:         Required,
		FieldSettlementMethod:          Required,
		FieldNetSettlementGroup:        Required,
		FieldScheduledMeterReadingDate: Optional,
		FieldProductionObligation:      NotAllowed,
	}),
	catalog.TypeProduction: newPolicy(catalog.TypeProduction, requiredAddress, overrides{
		FieldPowerPlant:                Optional,
		FieldPowerLimit:                Optional,
		FieldCapacity:                  Required,
		FieldAssetType:                 Required,
		FieldConnectionType:            Optional,
		FieldDisconnectionType:         Required,
		FieldSettlementMethod:          NotAllowed,
		FieldNetSettlementGroup:        Required,
		FieldScheduledMeterReadingDate: NotAllowed,
		FieldProductionObligation:      Optional,
	}),
	catalog.TypeExchange: newPolicy(catalog.TypeExchange, overrides{
		FieldPowerPlant:                NotAllowed,
		FieldPowerLimit:                Optional,
		FieldCapacity:                  NotAllowed,
		FieldAssetType:                 NotAllowed,
		FieldConnectionType:            NotAllowed,
		FieldDisconnectionType:         Optional,
		FieldSettlementMethod:          NotAllowed,
		FieldNetSettlementGroup:        NotAllowed,
		FieldScheduledMeterReadingDate: NotAllowed,
		FieldProductionObligation:      NotAllowed,
	}),
	catalog.TypeVEProduction: newPolicy(catalog.TypeVEProduction, requiredAddress, overrides{
		FieldPowerPlant:                Required,
		FieldPowerLimit:                Optional,
		FieldCapacity:                  Required,
		FieldAssetType:                 Required,
		FieldConnectionType:            NotAllowed,
		FieldDisconnectionType:         Optional,
		FieldSettlementMethod:          NotAllowed,
		FieldNetSettlementGroup:        NotAllowed,
		FieldScheduledMeterReadingDate: NotAllowed,
		FieldProductionObligation:      NotAllowed,
	}),
	catalog.TypeAnalysis: newPolicy(catalog.TypeAnalysis, overrides{
		FieldPowerPlant:                NotAllowed,
		FieldPowerLimit:                NotAllowed,
		FieldCapacity:                  NotAllowed,
		FieldAssetType:                 NotAllowed,
		FieldConnectionType:            NotAllowed,
		FieldDisconnectionType:         NotAllowed,
		FieldSettlementMethod:          NotAllowed,
		FieldNetSettlementGroup:        NotAllowed,
		FieldScheduledMeterReadingDate: NotAllowed,
		FieldProductionObligation:      NotAllowed,
	}),
	catalog.TypeSurplusProductionGroup: newPolicy(catalog.TypeSurplusProductionGroup, childType),
	catalog.TypeNetProduction:          newPolicy(catalog.TypeNetProduction, childType),
	catalog.TypeSupplyToGrid:           newPolicy(catalog.TypeSupplyToGrid, childType),
	catalog.TypeConsumptionFromGrid:    newPolicy(catalog.TypeConsumptionFromGrid, childType),
	catalog.TypeWholesaleServices:      newPolicy(catalog.TypeWholesaleServices, childType),
	catalog.TypeOwnProduction:          newPolicy(catalog.TypeOwnProduction, childType),
	catalog.TypeNetFromGrid:            newPolicy(catalog.TypeNetFromGrid, childType),
	catalog.TypeNetToGrid:              newPolicy(catalog.TypeNetToGrid, childType),
	catalog.TypeTotalConsumption:       newPolicy(catalog.TypeTotalConsumption, childType),
	catalog.TypeGridLossCorrection:     newPolicy(catalog.TypeGridLossCorrection, childType),
	catalog.TypeElectricalHeating:      newPolicy(catalog.TypeElectricalHeating, childType),
	catalog.TypeNetConsumption:         newPolicy(catalog.TypeNetConsumption, childType),
	catalog.TypeOtherConsumption:       newPolicy(catalog.TypeOtherConsumption, childType),
	catalog.TypeOtherProduction:        newPolicy(catalog.TypeOtherProduction, childType),
	catalog.TypeExchangeReactiveEnergy: newPolicy(catalog.TypeExchangeReactiveEnergy, childType, overrides{
		FieldCapacity: NotAllowed,
	}),
	catalog.TypeInternalUse: newPolicy(catalog.TypeInternalUse, childType, overrides{
		FieldCapacity: NotAllowed,
	}),
}

// newPolicy starts from all address parts Optional plus the fields every type
// requires, then applies layers in order.
func newPolicy(t catalog.MeteringPointType, layers ...overrides) Policy {
	fields := make(map[Field]Requiredness, len(policyFields))
	for _, f := range policyFields {
		fields[f] = Optional
	}
	for f, r := range requiredEverywhere {
		fields[f] = r
	}
	for _, layer := range layers {
		for f, r := range layer {
			fields[f] = r
		}
	}
	return Policy{typ: t, fields: fields}
}
