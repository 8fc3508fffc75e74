package masterdata

import (
	"fmt"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

const (
	CodeMandatory    rules.Code = "mandatory"
	CodeNotAllowed   rules.Code = "not_allowed"
	CodeUnknownValue rules.Code = "unknown_value"
)

// Builder turns raw Input into MasterData for one metering point type.
//
// For every field the type's policy decides: a supplied NotAllowed field is a
// not_allowed violation, a missing Required field is a mandatory violation,
// anything else present is converted into its value object. All violations
// are reported together.
type Builder struct {
	policy Policy
}

func NewBuilder(t catalog.MeteringPointType) Builder {
	return Builder{policy: PolicyFor(t)}
}

func (b Builder) Policy() Policy { return b.policy }

// Validate checks in without building. Build calls it again.
func (b Builder) Validate(in Input) rules.Result {
	return checkPresence(b.policy, in).Merge(b.checkFormats(in))
}

// Build returns the snapshot, or the zero MasterData and the violations.
func (b Builder) Build(in Input) (MasterData, rules.Result) {
	if r := b.Validate(in); !r.Success() {
		return MasterData{}, r
	}
	return b.assemble(in), rules.Success()
}

func checkPresence(p Policy, in Input) rules.Result {
	var checks []rules.Rule
	for _, f := range policyFields {
		has := in.Has(f)
		switch p.Of(f) {
		case NotAllowed:
			checks = append(checks, rules.Check(has, rules.Violation{
				Code:    CodeNotAllowed,
				Field:   string(f),
				Message: fmt.Sprintf("not allowed for %s metering points", typeLabel(p.Type())),
			}))
		case Required:
			checks = append(checks, rules.Check(!has, rules.Violation{
				Code:    CodeMandatory,
				Field:   string(f),
				Message: fmt.Sprintf("mandatory for %s metering points", typeLabel(p.Type())),
			}))
		}
	}
	return rules.Evaluate(checks...)
}

func typeLabel(t catalog.MeteringPointType) string {
	if t.IsValid() {
		return t.Name()
	}
	return "unknown"
}

// value returns a present field that the policy does not forbid.
func (b Builder) value(in Input, f Field) (string, bool) {
	if b.policy.Of(f) == NotAllowed {
		return "", false
	}
	return in.Value(f)
}

func (b Builder) checkFormats(in Input) rules.Result {
	r := rules.Success()

	if parts, ok := b.addressParts(in); ok {
		r = r.Merge(shared.CheckAddressRules(parts))
	}
	if v, ok := b.value(in, FieldPowerPlant); ok {
		r = r.Merge(relabel(shared.CheckGsrnNumberRules(v), FieldPowerPlant))
	}
	if b.policy.Of(FieldPowerLimit) != NotAllowed {
		kwh, _ := in.Value(FieldPowerLimitKwh)
		ampere, _ := in.Value(FieldPowerLimitAmpere)
		r = r.Merge(shared.CheckPowerLimitRules(kwh, ampere))
	}
	if v, ok := b.value(in, FieldCapacity); ok {
		r = r.Merge(shared.CheckCapacityRules(v))
	}
	if v, ok := b.value(in, FieldScheduledMeterReadingDate); ok {
		r = r.Merge(shared.CheckScheduledMeterReadingDateRules(v))
	}
	if v, ok := b.value(in, FieldEffectiveDate); ok {
		r = r.Merge(shared.CheckEffectiveDateRules(v))
	}

	r = r.Merge(
		b.checkCatalog(in, FieldAssetType, catalogCheck(catalog.ParseAssetType)),
		b.checkCatalog(in, FieldConnectionType, catalogCheck(catalog.ParseConnectionType)),
		b.checkCatalog(in, FieldDisconnectionType, catalogCheck(catalog.ParseDisconnectionType)),
		b.checkCatalog(in, FieldSettlementMethod, catalogCheck(catalog.ParseSettlementMethod)),
		b.checkCatalog(in, FieldNetSettlementGroup, catalogCheck(catalog.ParseNetSettlementGroup)),
		b.checkCatalog(in, FieldProductType, catalogCheck(catalog.ParseProductType)),
		b.checkCatalog(in, FieldUnitType, catalogCheck(catalog.ParseMeasurementUnitType)),
		b.checkCatalog(in, FieldReadingOccurrence, catalogCheck(catalog.ParseReadingOccurrence)),
	)

	return r.Merge(b.checkMeteringConfiguration(in))
}

// checkMeteringConfiguration only checks meter consistency once the method is
// known, so a missing method is reported by the presence check alone.
func (b Builder) checkMeteringConfiguration(in Input) rules.Result {
	meter, hasMeter := b.value(in, FieldMeterID)
	raw, hasMethod := b.value(in, FieldMeteringMethod)
	if !hasMethod {
		if hasMeter {
			return shared.CheckMeterIDRules(meter)
		}
		return rules.Success()
	}
	method, err := catalog.ParseMeteringMethod(raw)
	if err != nil {
		r := unknownValue(FieldMeteringMethod, raw)
		if hasMeter {
			r = r.Merge(shared.CheckMeterIDRules(meter))
		}
		return r
	}
	return shared.CheckMeteringConfigurationRules(method, meter)
}

func catalogCheck[T any](parse func(string) (T, error)) func(string) error {
	return func(s string) error {
		_, err := parse(s)
		return err
	}
}

func (b Builder) checkCatalog(in Input, f Field, check func(string) error) rules.Result {
	v, ok := b.value(in, f)
	if !ok || check(v) == nil {
		return rules.Success()
	}
	return unknownValue(f, v)
}

func unknownValue(f Field, v string) rules.Result {
	return rules.Of(rules.Violation{
		Code:    CodeUnknownValue,
		Field:   string(f),
		Message: fmt.Sprintf("unknown value %q", v),
	})
}

func relabel(r rules.Result, f Field) rules.Result {
	vs := r.Violations()
	for i := range vs {
		vs[i].Field = string(f)
	}
	return rules.Of(vs...)
}

func (b Builder) addressParts(in Input) (shared.AddressParts, bool) {
	var p shared.AddressParts
	found := false
	set := func(f Field, dst *string) {
		if v, ok := b.value(in, f); ok {
			*dst = v
			found = true
		}
	}
	set(FieldStreetName, &p.StreetName)
	set(FieldStreetCode, &p.StreetCode)
	set(FieldBuildingNumber, &p.BuildingNumber)
	set(FieldPostCode, &p.PostCode)
	set(FieldCity, &p.City)
	set(FieldCitySubDivision, &p.CitySubDivision)
	set(FieldCountryCode, &p.CountryCode)
	set(FieldFloor, &p.Floor)
	set(FieldRoom, &p.Room)
	set(FieldMunicipalityCode, &p.MunicipalityCode)
	set(FieldLocationDescription, &p.LocationDescription)
	set(FieldGeoInfoReference, &p.GeoInfoReference)
	if in.IsActualAddress != nil && b.policy.Of(FieldIsActualAddress) != NotAllowed {
		v := *in.IsActualAddress
		p.IsActualAddress = &v
		found = true
	}
	return p, found
}

// assemble converts validated input. Parse errors cannot occur here.
func (b Builder) assemble(in Input) MasterData {
	var m MasterData

	if parts, ok := b.addressParts(in); ok {
		m.address, _ = shared.NewAddress(parts)
	}
	if v, ok := b.value(in, FieldPowerPlant); ok {
		m.powerPlant, _ = shared.NewGsrnNumber(v)
	}
	if b.policy.Of(FieldPowerLimit) != NotAllowed {
		kwh, _ := in.Value(FieldPowerLimitKwh)
		ampere, _ := in.Value(FieldPowerLimitAmpere)
		m.powerLimit, _ = shared.NewPowerLimit(kwh, ampere)
	}
	if v, ok := b.value(in, FieldCapacity); ok {
		m.capacity, _ = shared.NewCapacity(v)
	}
	if v, ok := b.value(in, FieldScheduledMeterReadingDate); ok {
		m.scheduledMeterReadingDate, _ = shared.NewScheduledMeterReadingDate(v)
	}
	if v, ok := b.value(in, FieldEffectiveDate); ok {
		m.effectiveDate, _ = shared.NewEffectiveDate(v)
	}
	if v, ok := b.value(in, FieldAssetType); ok {
		m.assetType, _ = catalog.ParseAssetType(v)
	}
	if v, ok := b.value(in, FieldConnectionType); ok {
		m.connectionType, _ = catalog.ParseConnectionType(v)
	}
	if v, ok := b.value(in, FieldDisconnectionType); ok {
		m.disconnectionType, _ = catalog.ParseDisconnectionType(v)
	}
	if v, ok := b.value(in, FieldSettlementMethod); ok {
		m.settlementMethod, _ = catalog.ParseSettlementMethod(v)
	}
	if v, ok := b.value(in, FieldNetSettlementGroup); ok {
		m.netSettlementGroup, _ = catalog.ParseNetSettlementGroup(v)
	}
	if v, ok := b.value(in, FieldProductType); ok {
		m.productType, _ = catalog.ParseProductType(v)
	}
	if v, ok := b.value(in, FieldUnitType); ok {
		m.unitType, _ = catalog.ParseMeasurementUnitType(v)
	}
	if v, ok := b.value(in, FieldReadingOccurrence); ok {
		m.readingOccurrence, _ = catalog.ParseReadingOccurrence(v)
	}
	if v, ok := b.value(in, FieldMeteringMethod); ok {
		method, _ := catalog.ParseMeteringMethod(v)
		meter, _ := b.value(in, FieldMeterID)
		m.meteringConfiguration, _ = shared.NewMeteringConfiguration(method, meter)
	}
	if in.ProductionObligation != nil && b.policy.Of(FieldProductionObligation) != NotAllowed {
		v := *in.ProductionObligation
		m.productionObligation = &v
	}
	return m
}
