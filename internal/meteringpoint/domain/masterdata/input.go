package masterdata

import "strings"

// Input is the raw master data of a request: one named optional field per
// input. A nil or blank string counts as absent. Input is validated as a
// whole by the Builder; field order carries no meaning.
type Input struct {
	StreetName          *string `json:"street_name,omitempty"`
	StreetCode          *string `json:"street_code,omitempty"`
	BuildingNumber      *string `json:"building_number,omitempty"`
	PostCode            *string `json:"post_code,omitempty"`
	City                *string `json:"city,omitempty"`
	CitySubDivision     *string `json:"city_sub_division,omitempty"`
	CountryCode         *string `json:"country_code,omitempty"`
	Floor               *string `json:"floor,omitempty"`
	Room                *string `json:"room,omitempty"`
	MunicipalityCode    *string `json:"municipality_code,omitempty"`
	LocationDescription *string `json:"location_description,omitempty"`
	GeoInfoReference    *string `json:"geo_info_reference,omitempty"`
	IsActualAddress     *bool   `json:"is_actual_address,omitempty"`

	PowerPlant                *string `json:"power_plant,omitempty"`
	PowerLimitKwh             *string `json:"power_limit_kwh,omitempty"`
	PowerLimitAmpere          *string `json:"power_limit_ampere,omitempty"`
	Capacity                  *string `json:"capacity,omitempty"`
	AssetType                 *string `json:"asset_type,omitempty"`
	ConnectionType            *string `json:"connection_type,omitempty"`
	DisconnectionType         *string `json:"disconnection_type,omitempty"`
	SettlementMethod          *string `json:"settlement_method,omitempty"`
	NetSettlementGroup        *string `json:"net_settlement_group,omitempty"`
	MeteringMethod            *string `json:"metering_method,omitempty"`
	MeterID                   *string `json:"meter_id,omitempty"`
	ScheduledMeterReadingDate *string `json:"scheduled_meter_reading_date,omitempty"`
	ProductType               *string `json:"product_type,omitempty"`
	UnitType                  *string `json:"unit_type,omitempty"`
	ReadingOccurrence         *string `json:"reading_occurrence,omitempty"`
	EffectiveDate             *string `json:"effective_date,omitempty"`
	ProductionObligation      *bool   `json:"production_obligation,omitempty"`
}

// AddressInput is the address subset of Input used by ChangeAddress.
type AddressInput struct {
	StreetName          *string `json:"street_name,omitempty"`
	StreetCode          *string `json:"street_code,omitempty"`
	BuildingNumber      *string `json:"building_number,omitempty"`
	PostCode            *string `json:"post_code,omitempty"`
	City                *string `json:"city,omitempty"`
	CitySubDivision     *string `json:"city_sub_division,omitempty"`
	CountryCode         *string `json:"country_code,omitempty"`
	Floor               *string `json:"floor,omitempty"`
	Room                *string `json:"room,omitempty"`
	MunicipalityCode    *string `json:"municipality_code,omitempty"`
	LocationDescription *string `json:"location_description,omitempty"`
	GeoInfoReference    *string `json:"geo_info_reference,omitempty"`
	IsActualAddress     *bool   `json:"is_actual_address,omitempty"`
}

// Input lifts the address into a change that touches only address fields.
func (a AddressInput) Input() Input {
	return Input{
		StreetName:          a.StreetName,
		StreetCode:          a.StreetCode,
		BuildingNumber:      a.BuildingNumber,
		PostCode:            a.PostCode,
		City:                a.City,
		CitySubDivision:     a.CitySubDivision,
		CountryCode:         a.CountryCode,
		Floor:               a.Floor,
		Room:                a.Room,
		MunicipalityCode:    a.MunicipalityCode,
		LocationDescription: a.LocationDescription,
		GeoInfoReference:    a.GeoInfoReference,
		IsActualAddress:     a.IsActualAddress,
	}
}

// Str is a convenience for building inputs from literals.
func Str(s string) *string { return &s }

// Bool is the *bool counterpart of Str.
func Bool(b bool) *bool { return &b }

type stringField struct {
	field Field
	ptr   **string
}

func (in *Input) strings() []stringField {
	return []stringField{
		{FieldStreetName, &in.StreetName},
		{FieldStreetCode, &in.StreetCode},
		{FieldBuildingNumber, &in.BuildingNumber},
		{FieldPostCode, &in.PostCode},
		{FieldCity, &in.City},
		{FieldCitySubDivision, &in.CitySubDivision},
		{FieldCountryCode, &in.CountryCode},
		{FieldFloor, &in.Floor},
		{FieldRoom, &in.Room},
		{FieldMunicipalityCode, &in.MunicipalityCode},
		{FieldLocationDescription, &in.LocationDescription},
		{FieldGeoInfoReference, &in.GeoInfoReference},
		{FieldPowerPlant, &in.PowerPlant},
		{FieldPowerLimitKwh, &in.PowerLimitKwh},
		{FieldPowerLimitAmpere, &in.PowerLimitAmpere},
		{FieldCapacity, &in.Capacity},
		{FieldAssetType, &in.AssetType},
		{FieldConnectionType, &in.ConnectionType},
		{FieldDisconnectionType, &in.DisconnectionType},
		{FieldSettlementMethod, &in.SettlementMethod},
		{FieldNetSettlementGroup, &in.NetSettlementGroup},
		{FieldMeteringMethod, &in.MeteringMethod},
		{FieldMeterID, &in.MeterID},
		{FieldScheduledMeterReadingDate, &in.ScheduledMeterReadingDate},
		{FieldProductType, &in.ProductType},
		{FieldUnitType, &in.UnitType},
		{FieldReadingOccurrence, &in.ReadingOccurrence},
		{FieldEffectiveDate, &in.EffectiveDate},
	}
}

func (in *Input) bools() map[Field]**bool {
	return map[Field]**bool{
		FieldIsActualAddress:      &in.IsActualAddress,
		FieldProductionObligation: &in.ProductionObligation,
	}
}

// Value returns the trimmed value of a string field and whether it is present.
func (in Input) Value(f Field) (string, bool) {
	for _, sf := range in.strings() {
		if sf.field == f {
			return present(*sf.ptr)
		}
	}
	return "", false
}

// Has reports whether a value was supplied for a policy field.
func (in Input) Has(f Field) bool {
	switch f {
	case FieldPowerLimit:
		_, kwh := in.Value(FieldPowerLimitKwh)
		_, ampere := in.Value(FieldPowerLimitAmpere)
		return kwh || ampere
	case FieldIsActualAddress:
		return in.IsActualAddress != nil
	case FieldProductionObligation:
		return in.ProductionObligation != nil
	}
	_, ok := in.Value(f)
	return ok
}

// Overlay returns in with every field supplied by change replaced. Absent
// fields of change keep the value of in; a change cannot clear a field.
func (in Input) Overlay(change Input) Input {
	out := in
	outFields, changeFields := out.strings(), change.strings()
	for i, sf := range changeFields {
		if v, ok := present(*sf.ptr); ok {
			*outFields[i].ptr = &v
		}
	}
	outBools, changeBools := out.bools(), change.bools()
	for f, b := range changeBools {
		if *b != nil {
			v := **b
			*outBools[f] = &v
		}
	}
	return out
}

// Equal compares the present values of both inputs.
func (in Input) Equal(other Input) bool {
	a, b := in.strings(), other.strings()
	for i := range a {
		av, aok := present(*a[i].ptr)
		bv, bok := present(*b[i].ptr)
		if aok != bok || av != bv {
			return false
		}
	}
	ab, bb := in.bools(), other.bools()
	for f, p := range ab {
		q := bb[f]
		if (*p == nil) != (*q == nil) {
			return false
		}
		if *p != nil && **p != **q {
			return false
		}
	}
	return true
}

func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
