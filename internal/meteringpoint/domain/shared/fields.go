package shared

// Master data field names. Violations raised by value objects carry these in
// Violation.Field so the builder and the HTTP layer can point at the input.
const (
	FieldGsrnNumber                = "gsrn_number"
	FieldMeterID                   = "meter_id"
	FieldCapacity                  = "capacity"
	FieldPowerLimitKwh             = "power_limit_kwh"
	FieldPowerLimitAmpere          = "power_limit_ampere"
	FieldStreetName                = "street_name"
	FieldStreetCode                = "street_code"
	FieldBuildingNumber            = "building_number"
	FieldPostCode                  = "post_code"
	FieldCity                      = "city"
	FieldCitySubDivision           = "city_sub_division"
	FieldCountryCode               = "country_code"
	FieldFloor                     = "floor"
	FieldRoom                      = "room"
	FieldMunicipalityCode          = "municipality_code"
	FieldLocationDescription       = "location_description"
	FieldGeoInfoReference          = "geo_info_reference"
	FieldIsActualAddress           = "is_actual_address"
	FieldEffectiveDate             = "effective_date"
	FieldScheduledMeterReadingDate = "scheduled_meter_reading_date"
	FieldMeteringMethod            = "metering_method"
)
