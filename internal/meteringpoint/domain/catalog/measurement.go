package catalog

// AssetType is the production technology behind a metering point.
type AssetType int

const (
	AssetSteamTurbineWithBackPressureMode AssetType = iota + 1
	AssetGasTurbine
	AssetCombinedCycle
	AssetCombustionEngineGas
	AssetSteamTurbineWithCondensation
	AssetBoiler
	AssetStirlingEngine
	AssetPermanentEnergyStorage
	AssetTemporaryEnergyStorage
	AssetFuelCells
	AssetPhotovoltaicCells
	AssetWindTurbines
	AssetHydroelectricPower
	AssetWavePower
	AssetMixedProduction
	AssetProductionWithStorage
	AssetPowerToX
	AssetRegenerativeDemandFacility
	AssetCombustionEngineDiesel
	AssetCombustionEngineBio
	AssetUnknownTechnology
)

var assetTypes = newTable("asset type",
	entry[AssetType]{AssetSteamTurbineWithBackPressureMode, "SteamTurbineWithBackPressureMode", "D01"},
	entry[AssetType]{AssetGasTurbine, "GasTurbine", "D02"},
	entry[AssetType]{AssetCombinedCycle, "CombinedCycle", "D03"},
	entry[AssetType]{AssetCombustionEngineGas, "CombustionEngineGas", "D04"},
	entry[AssetType]{AssetSteamTurbineWithCondensation, "SteamTurbineWithCondensation", "D05"},
	entry[AssetType]{AssetBoiler, "Boiler", "D06"},
	entry[AssetType]{AssetStirlingEngine, "StirlingEngine", "D07"},
	entry[AssetType]{AssetPermanentEnergyStorage, "PermanentEnergyStorage", "D08"},
	entry[AssetType]{AssetTemporaryEnergyStorage, "TemporaryEnergyStorage", "D09"},
	entry[AssetType]{AssetFuelCells, "FuelCells", "D10"},
	entry[AssetType]{AssetPhotovoltaicCells, "PhotovoltaicCells", "D11"},
	entry[AssetType]{AssetWindTurbines, "WindTurbines", "D12"},
	entry[AssetType]{AssetHydroelectricPower, "HydroelectricPower", "D13"},
	entry[AssetType]{AssetWavePower, "WavePower", "D14"},
	entry[AssetType]{AssetMixedProduction, "MixedProduction", "D15"},
	entry[AssetType]{AssetProductionWithStorage, "ProductionWithStorage", "D16"},
	entry[AssetType]{AssetPowerToX, "PowerToX", "D17"},
	entry[AssetType]{AssetRegenerativeDemandFacility, "RegenerativeDemandFacility", "D18"},
	entry[AssetType]{AssetCombustionEngineDiesel, "CombustionEngineDiesel", "D19"},
	entry[AssetType]{AssetCombustionEngineBio, "CombustionEngineBio", "D20"},
	entry[AssetType]{AssetUnknownTechnology, "UnknownTechnology", "D99"},
)

func ParseAssetType(s string) (AssetType, error)  { return assetTypes.parse(s) }
func AssetTypeFromValue(n int) (AssetType, error) { return assetTypes.fromValue(n) }
func AssetTypes() []AssetType                     { return assetTypes.all() }

func (a AssetType) String() string { return a.Name() }
func (a AssetType) Name() string   { return assetTypes.name(a) }
func (a AssetType) Code() string   { return assetTypes.code(a) }
func (a AssetType) IsValid() bool  { return assetTypes.valid(a) }

func (a AssetType) MarshalText() ([]byte, error) { return []byte(a.Name()), nil }
func (a *AssetType) UnmarshalText(b []byte) error {
	return assetTypes.unmarshal(a, b)
}

// ReadingOccurrence is the resolution of time series sent for a point.
type ReadingOccurrence int

const (
	ReadingQuarterly ReadingOccurrence = iota + 1
	ReadingHourly
	ReadingMonthly
	ReadingYearly
)

var readingOccurrences = newTable("reading occurrence",
	entry[ReadingOccurrence]{ReadingQuarterly, "Quarterly", "PT15M"},
	entry[ReadingOccurrence]{ReadingHourly, "Hourly", "PT1H"},
	entry[ReadingOccurrence]{ReadingMonthly, "Monthly", "P1M"},
	entry[ReadingOccurrence]{ReadingYearly, "Yearly", "P1Y"},
)

func ParseReadingOccurrence(s string) (ReadingOccurrence, error) {
	return readingOccurrences.parse(s)
}
func ReadingOccurrenceFromValue(n int) (ReadingOccurrence, error) {
	return readingOccurrences.fromValue(n)
}
func ReadingOccurrences() []ReadingOccurrence { return readingOccurrences.all() }

func (r ReadingOccurrence) String() string { return r.Name() }
func (r ReadingOccurrence) Name() string   { return readingOccurrences.name(r) }
func (r ReadingOccurrence) Code() string   { return readingOccurrences.code(r) }
func (r ReadingOccurrence) IsValid() bool  { return readingOccurrences.valid(r) }

func (r ReadingOccurrence) MarshalText() ([]byte, error) { return []byte(r.Name()), nil }
func (r *ReadingOccurrence) UnmarshalText(b []byte) error {
	return readingOccurrences.unmarshal(r, b)
}

type MeasurementUnitType int

const (
	UnitKWh MeasurementUnitType = iota + 1
	UnitMWh
	UnitKVArh
	UnitMVArh
	UnitKW
	UnitMW
	UnitTonne
)

var measurementUnitTypes = newTable("measurement unit type",
	entry[MeasurementUnitType]{UnitKWh, "KWh", "KWH"},
	entry[MeasurementUnitType]{UnitMWh, "MWh", "MWH"},
	entry[MeasurementUnitType]{UnitKVArh, "KVArh", "KVR"},
	entry[MeasurementUnitType]{UnitMVArh, "MVArh", "MVR"},
	entry[MeasurementUnitType]{UnitKW, "KW", "KWT"},
	entry[MeasurementUnitType]{UnitMW, "MW", "MAW"},
	entry[MeasurementUnitType]{UnitTonne, "Tonne", "TNE"},
)

func ParseMeasurementUnitType(s string) (MeasurementUnitType, error) {
	return measurementUnitTypes.parse(s)
}
func MeasurementUnitTypeFromValue(n int) (MeasurementUnitType, error) {
	return measurementUnitTypes.fromValue(n)
}
func MeasurementUnitTypes() []MeasurementUnitType { return measurementUnitTypes.all() }

func (u MeasurementUnitType) String() string { return u.Name() }
func (u MeasurementUnitType) Name() string   { return measurementUnitTypes.name(u) }
func (u MeasurementUnitType) Code() string   { return measurementUnitTypes.code(u) }
func (u MeasurementUnitType) IsValid() bool  { return measurementUnitTypes.valid(u) }

func (u MeasurementUnitType) MarshalText() ([]byte, error) { return []byte(u.Name()), nil }
func (u *MeasurementUnitType) UnmarshalText(b []byte) error {
	return measurementUnitTypes.unmarshal(u, b)
}

// ProductType codes are GS1 product numbers.
type ProductType int

const (
	ProductTariff ProductType = iota + 1
	ProductFuelQuantity
	ProductPowerActive
	ProductPowerReactive
	ProductEnergyActive
	ProductEnergyReactive
)

var productTypes = newTable("product type",
	entry[ProductType]{ProductTariff, "Tariff", "5790001330590"},
	entry[ProductType]{ProductFuelQuantity, "FuelQuantity", "5790001330606"},
	entry[ProductType]{ProductPowerActive, "PowerActive", "8716867000016"},
	entry[ProductType]{ProductPowerReactive, "PowerReactive", "8716867000023"},
	entry[ProductType]{ProductEnergyActive, "EnergyActive", "8716867000030"},
	entry[ProductType]{ProductEnergyReactive, "EnergyReactive", "8716867000047"},
)

func ParseProductType(s string) (ProductType, error)  { return productTypes.parse(s) }
func ProductTypeFromValue(n int) (ProductType, error) { return productTypes.fromValue(n) }
func ProductTypes() []ProductType                     { return productTypes.all() }

func (p ProductType) String() string { return p.Name() }
func (p ProductType) Name() string   { return productTypes.name(p) }
func (p ProductType) Code() string   { return productTypes.code(p) }
func (p ProductType) IsValid() bool  { return productTypes.valid(p) }

func (p ProductType) MarshalText() ([]byte, error) { return []byte(p.Name()), nil }
func (p *ProductType) UnmarshalText(b []byte) error {
	return productTypes.unmarshal(p, b)
}

type CountryCode int

const (
	CountryDK CountryCode = iota + 1
)

var countryCodes = newTable("country code",
	entry[CountryCode]{CountryDK, "DK", "DK"},
)

func ParseCountryCode(s string) (CountryCode, error)  { return countryCodes.parse(s) }
func CountryCodeFromValue(n int) (CountryCode, error) { return countryCodes.fromValue(n) }
func CountryCodes() []CountryCode                     { return countryCodes.all() }

func (c CountryCode) String() string { return c.Name() }
func (c CountryCode) Name() string   { return countryCodes.name(c) }
func (c CountryCode) Code() string   { return countryCodes.code(c) }
func (c CountryCode) IsValid() bool  { return countryCodes.valid(c) }

func (c CountryCode) MarshalText() ([]byte, error) { return []byte(c.Name()), nil }
func (c *CountryCode) UnmarshalText(b []byte) error {
	return countryCodes.unmarshal(c, b)
}
