package catalog

// MeteringPointType classifies what a metering point measures.
//
// Besides name and market code every type carries a group (1–5) and an
// accounting-point flag. Only accounting points can have an energy supplier.
type MeteringPointType int

const (
	TypeConsumption MeteringPointType = iota + 1
	TypeProduction
	TypeExchange
	TypeVEProduction
	TypeAnalysis
	TypeSurplusProductionGroup
	TypeNetProduction
	TypeSupplyToGrid
	TypeConsumptionFromGrid
	TypeWholesaleServices
	TypeOwnProduction
	TypeNetFromGrid
	TypeNetToGrid
	TypeTotalConsumption
	TypeGridLossCorrection
	TypeElectricalHeating
	TypeNetConsumption
	TypeOtherConsumption
	TypeOtherProduction
	TypeExchangeReactiveEnergy
	TypeInternalUse
)

var meteringPointTypes = newTable("metering point type",
	entry[MeteringPointType]{TypeConsumption, "Consumption", "E17"},
	entry[MeteringPointType]{TypeProduction, "Production", "E18"},
	entry[MeteringPointType]{TypeExchange, "Exchange", "E20"},
	entry[MeteringPointType]{TypeVEProduction, "VEProduction", "D01"},
	entry[MeteringPointType]{TypeAnalysis, "Analysis", "D02"},
	entry[MeteringPointType]{TypeSurplusProductionGroup, "SurplusProductionGroup", "D04"},
	entry[MeteringPointType]{TypeNetProduction, "NetProduction", "D05"},
	entry[MeteringPointType]{TypeSupplyToGrid, "SupplyToGrid", "D06"},
	entry[MeteringPointType]{TypeConsumptionFromGrid, "ConsumptionFromGrid", "D07"},
	entry[MeteringPointType]{TypeWholesaleServices, "WholesaleServices", "D08"},
	entry[MeteringPointType]{TypeOwnProduction, "OwnProduction", "D09"},
	entry[MeteringPointType]{TypeNetFromGrid, "NetFromGrid", "D10"},
	entry[MeteringPointType]{TypeNetToGrid, "NetToGrid", "D11"},
	entry[MeteringPointType]{TypeTotalConsumption, "TotalConsumption", "D12"},
	entry[MeteringPointType]{TypeGridLossCorrection, "GridLossCorrection", "D13"},
	entry[MeteringPointType]{TypeElectricalHeating, "ElectricalHeating", "D14"},
	entry[MeteringPointType]{TypeNetConsumption, "NetConsumption", "D15"},
	entry[MeteringPointType]{TypeOtherConsumption, "OtherConsumption", "D17"},
	entry[MeteringPointType]{TypeOtherProduction, "OtherProduction", "D18"},
	entry[MeteringPointType]{TypeExchangeReactiveEnergy, "ExchangeReactiveEnergy", "D20"},
	entry[MeteringPointType]{TypeInternalUse, "InternalUse", "D99"},
)

type typeAttributes struct {
	group           int
	accountingPoint bool
}

var meteringPointTypeAttributes = map[MeteringPointType]typeAttributes{
	TypeConsumption:            {group: 1, accountingPoint: true},
	TypeProduction:             {group: 1, accountingPoint: true},
	TypeExchange:               {group: 1},
	TypeVEProduction:           {group: 2},
	TypeAnalysis:               {group: 3},
	TypeExchangeReactiveEnergy: {group: 4},
	TypeInternalUse:            {group: 4},
	TypeSurplusProductionGroup: {group: 5},
	TypeNetProduction:          {group: 5},
	TypeSupplyToGrid:           {group: 5},
	TypeConsumptionFromGrid:    {group: 5},
	TypeWholesaleServices:      {group: 5},
	TypeOwnProduction:          {group: 5},
	TypeNetFromGrid:            {group: 5},
	TypeNetToGrid:              {group: 5},
	TypeTotalConsumption:       {group: 5},
	TypeGridLossCorrection:     {group: 5},
	TypeElectricalHeating:      {group: 5},
	TypeNetConsumption:         {group: 5},
	TypeOtherConsumption:       {group: 5},
	TypeOtherProduction:        {group: 5},
}

// ParseMeteringPointType resolves a type by name ("Consumption") or market code ("E17").
func ParseMeteringPointType(s string) (MeteringPointType, error) { return meteringPointTypes.parse(s) }

// MeteringPointTypeFromValue resolves a type by its integer identity.
func MeteringPointTypeFromValue(n int) (MeteringPointType, error) {
	return meteringPointTypes.fromValue(n)
}

// MeteringPointTypes lists every type in declaration order.
func MeteringPointTypes() []MeteringPointType { return meteringPointTypes.all() }

func (t MeteringPointType) String() string { return t.Name() }
func (t MeteringPointType) Name() string   { return meteringPointTypes.name(t) }
func (t MeteringPointType) Code() string   { return meteringPointTypes.code(t) }
func (t MeteringPointType) IsValid() bool  { return meteringPointTypes.valid(t) }

// Group returns the type's group number, 0 for an unset type.
func (t MeteringPointType) Group() int { return meteringPointTypeAttributes[t].group }

// IsAccountingPoint reports whether an energy supplier may be attached.
func (t MeteringPointType) IsAccountingPoint() bool {
	return meteringPointTypeAttributes[t].accountingPoint
}

func (t MeteringPointType) MarshalText() ([]byte, error) { return []byte(t.Name()), nil }
func (t *MeteringPointType) UnmarshalText(b []byte) error {
	return meteringPointTypes.unmarshal(t, b)
}
