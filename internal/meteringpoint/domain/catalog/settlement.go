package catalog

// NetSettlementGroup is the regulatory classification of self-producing
// installations. Each member carries the group number used on the market.
type NetSettlementGroup int

const (
	NetSettlementGroupZero NetSettlementGroup = iota + 1
	NetSettlementGroupOne
	NetSettlementGroupTwo
	NetSettlementGroupThree
	NetSettlementGroupSix
	NetSettlementGroupNinetyNine
)

var netSettlementGroups = newTable("net settlement group",
	entry[NetSettlementGroup]{NetSettlementGroupZero, "Zero", "0"},
	entry[NetSettlementGroup]{NetSettlementGroupOne, "One", "1"},
	entry[NetSettlementGroup]{NetSettlementGroupTwo, "Two", "2"},
	entry[NetSettlementGroup]{NetSettlementGroupThree, "Three", "3"},
	entry[NetSettlementGroup]{NetSettlementGroupSix, "Six", "6"},
	entry[NetSettlementGroup]{NetSettlementGroupNinetyNine, "NinetyNine", "99"},
)

var netSettlementGroupNumbers = map[NetSettlementGroup]int{
	NetSettlementGroupZero:       0,
	NetSettlementGroupOne:        1,
	NetSettlementGroupTwo:        2,
	NetSettlementGroupThree:      3,
	NetSettlementGroupSix:        6,
	NetSettlementGroupNinetyNine: 99,
}

// ParseNetSettlementGroup accepts a name ("Six") or the group number ("6").
func ParseNetSettlementGroup(s string) (NetSettlementGroup, error) {
	return netSettlementGroups.parse(s)
}

func NetSettlementGroupFromValue(n int) (NetSettlementGroup, error) {
	return netSettlementGroups.fromValue(n)
}

func NetSettlementGroups() []NetSettlementGroup { return netSettlementGroups.all() }

func (g NetSettlementGroup) String() string { return g.Name() }
func (g NetSettlementGroup) Name() string   { return netSettlementGroups.name(g) }
func (g NetSettlementGroup) Code() string   { return netSettlementGroups.code(g) }
func (g NetSettlementGroup) IsValid() bool  { return netSettlementGroups.valid(g) }

// Number returns the regulatory group number, -1 when unset.
func (g NetSettlementGroup) Number() int {
	if n, ok := netSettlementGroupNumbers[g]; ok {
		return n
	}
	return -1
}

// In reports whether g is one of groups.
func (g NetSettlementGroup) In(groups ...NetSettlementGroup) bool {
	for _, other := range groups {
		if g == other {
			return true
		}
	}
	return false
}

func (g NetSettlementGroup) MarshalText() ([]byte, error) { return []byte(g.Name()), nil }
func (g *NetSettlementGroup) UnmarshalText(b []byte) error {
	return netSettlementGroups.unmarshal(g, b)
}

// SettlementMethod is how consumption is settled.
type SettlementMethod int

const (
	SettlementFlex SettlementMethod = iota + 1
	SettlementProfiled
	SettlementNonProfiled
)

var settlementMethods = newTable("settlement method",
	entry[SettlementMethod]{SettlementFlex, "Flex", "D01"},
	entry[SettlementMethod]{SettlementProfiled, "Profiled", "E01"},
	entry[SettlementMethod]{SettlementNonProfiled, "NonProfiled", "E02"},
)

func ParseSettlementMethod(s string) (SettlementMethod, error) { return settlementMethods.parse(s) }
func SettlementMethodFromValue(n int) (SettlementMethod, error) {
	return settlementMethods.fromValue(n)
}
func SettlementMethods() []SettlementMethod { return settlementMethods.all() }

func (m SettlementMethod) String() string { return m.Name() }
func (m SettlementMethod) Name() string   { return settlementMethods.name(m) }
func (m SettlementMethod) Code() string   { return settlementMethods.code(m) }
func (m SettlementMethod) IsValid() bool  { return settlementMethods.valid(m) }

func (m SettlementMethod) MarshalText() ([]byte, error) { return []byte(m.Name()), nil }
func (m *SettlementMethod) UnmarshalText(b []byte) error {
	return settlementMethods.unmarshal(m, b)
}

// MeteringMethod tells whether a point has a physical meter.
type MeteringMethod int

const (
	MeteringPhysical MeteringMethod = iota + 1
	MeteringVirtual
	MeteringCalculated
)

var meteringMethods = newTable("metering method",
	entry[MeteringMethod]{MeteringPhysical, "Physical", "D01"},
	entry[MeteringMethod]{MeteringVirtual, "Virtual", "D02"},
	entry[MeteringMethod]{MeteringCalculated, "Calculated", "D03"},
)

func ParseMeteringMethod(s string) (MeteringMethod, error) { return meteringMethods.parse(s) }
func MeteringMethodFromValue(n int) (MeteringMethod, error) {
	return meteringMethods.fromValue(n)
}
func MeteringMethods() []MeteringMethod { return meteringMethods.all() }

func (m MeteringMethod) String() string { return m.Name() }
func (m MeteringMethod) Name() string   { return meteringMethods.name(m) }
func (m MeteringMethod) Code() string   { return meteringMethods.code(m) }
func (m MeteringMethod) IsValid() bool  { return meteringMethods.valid(m) }

// RequiresMeter is true for Physical only.
func (m MeteringMethod) RequiresMeter() bool { return m == MeteringPhysical }

func (m MeteringMethod) MarshalText() ([]byte, error) { return []byte(m.Name()), nil }
func (m *MeteringMethod) UnmarshalText(b []byte) error {
	return meteringMethods.unmarshal(m, b)
}
