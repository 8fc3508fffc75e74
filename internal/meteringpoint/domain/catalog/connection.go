package catalog

type ConnectionType int

const (
	ConnectionDirect ConnectionType = iota + 1
	ConnectionInstallation
)

var connectionTypes = newTable("connection type",
	entry[ConnectionType]{ConnectionDirect, "Direct", "D01"},
	entry[ConnectionType]{ConnectionInstallation, "Installation", "D02"},
)

func ParseConnectionType(s string) (ConnectionType, error) { return connectionTypes.parse(s) }
func ConnectionTypeFromValue(n int) (ConnectionType, error) {
	return connectionTypes.fromValue(n)
}
func ConnectionTypes() []ConnectionType { return connectionTypes.all() }

func (c ConnectionType) String() string { return c.Name() }
func (c ConnectionType) Name() string   { return connectionTypes.name(c) }
func (c ConnectionType) Code() string   { return connectionTypes.code(c) }
func (c ConnectionType) IsValid() bool  { return connectionTypes.valid(c) }

func (c ConnectionType) MarshalText() ([]byte, error) { return []byte(c.Name()), nil }
func (c *ConnectionType) UnmarshalText(b []byte) error {
	return connectionTypes.unmarshal(c, b)
}

type DisconnectionType int

const (
	DisconnectionRemote DisconnectionType = iota + 1
	DisconnectionManual
)

var disconnectionTypes = newTable("disconnection type",
	entry[DisconnectionType]{DisconnectionRemote, "Remote", "D01"},
	entry[DisconnectionType]{DisconnectionManual, "Manual", "D02"},
)

func ParseDisconnectionType(s string) (DisconnectionType, error) {
	return disconnectionTypes.parse(s)
}
func DisconnectionTypeFromValue(n int) (DisconnectionType, error) {
	return disconnectionTypes.fromValue(n)
}
func DisconnectionTypes() []DisconnectionType { return disconnectionTypes.all() }

func (d DisconnectionType) String() string { return d.Name() }
func (d DisconnectionType) Name() string   { return disconnectionTypes.name(d) }
func (d DisconnectionType) Code() string   { return disconnectionTypes.code(d) }
func (d DisconnectionType) IsValid() bool  { return disconnectionTypes.valid(d) }

func (d DisconnectionType) MarshalText() ([]byte, error) { return []byte(d.Name()), nil }
func (d *DisconnectionType) UnmarshalText(b []byte) error {
	return disconnectionTypes.unmarshal(d, b)
}

// PhysicalState is the connection state of a metering point. States only
// advance: New, then Connected and Disconnected alternating, then ClosedDown.
type PhysicalState int

const (
	StateNew PhysicalState = iota + 1
	StateConnected
	StateDisconnected
	StateClosedDown
)

var physicalStates = newTable("physical state",
	entry[PhysicalState]{StateNew, "New", "D03"},
	entry[PhysicalState]{StateConnected, "Connected", "E22"},
	entry[PhysicalState]{StateDisconnected, "Disconnected", "E23"},
	entry[PhysicalState]{StateClosedDown, "ClosedDown", "D02"},
)

func ParsePhysicalState(s string) (PhysicalState, error) { return physicalStates.parse(s) }
func PhysicalStateFromValue(n int) (PhysicalState, error) {
	return physicalStates.fromValue(n)
}
func PhysicalStates() []PhysicalState { return physicalStates.all() }

func (p PhysicalState) String() string { return p.Name() }
func (p PhysicalState) Name() string   { return physicalStates.name(p) }
func (p PhysicalState) Code() string   { return physicalStates.code(p) }
func (p PhysicalState) IsValid() bool  { return physicalStates.valid(p) }

// IsTerminal is true for ClosedDown.
func (p PhysicalState) IsTerminal() bool { return p == StateClosedDown }

func (p PhysicalState) MarshalText() ([]byte, error) { return []byte(p.Name()), nil }
func (p *PhysicalState) UnmarshalText(b []byte) error {
	return physicalStates.unmarshal(p, b)
}
