package meteringpoint

import (
	"errors"

	"datahub/internal/meteringpoint/domain/rules"
)

// Kinds of *rules.RulesBrokenError returned by the aggregate. errors.Is
// matches them.
var (
	ErrCannotCreate     = errors.New("cannot create metering point")
	ErrCannotConnect    = errors.New("cannot connect metering point")
	ErrCannotDisconnect = errors.New("cannot disconnect metering point")
	ErrCannotReconnect  = errors.New("cannot reconnect metering point")
	ErrCannotChange     = errors.New("cannot change metering point")
)

// ErrCannotAssignEnergySupplier is an invariant violation: only accounting
// points carry an energy supplier. Callers must check the type first.
var ErrCannotAssignEnergySupplier = errors.New("cannot assign energy supplier")

const (
	CodeClosedDown                 rules.Code = "closed_down"
	CodeUnknownType                rules.Code = "unknown_metering_point_type"
	CodeExchangeNeedsGridAreas     rules.Code = "exchange_requires_source_and_target_grid_area"
	CodeExchangeSameGridArea       rules.Code = "exchange_source_equals_target_grid_area"
	CodeMustBeNew                  rules.Code = "physical_state_must_be_new"
	CodeMustBeConnected            rules.Code = "physical_state_must_be_connected"
	CodeMustBeDisconnected         rules.Code = "physical_state_must_be_disconnected"
	CodeBeforeLastTransition       rules.Code = "effective_date_before_last_transition"
	CodeEnergySupplierRequired     rules.Code = "energy_supplier_required"
	CodeSupplyStartsAfterEffective rules.Code = "start_of_supply_after_effective_date"
)

var closedDown = rules.Violation{
	Code:    CodeClosedDown,
	Message: "metering point is closed down and cannot be changed",
}
