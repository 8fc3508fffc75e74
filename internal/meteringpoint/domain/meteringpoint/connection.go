package meteringpoint

import (
	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

// ConnectionState is the physical state and the effective date of the last
// transition into it.
//
// Invariants:
//   - starts in New
//   - New → Connected → Disconnected ⇄ Connected; any state → ClosedDown
//   - ClosedDown is terminal
type ConnectionState struct {
	PhysicalState catalog.PhysicalState
	EffectiveAt   shared.EffectiveDate
}

// ConnectionDetails are the inputs of connect, disconnect and reconnect.
type ConnectionDetails struct {
	EffectiveDate shared.EffectiveDate
}

var transitions = map[catalog.PhysicalState][]catalog.PhysicalState{
	catalog.StateNew:          {catalog.StateConnected, catalog.StateClosedDown},
	catalog.StateConnected:    {catalog.StateDisconnected, catalog.StateClosedDown},
	catalog.StateDisconnected: {catalog.StateConnected, catalog.StateClosedDown},
}

// CanTransitionTo reports whether the state machine allows next.
func (c ConnectionState) CanTransitionTo(next catalog.PhysicalState) bool {
	for _, allowed := range transitions[c.PhysicalState] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (c ConnectionState) IsClosedDown() bool { return c.PhysicalState == catalog.StateClosedDown }

func (c ConnectionState) moveTo(next catalog.PhysicalState, at shared.EffectiveDate) ConnectionState {
	return ConnectionState{PhysicalState: next, EffectiveAt: at}
}

// stateRules checks that the point is in the expected state and that the
// transition does not predate the previous one.
func (c ConnectionState) stateRules(expected catalog.PhysicalState, code rules.Code, d ConnectionDetails) rules.Result {
	return rules.Evaluate(
		rules.Check(c.PhysicalState != expected, rules.Violation{
			Code:    code,
			Message: "metering point is " + c.PhysicalState.Name() + ", must be " + expected.Name(),
		}),
		rules.Check(d.EffectiveDate.Before(c.EffectiveAt), rules.Violation{
			Code:    CodeBeforeLastTransition,
			Field:   shared.FieldEffectiveDate,
			Message: "effective date is before the last state transition " + c.EffectiveAt.String(),
		}),
	)
}
