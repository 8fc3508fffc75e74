package meteringpoint

import (
	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
)

// transitionRule is a per-type guard on connect, disconnect and reconnect.
type transitionRule func(mp *MeteringPoint, d ConnectionDetails) rules.Result

// transitionRules is the per-type lookup replacing subclass overrides.
// Types without an entry only carry the state machine rules.
var transitionRules = map[catalog.MeteringPointType][]transitionRule{
	catalog.TypeConsumption: {energySupplierInPlace},
	catalog.TypeProduction:  {energySupplierInPlace},
}

func (mp *MeteringPoint) typeRules(d ConnectionDetails) rules.Result {
	r := rules.Success()
	for _, rule := range transitionRules[mp.typ] {
		r = r.Merge(rule(mp, d))
	}
	return r
}

// transitionAcceptable is the shared guard of every state transition. On a
// closed down point it reports only the closed down violation.
func (mp *MeteringPoint) transitionAcceptable(from catalog.PhysicalState, code rules.Code, d ConnectionDetails) rules.Result {
	if mp.connection.IsClosedDown() {
		return rules.Of(closedDown)
	}
	return mp.connection.stateRules(from, code, d).Merge(mp.typeRules(d))
}
