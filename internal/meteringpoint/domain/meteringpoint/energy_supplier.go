package meteringpoint

import (
	"time"

	"datahub/internal/meteringpoint/domain/rules"
)

// EnergySupplierDetails is the supply association of an accounting point.
// Only the start of supply is compared when deciding whether it changed.
type EnergySupplierDetails struct {
	StartOfSupply time.Time
}

// supplyPrecision is the finest resolution a stored start of supply keeps.
const supplyPrecision = time.Microsecond

func (d EnergySupplierDetails) normalized() EnergySupplierDetails {
	return EnergySupplierDetails{StartOfSupply: d.StartOfSupply.UTC().Truncate(supplyPrecision)}
}

func (d EnergySupplierDetails) sameAs(other EnergySupplierDetails) bool {
	return d.StartOfSupply.Equal(other.StartOfSupply)
}

// energySupplierInPlace requires a supplier whose supply has started by the
// transition's effective date.
func energySupplierInPlace(mp *MeteringPoint, d ConnectionDetails) rules.Result {
	supplier := mp.energySupplier
	return rules.Evaluate(
		rules.Check(supplier == nil, rules.Violation{
			Code:    CodeEnergySupplierRequired,
			Message: "metering point must have an energy supplier",
		}),
		rules.Check(supplier != nil && supplier.StartOfSupply.After(d.EffectiveDate.Time()), rules.Violation{
			Code:    CodeSupplyStartsAfterEffective,
			Message: "energy supplier start of supply is after the effective date",
		}),
	)
}
