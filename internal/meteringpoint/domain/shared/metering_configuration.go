package shared

import (
	"errors"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeMeterRequired   rules.Code = "meter_required"
	CodeMeterNotAllowed rules.Code = "meter_not_allowed"
)

var ErrInvalidMeteringConfiguration = errors.New("invalid metering configuration")

// MeteringConfiguration pairs the metering method with the installed meter.
// Physical points need a meter; virtual and calculated points have none.
type MeteringConfiguration struct {
	method catalog.MeteringMethod
	meter  MeterID
}

func CheckMeteringConfigurationRules(method catalog.MeteringMethod, meterID string) rules.Result {
	var format rules.Result
	if meterID != "" {
		format = CheckMeterIDRules(meterID)
	}
	return rules.Evaluate(
		rules.Check(method.RequiresMeter() && meterID == "", rules.Violation{
			Code:    CodeMeterRequired,
			Field:   FieldMeterID,
			Message: "a physical metering point requires a meter",
		}),
		rules.Check(method.IsValid() && !method.RequiresMeter() && meterID != "", rules.Violation{
			Code:    CodeMeterNotAllowed,
			Field:   FieldMeterID,
			Message: "only physical metering points can have a meter",
		}),
	).Merge(format)
}

func NewMeteringConfiguration(method catalog.MeteringMethod, meterID string) (MeteringConfiguration, error) {
	if r := CheckMeteringConfigurationRules(method, meterID); !r.Success() {
		return MeteringConfiguration{}, rules.Broken(ErrInvalidMeteringConfiguration, r)
	}
	c := MeteringConfiguration{method: method}
	if meterID != "" {
		c.meter = MeterID{value: meterID}
	}
	return c, nil
}

func MustMeteringConfiguration(method catalog.MeteringMethod, meterID string) MeteringConfiguration {
	c, err := NewMeteringConfiguration(method, meterID)
	if err != nil {
		panic(err)
	}
	return c
}

func (c MeteringConfiguration) Method() catalog.MeteringMethod { return c.method }
func (c MeteringConfiguration) Meter() MeterID                 { return c.meter }
func (c MeteringConfiguration) IsZero() bool                   { return c.method == 0 }
