package shared

import (
	"errors"
	"strconv"

	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodePowerLimitFormat rules.Code = "power_limit_format"
	CodePowerLimitRange  rules.Code = "power_limit_range"
)

var ErrInvalidPowerLimit = errors.New("invalid power limit")

const maxPowerLimit = 999999

// PowerLimit holds the kWh and ampere ceilings of a point. Each ceiling is
// optional; an absent ceiling is reported by the second return of its getter.
type PowerLimit struct {
	kwh       int
	ampere    int
	hasKwh    bool
	hasAmpere bool
}

// CheckPowerLimitRules validates both ceilings. Blank means absent.
func CheckPowerLimitRules(kwh, ampere string) rules.Result {
	return checkCeiling(kwh, FieldPowerLimitKwh).Merge(checkCeiling(ampere, FieldPowerLimitAmpere))
}

func checkCeiling(raw, field string) rules.Result {
	if raw == "" {
		return rules.Success()
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return rules.Of(rules.Violation{
			Code:    CodePowerLimitFormat,
			Field:   field,
			Message: "must be a whole number",
		})
	}
	return rules.Evaluate(rules.Check(n < 0 || n > maxPowerLimit, rules.Violation{
		Code:    CodePowerLimitRange,
		Field:   field,
		Message: "must be between 0 and 999999",
	}))
}

func NewPowerLimit(kwh, ampere string) (PowerLimit, error) {
	if r := CheckPowerLimitRules(kwh, ampere); !r.Success() {
		return PowerLimit{}, rules.Broken(ErrInvalidPowerLimit, r)
	}
	var p PowerLimit
	if kwh != "" {
		p.kwh, _ = strconv.Atoi(kwh)
		p.hasKwh = true
	}
	if ampere != "" {
		p.ampere, _ = strconv.Atoi(ampere)
		p.hasAmpere = true
	}
	return p, nil
}

func MustPowerLimit(kwh, ampere string) PowerLimit {
	p, err := NewPowerLimit(kwh, ampere)
	if err != nil {
		panic(err)
	}
	return p
}

func (p PowerLimit) Kwh() (int, bool)    { return p.kwh, p.hasKwh }
func (p PowerLimit) Ampere() (int, bool) { return p.ampere, p.hasAmpere }
func (p PowerLimit) IsZero() bool        { return !p.hasKwh && !p.hasAmpere }
