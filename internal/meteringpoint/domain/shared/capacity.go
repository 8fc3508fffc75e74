package shared

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeCapacityFormat         rules.Code = "capacity_format"
	CodeCapacityNegative       rules.Code = "capacity_negative"
	CodeCapacityIntegerDigits  rules.Code = "capacity_integer_digits"
	CodeCapacityFractionDigits rules.Code = "capacity_fraction_digits"
)

var ErrInvalidCapacity = errors.New("invalid capacity")

// plainDecimal rejects exponent notation and signs other than a leading '-'.
var plainDecimal = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

const (
	maxCapacityIntegerDigits  = 8
	maxCapacityFractionDigits = 1
)

// Capacity is the installed capacity of a point in kW.
//
// Invariants:
//   - non-negative decimal
//   - at most 8 integer digits and 1 fraction digit
type Capacity struct {
	kw decimal.Decimal
	ok bool
}

func CheckCapacityRules(raw string) rules.Result {
	if !plainDecimal.MatchString(raw) {
		return rules.Of(rules.Violation{
			Code:    CodeCapacityFormat,
			Field:   FieldCapacity,
			Message: "must be a decimal number",
		})
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return rules.Of(rules.Violation{
			Code:    CodeCapacityFormat,
			Field:   FieldCapacity,
			Message: "must be a decimal number",
		})
	}
	integerPart, _, _ := strings.Cut(strings.TrimPrefix(raw, "-"), ".")
	integerDigits := len(strings.TrimLeft(integerPart, "0"))
	return rules.Evaluate(
		rules.Check(d.IsNegative(), rules.Violation{
			Code:    CodeCapacityNegative,
			Field:   FieldCapacity,
			Message: "must not be negative",
		}),
		rules.Check(integerDigits > maxCapacityIntegerDigits, rules.Violation{
			Code:    CodeCapacityIntegerDigits,
			Field:   FieldCapacity,
			Message: "must have at most 8 integer digits",
		}),
		rules.Check(!d.Equal(d.Truncate(maxCapacityFractionDigits)), rules.Violation{
			Code:    CodeCapacityFractionDigits,
			Field:   FieldCapacity,
			Message: "must have at most 1 fraction digit",
		}),
	)
}

func NewCapacity(raw string) (Capacity, error) {
	if r := CheckCapacityRules(raw); !r.Success() {
		return Capacity{}, rules.Broken(ErrInvalidCapacity, r)
	}
	d, _ := decimal.NewFromString(raw)
	return Capacity{kw: d, ok: true}, nil
}

func MustCapacity(raw string) Capacity {
	c, err := NewCapacity(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Kw returns the capacity in kilowatts.
func (c Capacity) Kw() decimal.Decimal { return c.kw }
func (c Capacity) IsZero() bool        { return !c.ok }

// Equal compares numerically, so "10" equals "10.0".
func (c Capacity) Equal(other Capacity) bool {
	return c.ok == other.ok && c.kw.Equal(other.kw)
}

func (c Capacity) String() string {
	if !c.ok {
		return ""
	}
	return c.kw.StringFixed(maxCapacityFractionDigits)
}
