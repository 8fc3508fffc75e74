package shared

import (
	"errors"
	"regexp"

	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeGsrnFormat     rules.Code = "gsrn_format"
	CodeGsrnCheckDigit rules.Code = "gsrn_check_digit"
)

// ErrInvalidGsrnNumber is the kind of the error returned by NewGsrnNumber.
var ErrInvalidGsrnNumber = errors.New("invalid GSRN number")

var gsrnPattern = regexp.MustCompile(`^57\d{16}$`)

// GsrnNumber is the market-wide business key of a metering point.
//
// Invariants:
//   - exactly 18 digits
//   - starts with 57
//   - last digit is the GS1 mod-10 check digit of the first 17
type GsrnNumber struct {
	value string
}

func CheckGsrnNumberRules(raw string) rules.Result {
	formatOK := gsrnPattern.MatchString(raw)
	return rules.Evaluate(
		rules.Check(!formatOK, rules.Violation{
			Code:    CodeGsrnFormat,
			Field:   FieldGsrnNumber,
			Message: "must be 18 digits starting with 57",
		}),
		rules.Check(formatOK && !gsrnCheckDigitOK(raw), rules.Violation{
			Code:    CodeGsrnCheckDigit,
			Field:   FieldGsrnNumber,
			Message: "check digit does not match",
		}),
	)
}

func NewGsrnNumber(raw string) (GsrnNumber, error) {
	if r := CheckGsrnNumberRules(raw); !r.Success() {
		return GsrnNumber{}, rules.Broken(ErrInvalidGsrnNumber, r)
	}
	return GsrnNumber{value: raw}, nil
}

// MustGsrnNumber panics on invalid input. Use in tests only.
func MustGsrnNumber(raw string) GsrnNumber {
	g, err := NewGsrnNumber(raw)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GsrnNumber) String() string { return g.value }
func (g GsrnNumber) IsZero() bool   { return g.value == "" }

// gsrnCheckDigitOK weights the first 17 digits 3,1,3,… from the right.
func gsrnCheckDigitOK(digits string) bool {
	sum := 0
	weight := 3
	for i := len(digits) - 2; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight
	}
	check := (10 - sum%10) % 10
	return check == int(digits[len(digits)-1]-'0')
}
