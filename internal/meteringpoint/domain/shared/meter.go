package shared

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeMeterIDLength     rules.Code = "meter_id_length"
	CodeMeterIDWhitespace rules.Code = "meter_id_whitespace"
)

var ErrInvalidMeterID = errors.New("invalid meter id")

const maxMeterIDLength = 10

// MeterID identifies the physical meter installed at a point.
type MeterID struct {
	value string
}

func CheckMeterIDRules(raw string) rules.Result {
	n := utf8.RuneCountInString(raw)
	return rules.Evaluate(
		rules.Check(n == 0 || n > maxMeterIDLength, rules.Violation{
			Code:    CodeMeterIDLength,
			Field:   FieldMeterID,
			Message: "must be 1 to 10 characters",
		}),
		rules.Check(strings.IndexFunc(raw, unicode.IsSpace) >= 0, rules.Violation{
			Code:    CodeMeterIDWhitespace,
			Field:   FieldMeterID,
			Message: "must not contain whitespace",
		}),
	)
}

func NewMeterID(raw string) (MeterID, error) {
	if r := CheckMeterIDRules(raw); !r.Success() {
		return MeterID{}, rules.Broken(ErrInvalidMeterID, r)
	}
	return MeterID{value: raw}, nil
}

func MustMeterID(raw string) MeterID {
	m, err := NewMeterID(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func (m MeterID) String() string { return m.value }
func (m MeterID) IsZero() bool   { return m.value == "" }
