package shared

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeEffectiveDateFormat    rules.Code = "effective_date_format"
	CodeEffectiveDateTimeOfDay rules.Code = "effective_date_time_of_day"
	CodeScheduledDateFormat    rules.Code = "scheduled_meter_reading_date_format"
)

var (
	ErrInvalidEffectiveDate             = errors.New("invalid effective date")
	ErrInvalidScheduledMeterReadingDate = errors.New("invalid scheduled meter reading date")
)

// EffectiveDateLayout is the only accepted effective date format.
const EffectiveDateLayout = "2006-01-02T15:04:05Z"

// EffectiveDate is the instant a change takes effect. It always denotes local
// Danish midnight, i.e. 23:00 UTC in winter and 22:00 UTC in summer.
type EffectiveDate struct {
	value time.Time
}

func CheckEffectiveDateRules(raw string) rules.Result {
	t, err := time.Parse(EffectiveDateLayout, raw)
	if err != nil {
		return rules.Of(rules.Violation{
			Code:    CodeEffectiveDateFormat,
			Field:   FieldEffectiveDate,
			Message: "must be formatted as yyyy-MM-ddTHH:mm:ssZ",
		})
	}
	return rules.Evaluate(rules.Check(!isLocalMidnight(t), rules.Violation{
		Code:    CodeEffectiveDateTimeOfDay,
		Field:   FieldEffectiveDate,
		Message: "time of day must be 22:00:00 or 23:00:00 UTC",
	}))
}

func NewEffectiveDate(raw string) (EffectiveDate, error) {
	if r := CheckEffectiveDateRules(raw); !r.Success() {
		return EffectiveDate{}, rules.Broken(ErrInvalidEffectiveDate, r)
	}
	t, _ := time.Parse(EffectiveDateLayout, raw)
	return EffectiveDate{value: t.UTC()}, nil
}

// EffectiveDateFromTime accepts an already parsed instant under the same rules.
func EffectiveDateFromTime(t time.Time) (EffectiveDate, error) {
	return NewEffectiveDate(t.UTC().Format(EffectiveDateLayout))
}

func MustEffectiveDate(raw string) EffectiveDate {
	d, err := NewEffectiveDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d EffectiveDate) Time() time.Time { return d.value }
func (d EffectiveDate) IsZero() bool    { return d.value.IsZero() }

func (d EffectiveDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.value.Format(EffectiveDateLayout)
}

func (d EffectiveDate) Before(other EffectiveDate) bool { return d.value.Before(other.value) }
func (d EffectiveDate) Equal(other EffectiveDate) bool  { return d.value.Equal(other.value) }

func isLocalMidnight(t time.Time) bool {
	return (t.Hour() == 22 || t.Hour() == 23) && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

var scheduledDatePattern = regexp.MustCompile(`^\d{4}$`)

// ScheduledMeterReadingDate is the yearly reading day as MMdd. Readings are
// always scheduled on the first of a month.
type ScheduledMeterReadingDate struct {
	value string
}

func CheckScheduledMeterReadingDateRules(raw string) rules.Result {
	return rules.Evaluate(rules.Check(!validScheduledDate(raw), rules.Violation{
		Code:    CodeScheduledDateFormat,
		Field:   FieldScheduledMeterReadingDate,
		Message: "must be MMdd with month 01-12 and day 01",
	}))
}

func NewScheduledMeterReadingDate(raw string) (ScheduledMeterReadingDate, error) {
	if r := CheckScheduledMeterReadingDateRules(raw); !r.Success() {
		return ScheduledMeterReadingDate{}, rules.Broken(ErrInvalidScheduledMeterReadingDate, r)
	}
	return ScheduledMeterReadingDate{value: raw}, nil
}

func (s ScheduledMeterReadingDate) String() string { return s.value }
func (s ScheduledMeterReadingDate) IsZero() bool   { return s.value == "" }

// Month returns the scheduled month, 0 when unset.
func (s ScheduledMeterReadingDate) Month() time.Month {
	if s.IsZero() {
		return 0
	}
	m, _ := strconv.Atoi(s.value[:2])
	return time.Month(m)
}

func validScheduledDate(raw string) bool {
	if !scheduledDatePattern.MatchString(raw) {
		return false
	}
	month, _ := strconv.Atoi(raw[:2])
	return month >= 1 && month <= 12 && raw[2:] == "01"
}
