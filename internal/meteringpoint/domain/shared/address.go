package shared

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeMaxLength           rules.Code = "max_length"
	CodeStreetCodeFormat    rules.Code = "street_code_format"
	CodePostCodeFormat      rules.Code = "post_code_format"
	CodeMunicipalityFormat  rules.Code = "municipality_code_format"
	CodeCountryCodeUnknown  rules.Code = "country_code_unknown"
	CodeGeoInfoReference    rules.Code = "geo_info_reference_format"
	CodeLocationDescription rules.Code = "location_description_length"
)

var (
	ErrInvalidAddress             = errors.New("invalid address")
	ErrInvalidLocationDescription = errors.New("invalid location description")
)

var (
	streetCodePattern   = regexp.MustCompile(`^\d{4}$`)
	danishPostCode      = regexp.MustCompile(`^\d{4}$`)
	municipalityPattern = regexp.MustCompile(`^\d{3}$`)
)

const maxLocationDescriptionLength = 60

// LocationDescription is free text locating the point, e.g. "basement".
type LocationDescription struct {
	value string
}

func CheckLocationDescriptionRules(raw string) rules.Result {
	return rules.Evaluate(rules.Check(utf8.RuneCountInString(raw) > maxLocationDescriptionLength, rules.Violation{
		Code:    CodeLocationDescription,
		Field:   FieldLocationDescription,
		Message: "must be at most 60 characters",
	}))
}

func NewLocationDescription(raw string) (LocationDescription, error) {
	if r := CheckLocationDescriptionRules(raw); !r.Success() {
		return LocationDescription{}, rules.Broken(ErrInvalidLocationDescription, r)
	}
	return LocationDescription{value: raw}, nil
}

func (l LocationDescription) String() string { return l.value }
func (l LocationDescription) IsZero() bool   { return l.value == "" }

// AddressParts is the raw form of an address. Blank parts are absent.
type AddressParts struct {
	StreetName          string
	StreetCode          string
	BuildingNumber      string
	City                string
	CitySubDivision     string
	PostCode            string
	CountryCode         string
	Floor               string
	Room                string
	MunicipalityCode    string
	LocationDescription string
	GeoInfoReference    string
	IsActualAddress     *bool
}

// Address is the installation address of a metering point. Which parts must
// be present depends on the metering point type and is decided by the master
// data builder; the address itself only checks the format of each part.
type Address struct {
	streetName          string
	streetCode          string
	buildingNumber      string
	city                string
	citySubDivision     string
	postCode            string
	countryCode         catalog.CountryCode
	floor               string
	room                string
	municipalityCode    string
	locationDescription LocationDescription
	geoInfoReference    uuid.UUID
	isActualAddress     *bool
}

var addressMaxLengths = []struct {
	field string
	max   int
	value func(AddressParts) string
}{
	{FieldStreetName, 40, func(p AddressParts) string { return p.StreetName }},
	{FieldBuildingNumber, 6, func(p AddressParts) string { return p.BuildingNumber }},
	{FieldCity, 25, func(p AddressParts) string { return p.City }},
	{FieldCitySubDivision, 34, func(p AddressParts) string { return p.CitySubDivision }},
	{FieldFloor, 4, func(p AddressParts) string { return p.Floor }},
	{FieldRoom, 4, func(p AddressParts) string { return p.Room }},
}

func CheckAddressRules(p AddressParts) rules.Result {
	var checks []rules.Rule
	for _, l := range addressMaxLengths {
		checks = append(checks, rules.Check(utf8.RuneCountInString(l.value(p)) > l.max, rules.Violation{
			Code:    CodeMaxLength,
			Field:   l.field,
			Message: fmt.Sprintf("must be at most %d characters", l.max),
		}))
	}

	country, countryErr := catalog.CountryCode(0), error(nil)
	if p.CountryCode != "" {
		country, countryErr = catalog.ParseCountryCode(p.CountryCode)
	}

	checks = append(checks,
		rules.Check(p.StreetCode != "" && !validStreetCode(p.StreetCode), rules.Violation{
			Code:    CodeStreetCodeFormat,
			Field:   FieldStreetCode,
			Message: "must be 4 digits between 0001 and 9999",
		}),
		rules.Check(p.PostCode != "" && !validPostCode(p.PostCode, country), rules.Violation{
			Code:    CodePostCodeFormat,
			Field:   FieldPostCode,
			Message: "must be 4 digits for DK, otherwise at most 10 characters",
		}),
		rules.Check(p.MunicipalityCode != "" && !validMunicipalityCode(p.MunicipalityCode), rules.Violation{
			Code:    CodeMunicipalityFormat,
			Field:   FieldMunicipalityCode,
			Message: "must be 3 digits between 100 and 999",
		}),
		rules.Check(countryErr != nil, rules.Violation{
			Code:    CodeCountryCodeUnknown,
			Field:   FieldCountryCode,
			Message: "unknown country code",
		}),
		rules.Check(p.GeoInfoReference != "" && !validGeoInfoReference(p.GeoInfoReference), rules.Violation{
			Code:    CodeGeoInfoReference,
			Field:   FieldGeoInfoReference,
			Message: "must be a UUID",
		}),
	)
	return rules.Evaluate(checks...).Merge(CheckLocationDescriptionRules(p.LocationDescription))
}

func NewAddress(p AddressParts) (Address, error) {
	if r := CheckAddressRules(p); !r.Success() {
		return Address{}, rules.Broken(ErrInvalidAddress, r)
	}
	a := Address{
		streetName:          p.StreetName,
		streetCode:          p.StreetCode,
		buildingNumber:      p.BuildingNumber,
		city:                p.City,
		citySubDivision:     p.CitySubDivision,
		postCode:            p.PostCode,
		floor:               p.Floor,
		room:                p.Room,
		municipalityCode:    p.MunicipalityCode,
		locationDescription: LocationDescription{value: p.LocationDescription},
	}
	if p.CountryCode != "" {
		a.countryCode, _ = catalog.ParseCountryCode(p.CountryCode)
	}
	if p.GeoInfoReference != "" {
		a.geoInfoReference, _ = uuid.Parse(p.GeoInfoReference)
	}
	if p.IsActualAddress != nil {
		v := *p.IsActualAddress
		a.isActualAddress = &v
	}
	return a, nil
}

func MustAddress(p AddressParts) Address {
	a, err := NewAddress(p)
	if err != nil {
		panic(err)
	}
	return a
}

// Parts returns the raw form of the address, the inverse of NewAddress.
func (a Address) Parts() AddressParts {
	p := AddressParts{
		StreetName:          a.streetName,
		StreetCode:          a.streetCode,
		BuildingNumber:      a.buildingNumber,
		City:                a.city,
		CitySubDivision:     a.citySubDivision,
		PostCode:            a.postCode,
		CountryCode:         a.countryCode.Name(),
		Floor:               a.floor,
		Room:                a.room,
		MunicipalityCode:    a.municipalityCode,
		LocationDescription: a.locationDescription.String(),
	}
	if a.geoInfoReference != uuid.Nil {
		p.GeoInfoReference = a.geoInfoReference.String()
	}
	if a.isActualAddress != nil {
		v := *a.isActualAddress
		p.IsActualAddress = &v
	}
	return p
}

func (a Address) StreetName() string                       { return a.streetName }
func (a Address) StreetCode() string                       { return a.streetCode }
func (a Address) BuildingNumber() string                   { return a.buildingNumber }
func (a Address) City() string                             { return a.city }
func (a Address) CitySubDivision() string                  { return a.citySubDivision }
func (a Address) PostCode() string                         { return a.postCode }
func (a Address) CountryCode() catalog.CountryCode         { return a.countryCode }
func (a Address) Floor() string                            { return a.floor }
func (a Address) Room() string                             { return a.room }
func (a Address) MunicipalityCode() string                 { return a.municipalityCode }
func (a Address) LocationDescription() LocationDescription { return a.locationDescription }
func (a Address) GeoInfoReference() uuid.UUID              { return a.geoInfoReference }

// IsActualAddress reports the flag and whether it was set at all.
func (a Address) IsActualAddress() (bool, bool) {
	if a.isActualAddress == nil {
		return false, false
	}
	return *a.isActualAddress, true
}

func (a Address) Equal(other Address) bool {
	ap, op := a.Parts(), other.Parts()
	if (ap.IsActualAddress == nil) != (op.IsActualAddress == nil) {
		return false
	}
	if ap.IsActualAddress != nil && *ap.IsActualAddress != *op.IsActualAddress {
		return false
	}
	ap.IsActualAddress, op.IsActualAddress = nil, nil
	return ap == op
}

func (a Address) IsZero() bool { return a.Equal(Address{}) }

func validStreetCode(s string) bool {
	if !streetCodePattern.MatchString(s) {
		return false
	}
	n, _ := strconv.Atoi(s)
	return n >= 1
}

func validPostCode(s string, country catalog.CountryCode) bool {
	if country == catalog.CountryDK {
		return danishPostCode.MatchString(s)
	}
	return utf8.RuneCountInString(s) <= 10
}

func validMunicipalityCode(s string) bool {
	if !municipalityPattern.MatchString(s) {
		return false
	}
	n, _ := strconv.Atoi(s)
	return n >= 100
}

func validGeoInfoReference(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
