package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "datahub/pkg/domain-errors"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
)

var gridAreaCodePattern = regexp.MustCompile(`^\d{3}$`)

// CreateMeteringPointRequest is the body of POST /metering-points. The
// creation takes effect at the master data's effective date.
type CreateMeteringPointRequest struct {
	GsrnNumber   string           `json:"gsrn_number"`
	Type         string           `json:"type"`
	GridAreaCode string           `json:"grid_area_code"`
	MasterData   masterdata.Input `json:"master_data"`

	parsedGsrn shared.GsrnNumber
	parsedType catalog.MeteringPointType
}

// Validate parses identity fields. Master data is left to the builder so
// that all of its violations are reported together.
func (r *CreateMeteringPointRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	gsrn, err := ParseGsrn(r.GsrnNumber)
	if err != nil {
		return err
	}
	typ, err := parseType(r.Type)
	if err != nil {
		return err
	}
	if err := checkGridAreaCode("grid_area_code", r.GridAreaCode); err != nil {
		return err
	}
	r.parsedGsrn, r.parsedType = gsrn, typ
	return nil
}

func (r *CreateMeteringPointRequest) ParsedGsrn() shared.GsrnNumber         { return r.parsedGsrn }
func (r *CreateMeteringPointRequest) ParsedType() catalog.MeteringPointType { return r.parsedType }

// CreateExchangeMeteringPointRequest is the body of POST /metering-points/exchange.
// The type is always Exchange.
type CreateExchangeMeteringPointRequest struct {
	GsrnNumber       string           `json:"gsrn_number"`
	GridAreaCode     string           `json:"grid_area_code"`
	FromGridAreaCode string           `json:"from_grid_area_code"`
	ToGridAreaCode   string           `json:"to_grid_area_code"`
	MasterData       masterdata.Input `json:"master_data"`

	parsedGsrn shared.GsrnNumber
}

func (r *CreateExchangeMeteringPointRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	gsrn, err := ParseGsrn(r.GsrnNumber)
	if err != nil {
		return err
	}
	codes := []struct{ field, code string }{
		{"grid_area_code", r.GridAreaCode},
		{"from_grid_area_code", r.FromGridAreaCode},
		{"to_grid_area_code", r.ToGridAreaCode},
	}
	for _, c := range codes {
		if err := checkGridAreaCode(c.field, c.code); err != nil {
			return err
		}
	}
	r.parsedGsrn = gsrn
	return nil
}

func (r *CreateExchangeMeteringPointRequest) ParsedGsrn() shared.GsrnNumber { return r.parsedGsrn }

// ConnectionRequest carries the effective date of connect, disconnect,
// reconnect and close-down. GsrnNumber comes from the URL.
type ConnectionRequest struct {
	GsrnNumber    string `json:"-"`
	EffectiveDate string `json:"effective_date"`

	parsedEffective shared.EffectiveDate
}

func (r *ConnectionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	d, err := parseEffectiveDate(r.EffectiveDate)
	if err != nil {
		return err
	}
	r.parsedEffective = d
	return nil
}

func (r *ConnectionRequest) ParsedEffectiveDate() shared.EffectiveDate { return r.parsedEffective }

// ChangeMasterDataRequest is the body of PUT /metering-points/{gsrn}/master-data.
// Only supplied fields change.
type ChangeMasterDataRequest struct {
	GsrnNumber string           `json:"-"`
	MasterData masterdata.Input `json:"master_data"`
}

// ChangeAddressRequest is the body of PUT /metering-points/{gsrn}/address.
type ChangeAddressRequest struct {
	GsrnNumber    string                  `json:"-"`
	Address       masterdata.AddressInput `json:"address"`
	EffectiveDate string                  `json:"effective_date"`

	parsedEffective shared.EffectiveDate
}

func (r *ChangeAddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	d, err := parseEffectiveDate(r.EffectiveDate)
	if err != nil {
		return err
	}
	r.parsedEffective = d
	return nil
}

func (r *ChangeAddressRequest) ParsedEffectiveDate() shared.EffectiveDate { return r.parsedEffective }

// ChangeMeteringConfigurationRequest is the body of
// PUT /metering-points/{gsrn}/metering-configuration. An empty meter id
// removes the meter.
type ChangeMeteringConfigurationRequest struct {
	GsrnNumber     string `json:"-"`
	MeteringMethod string `json:"metering_method"`
	MeterID        string `json:"meter_id"`
	EffectiveDate  string `json:"effective_date"`

	parsedMethod    catalog.MeteringMethod
	parsedEffective shared.EffectiveDate
}

func (r *ChangeMeteringConfigurationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	method, err := catalog.ParseMeteringMethod(r.MeteringMethod)
	if err != nil {
		return fieldError(masterdata.CodeUnknownValue, string(masterdata.FieldMeteringMethod), err.Error())
	}
	d, err := parseEffectiveDate(r.EffectiveDate)
	if err != nil {
		return err
	}
	r.MeterID = strings.TrimSpace(r.MeterID)
	r.parsedMethod, r.parsedEffective = method, d
	return nil
}

func (r *ChangeMeteringConfigurationRequest) ParsedMethod() catalog.MeteringMethod { return r.parsedMethod }
func (r *ChangeMeteringConfigurationRequest) ParsedEffectiveDate() shared.EffectiveDate {
	return r.parsedEffective
}

// SetEnergySupplierRequest is the body of PUT /metering-points/{gsrn}/energy-supplier.
type SetEnergySupplierRequest struct {
	GsrnNumber    string    `json:"-"`
	StartOfSupply time.Time `json:"start_of_supply"`
}

func (r *SetEnergySupplierRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.StartOfSupply.IsZero() {
		return fieldError(masterdata.CodeMandatory, "start_of_supply", "start of supply is required")
	}
	return nil
}

// ValidateMasterDataRequest is the body of POST /metering-points/validate.
type ValidateMasterDataRequest struct {
	Type       string           `json:"type"`
	MasterData masterdata.Input `json:"master_data"`

	parsedType catalog.MeteringPointType
}

func (r *ValidateMasterDataRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	typ, err := parseType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = typ
	return nil
}

func (r *ValidateMasterDataRequest) ParsedType() catalog.MeteringPointType { return r.parsedType }

// ParseGsrn parses a GSRN from external input. A malformed number is a
// validation error carrying the broken rules.
func ParseGsrn(raw string) (shared.GsrnNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shared.GsrnNumber{}, fieldError(masterdata.CodeMandatory, shared.FieldGsrnNumber, "gsrn number is required")
	}
	gsrn, err := shared.NewGsrnNumber(raw)
	if err != nil {
		return shared.GsrnNumber{}, ValidationError(err, "invalid gsrn number")
	}
	return gsrn, nil
}

// ValidationError converts err into a CodeValidation domain error. When err
// carries broken rules they become the error's details.
func ValidationError(err error, message string) error {
	if result, ok := rules.ResultOf(err); ok {
		return dErrors.WithDetails(err, dErrors.CodeValidation, message, result.Violations())
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, message)
}

func parseType(raw string) (catalog.MeteringPointType, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fieldError(masterdata.CodeMandatory, "type", "metering point type is required")
	}
	typ, err := catalog.ParseMeteringPointType(raw)
	if err != nil {
		return 0, fieldError(masterdata.CodeUnknownValue, "type", err.Error())
	}
	return typ, nil
}

func parseEffectiveDate(raw string) (shared.EffectiveDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shared.EffectiveDate{}, fieldError(masterdata.CodeMandatory, shared.FieldEffectiveDate, "effective date is required")
	}
	d, err := shared.NewEffectiveDate(raw)
	if err != nil {
		return shared.EffectiveDate{}, ValidationError(err, "invalid effective date")
	}
	return d, nil
}

func checkGridAreaCode(field, code string) error {
	if !gridAreaCodePattern.MatchString(strings.TrimSpace(code)) {
		return fieldError(CodeGridAreaCodeFormat, field, "grid area code must be three digits")
	}
	return nil
}

func fieldError(code rules.Code, field, message string) error {
	v := rules.Violation{Code: code, Field: field, Message: message}
	return dErrors.WithDetails(v, dErrors.CodeValidation, message, []rules.Violation{v})
}
