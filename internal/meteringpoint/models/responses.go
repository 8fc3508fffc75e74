package models

import (
	"time"

	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
)

const (
	CodeGridAreaCodeFormat rules.Code = "grid_area_code_format"
	CodeUnknownGridArea    rules.Code = "unknown_grid_area"
)

// MeteringPointResponse is the read model returned by every endpoint that
// touches a metering point.
type MeteringPointResponse struct {
	ID               string            `json:"id"`
	GsrnNumber       string            `json:"gsrn_number"`
	Type             string            `json:"type"`
	TypeCode         string            `json:"type_code"`
	GridAreaLinkID   string            `json:"grid_area_link_id"`
	Exchange         *ExchangeResponse `json:"exchange,omitempty"`
	PhysicalState    string            `json:"physical_state"`
	StateEffectiveAt time.Time         `json:"state_effective_at"`
	StartOfSupply    *time.Time        `json:"start_of_supply,omitempty"`
	MasterData       masterdata.Input  `json:"master_data"`
	Version          int               `json:"version"`
}

type ExchangeResponse struct {
	FromGridAreaLinkID string `json:"from_grid_area_link_id"`
	ToGridAreaLinkID   string `json:"to_grid_area_link_id"`
}

// CommandResponse is returned by mutating endpoints. Events is empty when
// the command changed nothing.
type CommandResponse struct {
	MeteringPoint MeteringPointResponse `json:"metering_point"`
	Events        []string              `json:"events"`
}

// Violation is one broken business rule as rendered to clients.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResponse is the body of POST /metering-points/validate.
type ValidationResponse struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description,omitempty"`
	Violations       []Violation `json:"violations,omitempty"`
}

// FromMeteringPoint renders an aggregate.
func FromMeteringPoint(mp *meteringpoint.MeteringPoint) MeteringPointResponse {
	s := mp.Snapshot()
	resp := MeteringPointResponse{
		ID:               s.ID.String(),
		GsrnNumber:       s.GsrnNumber,
		Type:             s.Type.Name(),
		TypeCode:         s.Type.Code(),
		GridAreaLinkID:   s.GridAreaLinkID.String(),
		PhysicalState:    s.PhysicalState.Name(),
		StateEffectiveAt: s.StateEffectiveAt,
		StartOfSupply:    s.StartOfSupply,
		MasterData:       s.MasterData,
		Version:          s.Version,
	}
	if s.ExchangeFrom != nil && s.ExchangeTo != nil {
		resp.Exchange = &ExchangeResponse{
			FromGridAreaLinkID: s.ExchangeFrom.String(),
			ToGridAreaLinkID:   s.ExchangeTo.String(),
		}
	}
	return resp
}

// FromCommand renders the outcome of a mutating operation.
func FromCommand(mp *meteringpoint.MeteringPoint, events []meteringpoint.Event) CommandResponse {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventName())
	}
	return CommandResponse{MeteringPoint: FromMeteringPoint(mp), Events: names}
}

// FromViolations renders broken rules. The result is never nil so clients
// always see an array.
func FromViolations(vs []rules.Violation) []Violation {
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		out = append(out, Violation{Code: string(v.Code), Field: v.Field, Message: v.Message})
	}
	return out
}

// FromResult renders a pre-validation result.
func FromResult(r rules.Result) ValidationResponse {
	return ValidationResponse{Valid: r.Success(), Violations: FromViolations(r.Violations())}
}
