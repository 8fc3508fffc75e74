// Package domain holds typed identifiers shared across bounded contexts.
//
// Typed IDs wrap uuid.UUID so a grid-area link can never be passed where a
// metering point id is expected. Construct them via the Parse functions at
// trust boundaries; direct conversion from uuid.UUID is reserved for code that
// generates fresh ids.
package domain

import (
	"github.com/google/uuid"

	dErrors "datahub/pkg/domain-errors"
)

// MeteringPointID is the internal identity of a metering point aggregate.
// It is distinct from the GSRN business key and never changes.
type MeteringPointID uuid.UUID

// GridAreaLinkID references the grid area a metering point belongs to.
type GridAreaLinkID uuid.UUID

// EventID identifies one domain event in the outbox.
type EventID uuid.UUID

// NewMeteringPointID generates a fresh metering point id.
func NewMeteringPointID() MeteringPointID { return MeteringPointID(uuid.New()) }

// NewEventID generates a fresh event id.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id MeteringPointID) String() string { return uuid.UUID(id).String() }
func (id MeteringPointID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id GridAreaLinkID) String() string { return uuid.UUID(id).String() }
func (id GridAreaLinkID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id EventID) String() string { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// ParseMeteringPointID parses external input into a MeteringPointID.
//
// Errors: CodeInvalidInput when the value is empty, malformed or the nil UUID.
func ParseMeteringPointID(s string) (MeteringPointID, error) {
	u, err := parseUUID(s, "metering point id")
	return MeteringPointID(u), err
}

// ParseGridAreaLinkID parses external input into a GridAreaLinkID.
func ParseGridAreaLinkID(s string) (GridAreaLinkID, error) {
	u, err := parseUUID(s, "grid area link id")
	return GridAreaLinkID(u), err
}

// ParseEventID parses external input into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	return EventID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}
