// Package outbox records domain events transactionally and relays them to a
// message bus. Delivery is at least once; consumers deduplicate on the
// envelope id.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"datahub/internal/meteringpoint/domain/meteringpoint"
)

// AggregateType tags every envelope written by the registry.
const AggregateType = "metering_point"

// Envelope is the published form of one domain event.
type Envelope struct {
	ID          uuid.UUID       `json:"id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	GsrnNumber  string          `json:"gsrn_number"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEnvelope wraps e with a fresh id.
func NewEnvelope(e meteringpoint.Event, occurredAt time.Time) (Envelope, error) {
	payload, err := payloadOf(e)
	if err != nil {
		return Envelope{}, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", e.EventName(), err)
	}
	return Envelope{
		ID:          uuid.New(),
		EventType:   e.EventName(),
		AggregateID: e.AggregateID().String(),
		GsrnNumber:  e.Gsrn().String(),
		OccurredAt:  occurredAt.UTC(),
		Payload:     raw,
	}, nil
}

func envelopesOf(events []meteringpoint.Event, occurredAt time.Time) ([]Envelope, error) {
	out := make([]Envelope, 0, len(events))
	for _, e := range events {
		env, err := NewEnvelope(e, occurredAt)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}
