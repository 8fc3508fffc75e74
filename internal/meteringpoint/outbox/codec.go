package outbox

import (
	"encoding/json"
	"fmt"
)

func envelopeJSON(env Envelope) []byte {
	// Envelope holds only marshalable fields.
	b, _ := json.Marshal(env)
	return b
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
