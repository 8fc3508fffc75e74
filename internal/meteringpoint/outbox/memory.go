package outbox

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/pkg/requestcontext"
)

// Memory is an in-process outbox for development and tests.
type Memory struct {
	mu        sync.Mutex
	entries   []Envelope
	published map[uuid.UUID]bool
}

func NewMemory() *Memory {
	return &Memory{published: make(map[uuid.UUID]bool)}
}

// Append implements ports.Outbox.
func (m *Memory) Append(ctx context.Context, events []meteringpoint.Event) error {
	envs, err := envelopesOf(events, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, envs...)
	return nil
}

// Pending returns up to limit unpublished envelopes, oldest first.
func (m *Memory) Pending(_ context.Context, limit int) ([]Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Envelope
	for _, e := range m.entries {
		if len(out) == limit {
			break
		}
		if !m.published[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.published[id] = true
	}
	return nil
}

// All returns every envelope ever appended.
func (m *Memory) All() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Envelope(nil), m.entries...)
}
