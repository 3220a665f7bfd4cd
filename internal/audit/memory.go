package audit

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory audit Store for tests.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event

	FailNext error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.events = append(m.events, event)
	return nil
}

// All returns appended events in order.
func (m *MemoryStore) All() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
