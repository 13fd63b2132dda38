package publish

import (
	"context"
	"sync"

	"github.com/dshills/venuetrust/internal/trust"
)

// Mock is a test double that records published events.
type Mock struct {
	Err error

	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Publish(_ context.Context, r *trust.Report) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, NewEvent(r))
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events returns a copy of everything published so far.
func (m *Mock) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Closed reports whether Close has been called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
