package store

import (
	"sync"

	"attend-go/internal/attend"
)

// MemoryRegistry keeps the roster in memory. Safe for concurrent use.
type MemoryRegistry struct {
	mu       sync.Mutex
	prefix   string
	width    int
	students []attend.Student
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry(idPrefix string, idWidth int) *MemoryRegistry {
	return &MemoryRegistry{prefix: idPrefix, width: idWidth}
}

// Load returns a fresh copy of the stored roster.
func (m *MemoryRegistry) Load() (*attend.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roster := attend.NewRoster(m.prefix, m.width)
	for i := range m.students {
		s := m.students[i]
		roster.Put(&s)
	}
	return roster, nil
}

// Save replaces the stored roster with a copy of roster.
func (m *MemoryRegistry) Save(roster *attend.Roster) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.students = m.students[:0]
	for _, s := range roster.Students() {
		m.students = append(m.students, *s)
	}
	return nil
}

// MemoryLedger keeps attendance in memory. Safe for concurrent use.
type MemoryLedger struct {
	mu     sync.Mutex
	events []attend.Event
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Mark appends the event unless the student already has a record for its date.
func (m *MemoryLedger) Mark(event *attend.Event) (attend.MarkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	date := event.Date()
	for i := range m.events {
		if m.events[i].StudentID == event.StudentID && m.events[i].Date() == date {
			return attend.AlreadyMarked, nil
		}
	}
	m.events = append(m.events, *event)
	return attend.Marked, nil
}

// List returns copies of all records in insertion order.
func (m *MemoryLedger) List() ([]*attend.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*attend.Event, len(m.events))
	for i := range m.events {
		e := m.events[i]
		out[i] = &e
	}
	return out, nil
}

var (
	_ attend.Registry = (*MemoryRegistry)(nil)
	_ attend.Ledger   = (*MemoryLedger)(nil)
)
