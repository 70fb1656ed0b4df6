package attend

// markedToday is the in-memory fast path of the per-day dedup. It holds the
// student ids marked on one day and resets itself when asked about another day.
type markedToday struct {
	day string
	ids map[string]struct{}
}

func newMarkedToday() *markedToday {
	return &markedToday{ids: make(map[string]struct{})}
}

func (m *markedToday) rollover(day string) {
	if m.day != day {
		m.day = day
		m.ids = make(map[string]struct{})
	}
}

// Has reports whether the student was already handled on day.
func (m *markedToday) Has(studentID, day string) bool {
	m.rollover(day)
	_, ok := m.ids[studentID]
	return ok
}

// Add records the student as handled on day.
func (m *markedToday) Add(studentID, day string) {
	m.rollover(day)
	m.ids[studentID] = struct{}{}
}
