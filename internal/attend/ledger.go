package attend

import "time"

const (
	// DateLayout and TimeLayout are the persisted attendance formats (DD/MM/YYYY, HH:MM:SS).
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"

	// RegisteredLayout is the persisted registration timestamp format.
	RegisteredLayout = DateLayout + " " + TimeLayout
)

// Event is one attendance record. At most one exists per (StudentID, Date).
type Event struct {
	StudentID string
	Name      string
	At        time.Time
}

// Date returns the event day as DD/MM/YYYY.
func (e *Event) Date() string {
	return e.At.Format(DateLayout)
}

// Time returns the event time of day as HH:MM:SS.
func (e *Event) Time() string {
	return e.At.Format(TimeLayout)
}

// MarkResult is the outcome of a ledger write.
type MarkResult int

const (
	Marked MarkResult = iota
	AlreadyMarked
)

func (r MarkResult) String() string {
	switch r {
	case Marked:
		return "marked"
	case AlreadyMarked:
		return "already marked"
	default:
		return "unknown"
	}
}

// Ledger is the append-only attendance log.
type Ledger interface {
	// Mark appends the event unless a record for the same student and date exists.
	// It returns AlreadyMarked, and persists nothing, in that case.
	Mark(event *Event) (MarkResult, error)

	// List returns every record in insertion order.
	List() ([]*Event, error)
}
