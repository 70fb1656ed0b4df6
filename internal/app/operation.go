package app

import (
	"time"

	"attend-go/internal/attend"
)

// Operation tracks one CLI invocation (e.g. "Register", "Recognize") so its
// outcome and duration can be logged when the app closes.
type Operation struct {
	Name      string
	SessionID string
	Status    string // "success" or "error"
	Started   time.Time
	Err       error
}

// NewOperation starts tracking an operation at clock's current time.
func NewOperation(name string, clock attend.Clock, ids attend.IDGenerator) *Operation {
	return &Operation{
		Name:      name,
		SessionID: ids.New(),
		Status:    "success",
		Started:   clock.Now(),
	}
}

// Record marks the operation failed if err is non-nil and returns err.
// The first failure is kept.
func (op *Operation) Record(err error) error {
	if err != nil && op.Err == nil {
		op.Status = "error"
		op.Err = err
	}
	return err
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed(clock attend.Clock) time.Duration {
	return clock.Now().Sub(op.Started)
}
