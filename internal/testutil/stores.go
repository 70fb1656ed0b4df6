package testutil

import (
	"attend-go/internal/attend"
	"attend-go/internal/samples"
	"attend-go/internal/store"
)

// Backends is an in-memory set of service collaborators.
type Backends struct {
	Registry *store.MemoryRegistry
	Ledger   *store.MemoryLedger
	Samples  *samples.MemoryStore
	Detector *FakeDetector
	Trainer  *FakeTrainer
	Clock    *StubClock
	IDs      *StubIDGenerator
}

// NewBackends creates empty in-memory backends with a FixedClock.
func NewBackends() *Backends {
	return &Backends{
		Registry: store.NewMemoryRegistry("STU", 3),
		Ledger:   store.NewMemoryLedger(),
		Samples:  samples.NewMemoryStore(),
		Detector: &FakeDetector{},
		Trainer:  &FakeTrainer{},
		Clock:    FixedClock(),
		IDs:      NewStubIDGenerator(),
	}
}

// Dependencies wires the backends into attend.Dependencies.
func (b *Backends) Dependencies() attend.Dependencies {
	return attend.Dependencies{
		Registry: b.Registry,
		Ledger:   b.Ledger,
		Samples:  b.Samples,
		Detector: b.Detector,
		Trainer:  b.Trainer,
		Clock:    b.Clock,
		IDs:      b.IDs,
	}
}

// NewService creates a Service over the backends with default settings.
func (b *Backends) NewService() *attend.Service {
	return attend.NewService(b.Dependencies(), attend.DefaultSettings())
}
