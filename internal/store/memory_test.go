package store

import (
	"testing"
	"time"

	"attend-go/internal/attend"
)

func TestMemoryRegistry(t *testing.T) {
	r := NewMemoryRegistry("STU", 3)

	roster, _ := r.Load()
	roster.Add(&attend.Student{ID: "STU001", Name: "Alice"})

	// Not saved yet.
	if again, _ := r.Load(); again.Len() != 0 {
		t.Errorf("Len() before Save = %d, want 0", again.Len())
	}

	if err := r.Save(roster); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	roster.Get("STU001").Name = "Mallory"

	got, _ := r.Load()
	if s := got.Get("STU001"); s == nil || s.Name != "Alice" {
		t.Errorf("Get(STU001) = %+v, want stored copy named Alice", s)
	}
}

func TestMemoryLedger(t *testing.T) {
	l := NewMemoryLedger()
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	if res, _ := l.Mark(&attend.Event{StudentID: "STU001", Name: "Alice", At: at}); res != attend.Marked {
		t.Errorf("first Mark() = %v, want marked", res)
	}
	if res, _ := l.Mark(&attend.Event{StudentID: "STU001", Name: "Alice", At: at.Add(8 * time.Hour)}); res != attend.AlreadyMarked {
		t.Errorf("second Mark() = %v, want already marked", res)
	}

	events, _ := l.List()
	if len(events) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(events))
	}
	events[0].Name = "Mallory"
	if again, _ := l.List(); again[0].Name != "Alice" {
		t.Error("List() returned shared records")
	}
}
