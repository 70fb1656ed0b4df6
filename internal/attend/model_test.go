package attend_test

import (
	"image"
	"testing"

	"attend-go/internal/attend"
)

type stubModel struct {
	label      int
	confidence float64
}

func (m stubModel) Predict(*image.Gray) (int, float64, error) { return m.label, m.confidence, nil }
func (m stubModel) Close() error                              { return nil }

func TestTrainedModel_Classify(t *testing.T) {
	labels := attend.NewLabelIndex()
	labels.Assign(attend.Identity{StudentID: "STU001", Name: "Alice"})

	tests := []struct {
		name       string
		label      int
		confidence float64
		want       bool
	}{
		{name: "close match", label: 0, confidence: 35, want: true},
		{name: "just below threshold", label: 0, confidence: 69.99, want: true},
		{name: "at threshold is unknown", label: 0, confidence: 70, want: false},
		{name: "far", label: 0, confidence: 120, want: false},
		{name: "label outside index", label: 7, confidence: 10, want: false},
	}

	face := image.NewGray(image.Rect(0, 0, 4, 4))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := attend.NewTrainedModel("g1", stubModel{tt.label, tt.confidence}, labels, 1)

			got, err := m.Classify(face, attend.DefaultThreshold)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Recognized != tt.want {
				t.Errorf("Recognized = %v, want %v", got.Recognized, tt.want)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.confidence)
			}
			if tt.want && got.Identity.StudentID != "STU001" {
				t.Errorf("Identity = %+v, want STU001", got.Identity)
			}
		})
	}
}

func TestLabelIndex(t *testing.T) {
	x := attend.NewLabelIndex()
	alice := attend.Identity{StudentID: "STU001", Name: "Alice"}
	bob := attend.Identity{StudentID: "STU002", Name: "Bob"}

	if got := x.Assign(alice); got != 0 {
		t.Errorf("Assign(alice) = %d, want 0", got)
	}
	if got := x.Assign(bob); got != 1 {
		t.Errorf("Assign(bob) = %d, want 1", got)
	}
	if got := x.Assign(alice); got != 0 {
		t.Errorf("second Assign(alice) = %d, want 0", got)
	}
	if x.Len() != 2 {
		t.Errorf("Len() = %d, want 2", x.Len())
	}
	if id, ok := x.Lookup(1); !ok || id != bob {
		t.Errorf("Lookup(1) = %v, %v", id, ok)
	}
	if _, ok := x.Lookup(2); ok {
		t.Error("Lookup(2) should miss")
	}
	if _, ok := x.Lookup(-1); ok {
		t.Error("Lookup(-1) should miss")
	}
	if l, ok := x.Label("STU002"); !ok || l != 1 {
		t.Errorf("Label(STU002) = %d, %v", l, ok)
	}
}
