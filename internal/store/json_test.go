package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"attend-go/internal/attend"
)

func TestJSONRegistry(t *testing.T) {
	registered := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("missing file is empty roster", func(t *testing.T) {
		r := NewJSONRegistry(filepath.Join(t.TempDir(), "students_database.json"), "STU", 3, time.UTC)

		roster, err := r.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if roster.Len() != 0 {
			t.Errorf("Len() = %d, want 0", roster.Len())
		}
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "students_database.json")
		r := NewJSONRegistry(path, "STU", 3, time.UTC)

		roster := attend.NewRoster("STU", 3)
		roster.Add(&attend.Student{ID: "STU001", Name: "Alice", RegisteredAt: registered, PhotosCount: 10})
		roster.Add(&attend.Student{ID: "STU002", Name: "Bob", RegisteredAt: registered, PhotosCount: 4})
		if err := r.Save(roster); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := r.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		alice := got.Get("STU001")
		if alice == nil || alice.Name != "Alice" || alice.PhotosCount != 10 || !alice.RegisteredAt.Equal(registered) {
			t.Errorf("Get(STU001) = %+v", alice)
		}
		if got.NextID() != "STU003" {
			t.Errorf("NextID() = %q, want STU003", got.NextID())
		}
	})

	t.Run("file format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "students_database.json")
		r := NewJSONRegistry(path, "STU", 3, time.UTC)

		roster := attend.NewRoster("STU", 3)
		roster.Add(&attend.Student{ID: "STU001", Name: "Alice", RegisteredAt: registered, PhotosCount: 10})
		if err := r.Save(roster); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var raw map[string]map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("registry is not a JSON object: %v", err)
		}
		rec := raw["STU001"]
		if rec["name"] != "Alice" || rec["registration_date"] != "01/01/2024 09:00:00" || rec["photos_count"] != float64(10) {
			t.Errorf("record = %v", rec)
		}
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "students_database.json")
		os.WriteFile(path, []byte("{not json"), 0644)

		if _, err := NewJSONRegistry(path, "STU", 3, time.UTC).Load(); err == nil {
			t.Error("Load() expected error")
		}
	})
}
