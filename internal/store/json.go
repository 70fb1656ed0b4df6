package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"attend-go/internal/attend"
)

// studentRecord is the on-disk shape of one registry entry:
//
//	{"STU001": {"name": "Alice", "registration_date": "01/01/2024 09:00:00", "photos_count": 10}}
type studentRecord struct {
	Name             string `json:"name"`
	RegistrationDate string `json:"registration_date"`
	PhotosCount      int    `json:"photos_count"`
}

// JSONRegistry stores the roster as a JSON object keyed by student id.
type JSONRegistry struct {
	path     string
	prefix   string
	width    int
	location *time.Location
}

// NewJSONRegistry creates a registry backed by the file at path. The file is
// created on first Save. Registration timestamps are read in loc.
func NewJSONRegistry(path, idPrefix string, idWidth int, loc *time.Location) *JSONRegistry {
	if loc == nil {
		loc = time.Local
	}
	return &JSONRegistry{path: path, prefix: idPrefix, width: idWidth, location: loc}
}

// Load reads the whole registry, returning an empty roster if the file does not exist.
func (r *JSONRegistry) Load() (*attend.Roster, error) {
	roster := attend.NewRoster(r.prefix, r.width)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return roster, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var records map[string]studentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding registry %s: %w", r.path, err)
	}

	for id, rec := range records {
		registered, err := time.ParseInLocation(attend.RegisteredLayout, rec.RegistrationDate, r.location)
		if err != nil {
			return nil, fmt.Errorf("parsing registration date of %s: %w", id, err)
		}
		roster.Put(&attend.Student{
			ID:           id,
			Name:         rec.Name,
			RegisteredAt: registered,
			PhotosCount:  rec.PhotosCount,
		})
	}
	return roster, nil
}

// Save writes the whole roster, replacing the file.
func (r *JSONRegistry) Save(roster *attend.Roster) error {
	records := make(map[string]studentRecord, roster.Len())
	for _, s := range roster.Students() {
		records[s.ID] = studentRecord{
			Name:             s.Name,
			RegistrationDate: s.RegisteredAt.Format(attend.RegisteredLayout),
			PhotosCount:      s.PhotosCount,
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("writing registry %s: %w", r.path, err)
	}
	return nil
}

var _ attend.Registry = (*JSONRegistry)(nil)
