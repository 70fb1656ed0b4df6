package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"attend-go/internal/attend"
)

var ledgerHeader = []string{"Student_ID", "Name", "Time", "Date"}

// CSVLedger stores attendance as CSV with a header row:
//
//	Student_ID,Name,Time,Date
//	STU001,Alice,09:00:00,01/01/2024
//
// Every Mark reads the whole file and, when it appends, rewrites it.
type CSVLedger struct {
	path     string
	location *time.Location
}

// NewCSVLedger creates a ledger backed by the file at path. Times are read in loc.
func NewCSVLedger(path string, loc *time.Location) *CSVLedger {
	if loc == nil {
		loc = time.Local
	}
	return &CSVLedger{path: path, location: loc}
}

// Mark appends the event unless the student already has a record for its date.
func (l *CSVLedger) Mark(event *attend.Event) (attend.MarkResult, error) {
	events, err := l.List()
	if err != nil {
		return attend.AlreadyMarked, err
	}

	date := event.Date()
	for _, e := range events {
		if e.StudentID == event.StudentID && e.Date() == date {
			return attend.AlreadyMarked, nil
		}
	}

	if err := l.write(append(events, event)); err != nil {
		return attend.AlreadyMarked, err
	}
	return attend.Marked, nil
}

// List returns all records in file order. A missing file is an empty ledger.
func (l *CSVLedger) List() ([]*attend.Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ledgerHeader)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}
	columns, err := ledgerColumns(header)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", l.path, err)
	}

	var events []*attend.Event
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ledger row: %w", err)
		}

		at, err := time.ParseInLocation(attend.DateLayout+" "+attend.TimeLayout,
			row[columns["Date"]]+" "+row[columns["Time"]], l.location)
		if err != nil {
			return nil, fmt.Errorf("parsing ledger row for %s: %w", row[columns["Student_ID"]], err)
		}
		events = append(events, &attend.Event{
			StudentID: row[columns["Student_ID"]],
			Name:      row[columns["Name"]],
			At:        at,
		})
	}
	return events, nil
}

func (l *CSVLedger) write(events []*attend.Event) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ledgerHeader); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	for _, e := range events {
		if err := w.Write([]string{e.StudentID, e.Name, e.Time(), e.Date()}); err != nil {
			return fmt.Errorf("encoding ledger: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	if err := writeFileAtomic(l.path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing ledger %s: %w", l.path, err)
	}
	return nil
}

// ledgerColumns maps column names to positions so files written with
// reordered columns still load.
func ledgerColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range ledgerHeader {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return columns, nil
}

var _ attend.Ledger = (*CSVLedger)(nil)
