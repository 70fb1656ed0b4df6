package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attend-go/internal/attend"
	"attend-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase stores the student registry and the attendance ledger in one
// SQLite file. It implements attend.Registry and attend.Ledger.
type SQLiteDatabase struct {
	db     *sql.DB
	path   string
	prefix string
	width  int
}

// NewSQLiteDatabase opens the database at path, creating its directory if needed.
// path can be a file path or ":memory:" for an in-memory database.
// The schema is not applied; call Migrate.
func NewSQLiteDatabase(path, idPrefix string, idWidth int) (*SQLiteDatabase, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:     db,
		path:   path,
		prefix: idPrefix,
		width:  idWidth,
	}, nil
}

// OpenConnection opens and configures a SQLite connection.
// A single connection is used so ":memory:" databases survive across calls.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Migrate brings the schema to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	if err := migrations.MigrateUp(s.db); err != nil {
		return fmt.Errorf("migrating %s: %w", s.path, err)
	}
	return nil
}

// CheckMigrations verifies the schema is at the version this binary embeds.
// A database that was never migrated returns migrations.ErrNeedsMigration.
func (s *SQLiteDatabase) CheckMigrations() error {
	if err := migrations.CheckStatus(s.db); err != nil {
		return fmt.Errorf("checking schema of %s: %w", s.path, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Registry

func (s *SQLiteDatabase) Load() (*attend.Roster, error) {
	rows, err := s.db.Query("SELECT id, name, registered_at, photos_count FROM students")
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	defer rows.Close()

	roster := attend.NewRoster(s.prefix, s.width)
	for rows.Next() {
		var (
			st         attend.Student
			registered string
		)
		if err := rows.Scan(&st.ID, &st.Name, &registered, &st.PhotosCount); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		st.RegisteredAt, err = time.Parse(time.RFC3339Nano, registered)
		if err != nil {
			return nil, fmt.Errorf("student %s: bad registered_at %q: %w", st.ID, registered, err)
		}
		roster.Put(&st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	return roster, nil
}

// Save replaces the stored roster in a single transaction.
func (s *SQLiteDatabase) Save(roster *attend.Roster) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM students"); err != nil {
		return fmt.Errorf("clearing students: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO students (id, name, name_key, registered_at, photos_count)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range roster.Students() {
		_, err := stmt.Exec(st.ID, st.Name, strings.ToLower(st.Name),
			st.RegisteredAt.Format(time.RFC3339Nano), st.PhotosCount)
		if err != nil {
			return fmt.Errorf("saving student %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing students: %w", err)
	}
	return nil
}

// Ledger

// Mark inserts the event. The UNIQUE(student_id, date) constraint keeps the
// first record of the day; a conflicting insert reports AlreadyMarked.
func (s *SQLiteDatabase) Mark(event *attend.Event) (attend.MarkResult, error) {
	res, err := s.db.Exec(`INSERT INTO attendance (student_id, name, date, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (student_id, date) DO NOTHING`,
		event.StudentID, event.Name, event.Date(), event.At.Format(time.RFC3339Nano))
	if err != nil {
		return attend.AlreadyMarked, fmt.Errorf("recording attendance for %s: %w", event.StudentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return attend.AlreadyMarked, fmt.Errorf("recording attendance for %s: %w", event.StudentID, err)
	}
	if n == 0 {
		return attend.AlreadyMarked, nil
	}
	return attend.Marked, nil
}

func (s *SQLiteDatabase) List() ([]*attend.Event, error) {
	rows, err := s.db.Query("SELECT student_id, name, recorded_at FROM attendance ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	defer rows.Close()

	var events []*attend.Event
	for rows.Next() {
		var (
			e  attend.Event
			at string
		)
		if err := rows.Scan(&e.StudentID, &e.Name, &at); err != nil {
			return nil, fmt.Errorf("scanning attendance: %w", err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("attendance for %s: bad recorded_at %q: %w", e.StudentID, at, err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	return events, nil
}

var (
	_ attend.Registry = (*SQLiteDatabase)(nil)
	_ attend.Ledger   = (*SQLiteDatabase)(nil)
)
