package attend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultIDPrefix and DefaultIDWidth produce ids like "STU001".
	DefaultIDPrefix = "STU"
	DefaultIDWidth  = 3
)

// Student is a registered person whose face samples feed the trainer.
type Student struct {
	ID           string
	Name         string
	RegisteredAt time.Time
	PhotosCount  int
}

// SampleKey names the per-student sample location: "{id}_{name}".
func (s *Student) SampleKey() string {
	return s.ID + "_" + s.Name
}

// CheckName validates a trimmed student name. The name becomes part of the
// sample location, so path separators and control characters are rejected.
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidName, name)
		}
	}
	return nil
}

// Roster is the full student registry as loaded from a Registry.
// Students are kept keyed by id; iteration order is by numeric id suffix.
type Roster struct {
	prefix   string
	width    int
	students map[string]*Student
}

// NewRoster creates an empty roster generating ids with the given prefix and width.
func NewRoster(prefix string, width int) *Roster {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	if width <= 0 {
		width = DefaultIDWidth
	}
	return &Roster{
		prefix:   prefix,
		width:    width,
		students: make(map[string]*Student),
	}
}

// Len returns the number of registered students.
func (r *Roster) Len() int {
	return len(r.students)
}

// Get returns the student with the given id, or nil.
func (r *Roster) Get(id string) *Student {
	return r.students[id]
}

// Put inserts or replaces a student record. Registries use it when loading.
func (r *Roster) Put(s *Student) {
	r.students[s.ID] = s
}

// Add registers a new student. It fails if the id or the name is taken.
func (r *Roster) Add(s *Student) error {
	if _, ok := r.students[s.ID]; ok {
		return fmt.Errorf("student id already exists: %s", s.ID)
	}
	if existing := r.FindByName(s.Name); existing != nil {
		return fmt.Errorf("%w: %q has id %s", ErrDuplicateName, s.Name, existing.ID)
	}
	r.students[s.ID] = s
	return nil
}

// FindByName returns the student whose name matches case-insensitively, or nil.
func (r *Roster) FindByName(name string) *Student {
	for _, s := range r.students {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// NextID returns prefix + (max existing suffix + 1), zero-padded to the roster width.
// Ids that do not carry the prefix or a numeric suffix are ignored.
func (r *Roster) NextID() string {
	highest := 0
	for id := range r.students {
		n, ok := r.suffix(id)
		if ok && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", r.prefix, r.width, highest+1)
}

// Students returns all students ordered by id. Ids with the roster prefix sort
// by numeric suffix; anything else sorts after them lexically.
func (r *Roster) Students() []*Student {
	out := make([]*Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, aok := r.suffix(out[i].ID)
		b, bok := r.suffix(out[j].ID)
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out
}

func (r *Roster) suffix(id string) (int, bool) {
	if !strings.HasPrefix(id, r.prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(r.prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
