package attend

// Registry persists the student roster. Stores are read-entire/write-entire.
type Registry interface {
	// Load returns the full roster, or an empty roster if nothing has been stored yet.
	Load() (*Roster, error)

	// Save persists the full roster, overwriting prior contents.
	Save(roster *Roster) error
}
