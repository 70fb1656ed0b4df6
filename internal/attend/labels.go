package attend

// Identity is the persisted identity a numeric label stands for.
type Identity struct {
	StudentID string
	Name      string
}

// LabelIndex maps student ids to dense numeric labels assigned in encounter
// order starting at 0. An index belongs to exactly one trained model and is
// never persisted.
type LabelIndex struct {
	identities []Identity
	labels     map[string]int
}

// NewLabelIndex creates an empty index.
func NewLabelIndex() *LabelIndex {
	return &LabelIndex{labels: make(map[string]int)}
}

// Assign returns the label for the identity, allocating the next one on first encounter.
func (x *LabelIndex) Assign(id Identity) int {
	if label, ok := x.labels[id.StudentID]; ok {
		return label
	}
	label := len(x.identities)
	x.identities = append(x.identities, id)
	x.labels[id.StudentID] = label
	return label
}

// Lookup resolves a label back to its identity.
func (x *LabelIndex) Lookup(label int) (Identity, bool) {
	if label < 0 || label >= len(x.identities) {
		return Identity{}, false
	}
	return x.identities[label], true
}

// Label returns the label assigned to a student id.
func (x *LabelIndex) Label(studentID string) (int, bool) {
	label, ok := x.labels[studentID]
	return label, ok
}

// Len returns the number of labels assigned.
func (x *LabelIndex) Len() int {
	return len(x.identities)
}

// Identities returns a copy of all identities in label order.
func (x *LabelIndex) Identities() []Identity {
	return append([]Identity(nil), x.identities...)
}
