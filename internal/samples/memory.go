package samples

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"attend-go/internal/attend"
)

// MemoryStore keeps photos in memory keyed by student sample key.
// Safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	photos map[string]map[string]image.Image
}

// NewMemoryStore creates an empty in-memory sample store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{photos: make(map[string]map[string]image.Image)}
}

func (m *MemoryStore) Put(student *attend.Student, seq int, frame image.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := student.SampleKey()
	if m.photos[key] == nil {
		m.photos[key] = make(map[string]image.Image)
	}
	name := fmt.Sprintf("photo_%d.jpg", seq)
	m.photos[key][name] = frame
	return name, nil
}

func (m *MemoryStore) List(student *attend.Student) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for name := range m.photos[student.SampleKey()] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) Load(student *attend.Student, name string) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, ok := m.photos[student.SampleKey()][name]
	if !ok {
		return nil, fmt.Errorf("sample not found: %s/%s", student.SampleKey(), name)
	}
	return img, nil
}

func (m *MemoryStore) Delete(student *attend.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.photos, student.SampleKey())
	return nil
}

// Count returns the number of photos stored for student.
func (m *MemoryStore) Count(student *attend.Student) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.photos[student.SampleKey()])
}

var _ attend.SampleStore = (*MemoryStore)(nil)
