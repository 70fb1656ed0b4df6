package samples

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"attend-go/internal/attend"
)

const encryptedExt = ".age"

// FileSystemStore keeps face photos as image files, one directory per student:
//
//	<root>/
//	  STU001_Alice/
//	    photo_1.jpg
//	    photo_2.jpg      (photo_2.jpg.age when encrypted)
type FileSystemStore struct {
	root      string
	quality   int
	encryptor attend.Encryptor // nil stores plaintext

	mu  sync.Mutex
	dec attend.DecryptionContext
}

// NewFileSystemStore creates a store rooted at root. When enc is non-nil new
// photos are encrypted and reading them requires Unlock.
func NewFileSystemStore(root string, enc attend.Encryptor) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sample directory: %w", err)
	}
	return &FileSystemStore{root: root, quality: 95, encryptor: enc}, nil
}

// Unlock enables reading encrypted photos for the rest of the session.
func (s *FileSystemStore) Unlock(dc attend.DecryptionContext) {
	s.mu.Lock()
	s.dec = dc
	s.mu.Unlock()
}

// Encrypted reports whether new photos are written encrypted.
func (s *FileSystemStore) Encrypted() bool {
	return s.encryptor != nil
}

// Put encodes frame as JPEG and stores it as photo_<seq>.jpg.
func (s *FileSystemStore) Put(student *attend.Student, seq int, frame image.Image) (string, error) {
	dir := filepath.Join(s.root, student.SampleKey())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create sample directory: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("encoding photo: %w", err)
	}

	name := fmt.Sprintf("photo_%d.jpg", seq)
	var data io.Reader = &buf
	if s.encryptor != nil {
		var sealed bytes.Buffer
		if err := s.encryptor.Encrypt(&buf, &sealed); err != nil {
			return "", fmt.Errorf("encrypting photo: %w", err)
		}
		name += encryptedExt
		data = &sealed
	}

	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return "", err
	}
	return name, nil
}

// List returns the student's image files sorted by name. A missing student
// directory is not an error.
func (s *FileSystemStore) List(student *attend.Student) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, student.SampleKey()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing samples for %s: %w", student.ID, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if isImageName(strings.TrimSuffix(e.Name(), encryptedExt)) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load decodes one photo. Encrypted photos need a prior Unlock; otherwise the
// error wraps attend.ErrSamplesLocked.
func (s *FileSystemStore) Load(student *attend.Student, name string) (image.Image, error) {
	path := filepath.Join(s.root, student.SampleKey(), name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sample: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, encryptedExt) {
		s.mu.Lock()
		dc := s.dec
		s.mu.Unlock()
		if dc == nil {
			return nil, fmt.Errorf("%w: %s", attend.ErrSamplesLocked, path)
		}
		var plain bytes.Buffer
		if err := dc.Decrypt(f, &plain); err != nil {
			return nil, fmt.Errorf("decrypting %s: %w", path, err)
		}
		r = &plain
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Delete removes the student's sample directory.
func (s *FileSystemStore) Delete(student *attend.Student) error {
	if err := os.RemoveAll(filepath.Join(s.root, student.SampleKey())); err != nil {
		return fmt.Errorf("deleting samples for %s: %w", student.ID, err)
	}
	return nil
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// writeFile writes r to path through a temp file and rename.
func writeFile(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sample: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ attend.SampleStore = (*FileSystemStore)(nil)
