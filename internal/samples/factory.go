package samples

import (
	"fmt"

	"attend-go/internal/attend"
	"attend-go/internal/config"
)

// Lockable is implemented by stores whose samples may need a decryption
// context before they can be read.
type Lockable interface {
	Encrypted() bool
	Unlock(dc attend.DecryptionContext)
}

// NewSampleStoreFromConfig creates a SampleStore for the configured type.
// enc is used only when cfg.Encrypted is set.
func NewSampleStoreFromConfig(cfg config.SamplesConfig, enc attend.Encryptor) (attend.SampleStore, error) {
	switch cfg.Type {
	case "filesystem", "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem samples require dir to be set")
		}
		if !cfg.Encrypted {
			return NewFileSystemStore(cfg.Dir, nil)
		}
		if enc == nil || !enc.IsConfigured() {
			return nil, fmt.Errorf("encrypted samples need a key pair; run `attend keys init`")
		}
		return NewFileSystemStore(cfg.Dir, enc)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown samples type: %s", cfg.Type)
	}
}

var _ Lockable = (*FileSystemStore)(nil)
