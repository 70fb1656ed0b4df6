package encryption

import (
	"fmt"

	"attend-go/internal/attend"
	"attend-go/internal/config"
)

// NewEncryptorFromConfig creates the sample Encryptor for the configured type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (attend.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
