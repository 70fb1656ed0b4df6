package testutil

import (
	"attend-go/internal/encryption"
)

// NewTestEncryptor returns a deterministic encryptor that accepts any passphrase.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}
