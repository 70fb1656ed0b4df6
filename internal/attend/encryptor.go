package attend

import "io"

// Encryptor handles encryption of face samples and unlocking for decryption.
// Encryption uses the public key only; decryption requires a passphrase to
// unlock the private key, producing a DecryptionContext for the session.
type Encryptor interface {
	// Setup generates a key pair, stores the public key in plaintext, and
	// encrypts the private key with the passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist at configured paths.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory. The key is never
// written to disk.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
