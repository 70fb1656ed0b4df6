package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"attend-go/internal/attend"
	"attend-go/internal/config"
)

// ErrKeysExist is returned by Setup when a key pair is already present.
var ErrKeysExist = errors.New("encryption keys already exist")

// AgeEncryptor encrypts face samples with an X25519 age key pair. The
// recipient (public key) is stored in plaintext. The identity (private key)
// is sealed with the operator's passphrase using age's scrypt recipient.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string

	recipient age.Recipient // loaded on first Encrypt
}

var _ attend.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor for the configured key paths.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a key pair. It refuses to replace existing keys, since
// samples encrypted to the old recipient would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if e.IsConfigured() {
		return ErrKeysExist
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	sealed, err := sealIdentity(identity, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.privateKeyPath, sealed, 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	e.recipient = identity.Recipient()
	return nil
}

// Encrypt writes the age ciphertext of r to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if e.recipient == nil {
		recipient, err := readRecipient(e.publicKeyPath)
		if err != nil {
			return err
		}
		e.recipient = recipient
	}

	enc, err := age.Encrypt(w, e.recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(enc, r); err != nil {
		return fmt.Errorf("encrypting sample: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Unlock opens the sealed identity with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (attend.DecryptionContext, error) {
	sealed, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	identity, err := openIdentity(sealed, passphrase)
	if err != nil {
		return nil, err
	}
	return &AgeDecryptionContext{identity: identity}, nil
}

// IsConfigured reports whether both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

func sealIdentity(identity *age.X25519Identity, passphrase string) ([]byte, error) {
	scrypt, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, scrypt)
	if err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	return buf.Bytes(), nil
}

func openIdentity(sealed []byte, passphrase string) (age.Identity, error) {
	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}

	identities, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identity in private key file")
	}
	return identities[0], nil
}

func readRecipient(path string) (age.Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipient in %s", path)
	}
	return recipients[0], nil
}

// AgeDecryptionContext holds an unlocked identity for the session.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ attend.DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt writes the plaintext of the age ciphertext in r to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	dec, err := age.Decrypt(r, c.identity)
	if err != nil {
		return fmt.Errorf("opening encrypted sample: %w", err)
	}
	if _, err := io.Copy(w, dec); err != nil {
		return fmt.Errorf("decrypting sample: %w", err)
	}
	return nil
}
