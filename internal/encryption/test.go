package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"attend-go/internal/attend"
)

// testHeader marks samples written by TestEncryptor.
var testHeader = []byte("ATTEND\x00\x01")

// ErrWrongPassphrase is returned by TestEncryptor.Unlock for a passphrase
// other than the one given to Setup.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. It prefixes a
// fixed header on Encrypt and strips it on Decrypt, so stored bytes never
// decode as an image without unlocking first.
type TestEncryptor struct {
	passphrase string
	configured bool
}

var _ attend.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a TestEncryptor that accepts any passphrase until Setup.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{configured: true}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying sample: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (attend.DecryptionContext, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return e.configured
}

// TestDecryptionContext strips the header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ attend.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("not a test-encrypted sample")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying sample: %w", err)
	}
	return nil
}
