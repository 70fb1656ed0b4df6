package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"attend-go/internal/config"
)

func newTestKeyConfig(t *testing.T) config.EncryptionConfig {
	t.Helper()
	dir := t.TempDir()
	return config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "attend.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "attend.key"),
	}
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()

	t.Run("configures key pair", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		if e.IsConfigured() {
			t.Fatal("IsConfigured() = true before Setup")
		}
		if err := e.Setup("passphrase"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if !e.IsConfigured() {
			t.Error("IsConfigured() = false after Setup")
		}
	})

	t.Run("private key is not world readable", func(t *testing.T) {
		t.Parallel()
		cfg := newTestKeyConfig(t)
		e := NewAgeEncryptor(cfg)
		if err := e.Setup("passphrase"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		info, err := os.Stat(cfg.PrivateKeyPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("private key mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		if err := e.Setup("passphrase"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if err := e.Setup("another"); !errors.Is(err, ErrKeysExist) {
			t.Errorf("second Setup() error = %v, want ErrKeysExist", err)
		}
	})

	t.Run("rejects empty passphrase", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		if err := e.Setup(""); err == nil {
			t.Error("Setup(\"\") expected error")
		}
	})
}

func TestAgeEncryptor_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := newTestKeyConfig(t)
	if err := NewAgeEncryptor(cfg).Setup("passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	// A fresh encryptor reads the recipient from disk.
	e := NewAgeEncryptor(cfg)
	input := bytes.Repeat([]byte{0xff, 0xd8, 0x00, 0x7f}, 4096)

	var encrypted bytes.Buffer
	if err := e.Encrypt(bytes.NewReader(input), &encrypted); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(encrypted.Bytes(), input[:64]) {
		t.Error("ciphertext contains plaintext")
	}

	dc, err := e.Unlock("passphrase")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	var decrypted bytes.Buffer
	if err := dc.Decrypt(&encrypted, &decrypted); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted.Bytes(), input) {
		t.Errorf("round-trip failed: got %d bytes, want %d", decrypted.Len(), len(input))
	}
}

func TestAgeEncryptor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("wrong passphrase", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		if err := e.Setup("correct"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if _, err := e.Unlock("wrong"); err == nil {
			t.Error("Unlock() with wrong passphrase should fail")
		}
	})

	t.Run("encrypt before setup", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		var buf bytes.Buffer
		if err := e.Encrypt(bytes.NewReader([]byte("data")), &buf); err == nil {
			t.Error("Encrypt() before Setup should fail")
		}
	})

	t.Run("unlock before setup", func(t *testing.T) {
		t.Parallel()
		e := NewAgeEncryptor(newTestKeyConfig(t))
		if _, err := e.Unlock("passphrase"); err == nil {
			t.Error("Unlock() before Setup should fail")
		}
	})
}
