package samples

import (
	"path/filepath"
	"testing"

	"attend-go/internal/config"
	"attend-go/internal/encryption"
)

func TestNewSampleStoreFromConfig(t *testing.T) {
	dir := t.TempDir()
	unconfigured := encryption.NewAgeEncryptor(config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "none.pub"),
		PrivateKeyPath: filepath.Join(dir, "none.key"),
	})

	tests := []struct {
		name    string
		cfg     config.SamplesConfig
		wantErr bool
	}{
		{name: "filesystem", cfg: config.SamplesConfig{Type: "filesystem", Dir: filepath.Join(dir, "a")}},
		{name: "filesystem requires dir", cfg: config.SamplesConfig{Type: "filesystem"}, wantErr: true},
		{name: "encrypted without keys", cfg: config.SamplesConfig{Type: "filesystem", Dir: filepath.Join(dir, "b"), Encrypted: true}, wantErr: true},
		{name: "memory", cfg: config.SamplesConfig{Type: "memory"}},
		{name: "unknown", cfg: config.SamplesConfig{Type: "s3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSampleStoreFromConfig(tt.cfg, unconfigured)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSampleStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Error("NewSampleStoreFromConfig() returned nil store")
			}
		})
	}

	t.Run("encrypted with test keys", func(t *testing.T) {
		cfg := config.SamplesConfig{Type: "filesystem", Dir: filepath.Join(dir, "c"), Encrypted: true}
		got, err := NewSampleStoreFromConfig(cfg, encryption.NewTestEncryptor())
		if err != nil {
			t.Fatalf("NewSampleStoreFromConfig() error = %v", err)
		}
		l, ok := got.(Lockable)
		if !ok || !l.Encrypted() {
			t.Error("encrypted store should be Lockable and Encrypted")
		}
	})
}
