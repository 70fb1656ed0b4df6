package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config represents the main configuration for attend.
type Config struct {
	BaseDir     string            `toml:"base_dir" validate:"required"`
	LogDir      string            `toml:"log_dir" validate:"required"`
	Storage     StorageConfig     `toml:"storage"`
	Samples     SamplesConfig     `toml:"samples"`
	Encryption  EncryptionConfig  `toml:"encryption"`
	Camera      CameraConfig      `toml:"camera"`
	Detector    DetectorConfig    `toml:"detector"`
	Recognition RecognitionConfig `toml:"recognition"`
	Metrics     MetricsConfig     `toml:"metrics"`
}

// StorageConfig selects where the student registry and attendance ledger live.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type         string `toml:"type" validate:"oneof=file sqlite memory"`
	RegistryPath string `toml:"registry_path,omitempty" validate:"required_if=Type file"` // JSON registry, type=file
	LedgerPath   string `toml:"ledger_path,omitempty" validate:"required_if=Type file"`   // CSV ledger, type=file
	DataDir      string `toml:"data_dir,omitempty" validate:"required_if=Type sqlite"`    // attend.db, type=sqlite
}

// SamplesConfig describes per-student face sample storage.
type SamplesConfig struct {
	Type      string `toml:"type" validate:"oneof=filesystem memory"`
	Dir       string `toml:"dir,omitempty" validate:"required_if=Type filesystem"`
	Encrypted bool   `toml:"encrypted"` // encrypt photos at rest with the configured key pair
}

// EncryptionConfig holds paths to the age key pair used for sample encryption.
type EncryptionConfig struct {
	Type           string `toml:"type" validate:"omitempty,oneof=age test"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `toml:"device" validate:"gte=0"`
}

// DetectorConfig tunes the Haar cascade face detector.
type DetectorConfig struct {
	CascadePath  string  `toml:"cascade_path" validate:"required"`
	ScaleFactor  float64 `toml:"scale_factor" validate:"gt=1"`
	MinNeighbors int     `toml:"min_neighbors" validate:"gte=0"`
}

// RecognitionConfig holds the decision pipeline settings.
type RecognitionConfig struct {
	Threshold float64 `toml:"threshold" validate:"gt=0"`   // match iff confidence < threshold
	MaxPhotos int     `toml:"max_photos" validate:"gte=1"` // photos per enrollment
	IDPrefix  string  `toml:"id_prefix" validate:"required,alpha"`
	IDWidth   int     `toml:"id_width" validate:"gte=1,lte=9"`
}

// MetricsConfig controls the Prometheus textfile written after each session.
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path,omitempty"` // empty disables metrics output
}

// NewConfig creates a new Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Storage: StorageConfig{
			Type:         "file",
			RegistryPath: filepath.Join(baseDir, "students_database.json"),
			LedgerPath:   filepath.Join(baseDir, "attendance_records.csv"),
			DataDir:      filepath.Join(baseDir, "db"),
		},
		Samples: SamplesConfig{
			Type: "filesystem",
			Dir:  filepath.Join(baseDir, "face_data"),
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "attend.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "attend.key"),
		},
		Detector: DetectorConfig{
			CascadePath:  filepath.Join(baseDir, "haarcascade_frontalface_default.xml"),
			ScaleFactor:  1.3,
			MinNeighbors: 5,
		},
		Recognition: RecognitionConfig{
			Threshold: 70,
			MaxPhotos: 10,
			IDPrefix:  "STU",
			IDWidth:   3,
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys missing from the input
// keep the defaults for baseDir.
func (m *Manager) Read(r io.Reader, baseDir string) (*Config, error) {
	cfg := NewConfig(baseDir)
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path, baseDir string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
