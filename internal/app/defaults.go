package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"attend-go/internal/config"
)

// Defaults are the application paths resolved from the environment.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves application paths, checking environment variables first:
//   - ATTEND_CONFIG_PATH: config file location (default: ~/.config/attend.toml)
//   - ATTEND_HOME: base directory for attend data (default: ~/.local/share/attend)
func GetDefaults() (*Defaults, error) {
	configPath, err := fromEnvOrHome("ATTEND_CONFIG_PATH", ".config", "attend.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := fromEnvOrHome("ATTEND_HOME", ".local", "share", "attend")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}

// LoadConfig reads the config file. A missing file yields the defaults for
// d.BaseDir, so attend runs without `attend config init`.
func LoadConfig(d *Defaults) (*config.Config, error) {
	cfg, err := config.ReadFromFile(d.ConfigPath, d.BaseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return config.NewConfig(d.BaseDir), nil
	}
	return cfg, err
}
