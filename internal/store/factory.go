package store

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"attend-go/internal/attend"
	"attend-go/internal/config"
	"attend-go/internal/database"
)

// Stores bundles the registry and ledger of one storage backend.
// Close releases any underlying connection.
type Stores struct {
	Registry attend.Registry
	Ledger   attend.Ledger
	closer   io.Closer
}

// Close releases the backend.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewStoresFromConfig creates the registry and ledger for the configured storage type.
func NewStoresFromConfig(cfg config.StorageConfig, rec config.RecognitionConfig) (*Stores, error) {
	switch cfg.Type {
	case "file", "":
		if cfg.RegistryPath == "" || cfg.LedgerPath == "" {
			return nil, fmt.Errorf("file storage requires registry_path and ledger_path")
		}
		return &Stores{
			Registry: NewJSONRegistry(cfg.RegistryPath, rec.IDPrefix, rec.IDWidth, time.Local),
			Ledger:   NewCSVLedger(cfg.LedgerPath, time.Local),
		}, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite storage")
		}
		db, err := database.NewSQLiteDatabase(filepath.Join(cfg.DataDir, "attend.db"), rec.IDPrefix, rec.IDWidth)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		if err := db.CheckMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{Registry: db, Ledger: db, closer: db}, nil
	case "memory":
		return &Stores{
			Registry: NewMemoryRegistry(rec.IDPrefix, rec.IDWidth),
			Ledger:   NewMemoryLedger(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
