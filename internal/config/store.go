package config

import (
	"fmt"

	"perangkum/pkg/config"
)

// Document store kinds.
const (
	StoreFilesystem = "filesystem"
	StorePostgres   = "postgres"
)

// StoreConfig selects and locates the document store.
type StoreConfig struct {
	// Kind is "filesystem" or "postgres".
	// Default: "filesystem"
	Kind string

	// DocumentsDir is the root folder of the filesystem store.
	// Default: "documents"
	DocumentsDir string

	// DatabaseURL is the PostgreSQL DSN. Required for the postgres store.
	DatabaseURL string
}

// LoadStoreConfig reads DOCUMENT_STORE, DOCUMENTS_DIR and DATABASE_URL.
func LoadStoreConfig() (*StoreConfig, error) {
	cfg := &StoreConfig{
		Kind:         config.GetEnvString("DOCUMENT_STORE", StoreFilesystem),
		DocumentsDir: config.GetEnvString("DOCUMENTS_DIR", "documents"),
		DatabaseURL:  config.GetEnvString("DATABASE_URL", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c *StoreConfig) Validate() error {
	switch c.Kind {
	case StoreFilesystem:
		if c.DocumentsDir == "" {
			return fmt.Errorf("DOCUMENTS_DIR cannot be empty")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when DOCUMENT_STORE is %q", StorePostgres)
		}
	default:
		return fmt.Errorf("DOCUMENT_STORE must be %q or %q, got %q", StoreFilesystem, StorePostgres, c.Kind)
	}
	return nil
}
