package config

import (
	"fmt"
	"time"
)

// StoreTransport holds listening-side network settings of the primary store.
type StoreTransport struct {
	// HTTPAddress is the TCP address the store daemon listens on.
	HTTPAddress string
	// ReachableWindow is how recently the edge must have polled for the
	// store to consider it reachable.
	ReachableWindow time.Duration
}

// StoreDB contains registry database connection settings.
type StoreDB struct {
	// DSN is the PostgreSQL connection string of the recording registry.
	DSN string
}

// StoreStorage groups store-side persistence settings.
type StoreStorage struct {
	// DB holds the registry database settings.
	DB StoreDB
	// RecordingsDir is the permanent destination of verified recordings.
	RecordingsDir string
	// InboxDir is the spool directory for uploads awaiting verification.
	InboxDir string
}

// StoreConfig is the top-level configuration of the primary store daemon,
// assembled from [StructuredConfig].
type StoreConfig struct {
	// Transport contains listen address and reachability settings.
	Transport StoreTransport
	// Storage contains registry and file storage settings.
	Storage StoreStorage
}

// GetStoreConfig builds and validates the store-specific config view from
// the merged structured configuration.
func GetStoreConfig() (*StoreConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	storeCfg := &StoreConfig{
		Transport: StoreTransport{
			HTTPAddress:     cfg.Transport.HTTPAddress,
			ReachableWindow: cfg.Transport.ReachableWindow,
		},
		Storage: StoreStorage{
			DB: StoreDB{
				DSN: cfg.Storage.DB.DSN,
			},
			RecordingsDir: cfg.Storage.Files.RecordingsDir,
			InboxDir:      cfg.Storage.Files.InboxDir,
		},
	}

	return storeCfg, storeCfg.validate()
}
