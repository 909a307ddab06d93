package config

import "strings"

// validate checks that the edge daemon has everything it needs to track and
// deliver recordings. The catalog must live on disk: in-flight state has to
// survive a relaunch.
func (cfg *EdgeConfig) validate() error {
	if cfg.Storage.CatalogPath == "" || strings.Contains(cfg.Storage.CatalogPath, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.RecordingsDir == "" || cfg.Storage.ChecksumsPath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Transport.PeerURL == "" {
		return ErrInvalidTransportConfigs
	}

	return nil
}

// validate checks that the store daemon can accept uploads and register
// verified recordings.
func (cfg *StoreConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.RecordingsDir == "" || cfg.Storage.InboxDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Transport.HTTPAddress == "" {
		return ErrInvalidTransportConfigs
	}

	return nil
}
