package config

import (
	"fmt"
	"time"
)

// EdgeSync holds the sending agent's scheduling settings.
type EdgeSync struct {
	// DebounceWindow coalesces bursts of sync triggers into one pass.
	DebounceWindow time.Duration
	// FallbackInterval is the fallback timer interval while work is pending.
	FallbackInterval time.Duration
}

// EdgeTransport holds network settings used by the edge transport layer.
type EdgeTransport struct {
	// PeerURL is the base URL of the primary store.
	PeerURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// PollInterval is how often the edge polls the store.
	PollInterval time.Duration
}

// EdgeStorage groups edge-side persistence paths.
type EdgeStorage struct {
	// CatalogPath is the SQLite database file tracking pending recordings.
	CatalogPath string
	// RecordingsDir is the directory with source recording files.
	RecordingsDir string
	// ChecksumsPath is the in-flight checksum snapshot file.
	ChecksumsPath string
}

// EdgeConfig is the top-level configuration of the sending peer daemon,
// assembled from [StructuredConfig].
type EdgeConfig struct {
	// Sync contains agent scheduling settings.
	Sync EdgeSync
	// Transport contains the store endpoint and polling settings.
	Transport EdgeTransport
	// Storage contains edge persistence paths.
	Storage EdgeStorage
}

// GetEdgeConfig builds and validates the edge-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the edge daemon, and validates the resulting [EdgeConfig].
func GetEdgeConfig() (*EdgeConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	edgeCfg := &EdgeConfig{
		Sync: EdgeSync{
			DebounceWindow:   cfg.Sync.DebounceWindow,
			FallbackInterval: cfg.Sync.FallbackInterval,
		},
		Transport: EdgeTransport{
			PeerURL:        cfg.Transport.PeerURL,
			RequestTimeout: cfg.Transport.RequestTimeout,
			PollInterval:   cfg.Transport.PollInterval,
		},
		Storage: EdgeStorage{
			CatalogPath:   cfg.Storage.Files.CatalogPath,
			RecordingsDir: cfg.Storage.Files.RecordingsDir,
			ChecksumsPath: cfg.Storage.Files.ChecksumsPath,
		},
	}

	return edgeCfg, edgeCfg.validate()
}
