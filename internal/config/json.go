package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for file-based
// configuration, with durations accepted as strings like "500ms" or "5m".
type StructuredJSONConfig struct {
	Sync struct {
		DebounceWindow   Duration `json:"debounce_window"`
		FallbackInterval Duration `json:"fallback_interval"`
	} `json:"sync,omitempty"`

	Transport struct {
		PeerURL         string   `json:"peer_url"`
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		PollInterval    Duration `json:"poll_interval"`
		ReachableWindow Duration `json:"reachable_window"`
	} `json:"transport,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			RecordingsDir string `json:"recordings_dir"`
			InboxDir      string `json:"inbox_dir"`
			ChecksumsPath string `json:"checksums_path"`
			CatalogPath   string `json:"catalog_path"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Sync: Sync{
			DebounceWindow:   time.Duration(jsonCfg.Sync.DebounceWindow),
			FallbackInterval: time.Duration(jsonCfg.Sync.FallbackInterval),
		},
		Transport: Transport{
			PeerURL:         jsonCfg.Transport.PeerURL,
			HTTPAddress:     jsonCfg.Transport.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Transport.RequestTimeout),
			PollInterval:    time.Duration(jsonCfg.Transport.PollInterval),
			ReachableWindow: time.Duration(jsonCfg.Transport.ReachableWindow),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				RecordingsDir: jsonCfg.Storage.Files.RecordingsDir,
				InboxDir:      jsonCfg.Storage.Files.InboxDir,
				ChecksumsPath: jsonCfg.Storage.Files.ChecksumsPath,
				CatalogPath:   jsonCfg.Storage.Files.CatalogPath,
			},
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" or from raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration value %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
