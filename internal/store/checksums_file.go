package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileChecksumStore persists the in-flight checksum map as a JSON object of
// id -> digest. The format is deliberately simple and greppable; the only
// requirement is a lossless round trip for string-to-string maps.
type fileChecksumStore struct {
	path string
}

// NewFileChecksumStore returns a ChecksumStore backed by the file at path.
// The file may not exist yet; Load then yields an empty map.
func NewFileChecksumStore(path string) ChecksumStore {
	return &fileChecksumStore{path: path}
}

func (s *fileChecksumStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read checksums file: %w", err)
	}

	checksums := make(map[string]string)
	if err = json.Unmarshal(data, &checksums); err != nil {
		return nil, fmt.Errorf("decode checksums file: %w", err)
	}
	return checksums, nil
}

// Save writes the map atomically: a temp file in the same directory is
// renamed over the target, so a crash mid-write never corrupts the
// previous snapshot.
func (s *fileChecksumStore) Save(checksums map[string]string) error {
	data, err := json.MarshalIndent(checksums, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checksums: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".checksums-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp checksums file: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp checksums file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp checksums file: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace checksums file: %w", err)
	}
	return nil
}
