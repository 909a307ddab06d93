package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// recordingFileStorage keeps received recording files in a flat directory,
// one file per identifier.
type recordingFileStorage struct {
	dir string
}

// NewRecordingFileStorage ensures dir exists and returns a FileStorage
// rooted there.
func NewRecordingFileStorage(dir string) (FileStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &recordingFileStorage{dir: dir}, nil
}

// Store moves srcPath into the storage directory as "{id}.m4a". Rename is
// attempted first; a cross-device move falls back to copy-then-remove.
func (s *recordingFileStorage) Store(srcPath, recordingID string) (string, error) {
	dest := filepath.Join(s.dir, recordingID+".m4a")

	if err := os.Rename(srcPath, dest); err == nil {
		return dest, nil
	}

	if err := copyFile(srcPath, dest); err != nil {
		return "", fmt.Errorf("store recording file: %w", err)
	}
	os.Remove(srcPath)
	return dest, nil
}

func (s *recordingFileStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove recording file: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
