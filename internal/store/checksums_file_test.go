package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChecksumStore_LoadMissingFile(t *testing.T) {
	s := NewFileChecksumStore(filepath.Join(t.TempDir(), "checksums.json"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileChecksumStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checksums.json")
	s := NewFileChecksumStore(path)

	want := map[string]string{
		"watch_aaaaaaaa-0000-4000-8000-000000000001":  "aa11",
		"iphone_bbbbbbbb-0000-4000-8000-000000000002": "bb22",
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileChecksumStore_SaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checksums.json")
	s := NewFileChecksumStore(path)

	require.NoError(t, s.Save(map[string]string{"a": "1"}))
	require.NoError(t, s.Save(map[string]string{"b": "2"}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, got)

	// временные файлы не должны оставаться
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "checksums.json", entries[0].Name())
}

func TestFileChecksumStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checksums.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileChecksumStore(path).Load()
	require.Error(t, err)
}
