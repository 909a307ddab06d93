package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingFileStorage_StoreMovesFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewRecordingFileStorage(filepath.Join(dir, "recordings"))
	require.NoError(t, err)

	src := filepath.Join(dir, "upload.tmp")
	require.NoError(t, os.WriteFile(src, []byte("audio bytes"), 0o600))

	id := "watch_aaaaaaaa-0000-4000-8000-000000000001"
	dest, err := storage.Store(src, id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recordings", id+".m4a"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio bytes"), data)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "исходный файл должен быть перемещён")
}

func TestRecordingFileStorage_Remove(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewRecordingFileStorage(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "rec.m4a")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, storage.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// удаление отсутствующего файла — no-op
	assert.NoError(t, storage.Remove(path))
}
