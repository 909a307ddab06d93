package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/models"
)

func newTestCatalog(t *testing.T) (Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	cat, err := NewSQLiteCatalog(":memory:", dir, logger.Nop())
	require.NoError(t, err)
	return cat, dir
}

func testRecording(id string) models.Recording {
	return models.Recording{
		ID:        id,
		Origin:    models.OriginWatch,
		FileName:  id + ".m4a",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteCatalog_AddAndPendingIDs(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	id1 := "watch_aaaaaaaa-0000-4000-8000-000000000001"
	id2 := "watch_aaaaaaaa-0000-4000-8000-000000000002"
	require.NoError(t, cat.Add(ctx, testRecording(id1)))
	require.NoError(t, cat.Add(ctx, testRecording(id2)))

	ids, err := cat.PendingIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id1, id2}, ids)
}

func TestSQLiteCatalog_RemoveFromPending(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	id := "watch_aaaaaaaa-0000-4000-8000-000000000001"
	require.NoError(t, cat.Add(ctx, testRecording(id)))
	require.NoError(t, cat.RemoveFromPending(ctx, id))

	ids, err := cat.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// повторное удаление — no-op
	require.NoError(t, cat.RemoveFromPending(ctx, id))
}

func TestSQLiteCatalog_FileExistsAndPathFor(t *testing.T) {
	cat, dir := newTestCatalog(t)

	id := "watch_aaaaaaaa-0000-4000-8000-000000000001"
	path := cat.PathFor(id)
	assert.Equal(t, filepath.Join(dir, id+".m4a"), path)
	assert.False(t, cat.FileExists(id))

	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))
	assert.True(t, cat.FileExists(id))
}
