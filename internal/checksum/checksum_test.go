package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// эталонный SHA-256 пустого входа
const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// ── Digest ───────────────────────────────────────────────────────────────────

func TestDigest_EmptyInputKnownVector(t *testing.T) {
	assert.Equal(t, emptySHA256, Digest(nil))
	assert.Equal(t, emptySHA256, Digest([]byte{}))
}

func TestDigest_KnownVector(t *testing.T) {
	// SHA-256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Digest([]byte("abc")))
}

func TestDigest_DeterministicAndDistinct(t *testing.T) {
	b1 := []byte("first recording payload")
	b2 := []byte("second recording payload")

	assert.Equal(t, Digest(b1), Digest(b1), "одинаковый вход — одинаковый digest")
	assert.NotEqual(t, Digest(b1), Digest(b2), "разный вход — разный digest")
}

// ── DigestFile ───────────────────────────────────────────────────────────────

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.m4a")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, Digest([]byte("abc")), got)
}

func TestDigestFile_MissingFile(t *testing.T) {
	got, err := DigestFile(filepath.Join(t.TempDir(), "nope.m4a"))
	require.Error(t, err)
	assert.Empty(t, got)
}

// ── Verify / Equal ───────────────────────────────────────────────────────────

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.m4a")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o600))

	expected := Digest([]byte("payload"))

	assert.True(t, Verify(path, expected))
	// сравнение регистронезависимое
	assert.True(t, Verify(path, strings.ToUpper(expected)))
	assert.False(t, Verify(path, emptySHA256))
	// нечитаемый файл — false, не ошибка
	assert.False(t, Verify(filepath.Join(t.TempDir(), "missing"), expected))
}

func TestEqual_CaseInsensitive(t *testing.T) {
	assert.True(t, Equal("ABCDEF01", "abcdef01"))
	assert.False(t, Equal("abcdef01", "abcdef02"))
}
