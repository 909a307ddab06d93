package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicememo/recsync/models"
)

// ── New ──────────────────────────────────────────────────────────────────────

func TestNew_ProducesValidID(t *testing.T) {
	for _, origin := range []models.Origin{models.OriginWatch, models.OriginPhone} {
		id := New(origin)
		assert.True(t, IsValid(id), "сгенерированный id должен проходить валидацию: %s", id)
		assert.Equal(t, origin, OriginOf(id))
	}
}

func TestNew_UniqueAcrossManyGenerations(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, 2*n)
	for i := 0; i < n; i++ {
		// идентификаторы разных origin не должны пересекаться
		for _, origin := range []models.Origin{models.OriginWatch, models.OriginPhone} {
			id := New(origin)
			_, dup := seen[id]
			require.False(t, dup, "дубликат id: %s", id)
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, 2*n)
}

// ── ExtractID ────────────────────────────────────────────────────────────────

func TestExtractID(t *testing.T) {
	id := New(models.OriginWatch)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare file name", id + ".m4a", id},
		{"full path", "/var/recordings/" + id + ".m4a", id},
		{"wav extension", id + ".wav", id},
		{"caf extension", id + ".caf", id},
		{"no known extension", id + ".tmp", id + ".tmp"},
		{"already an id", id, id},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractID(tt.in))
		})
	}
}

// ── OriginOf ─────────────────────────────────────────────────────────────────

func TestOriginOf(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want models.Origin
	}{
		{"watch id", New(models.OriginWatch), models.OriginWatch},
		{"iphone id", New(models.OriginPhone), models.OriginPhone},
		{"legacy id without tag", "3f2a9c7e-legacy", models.OriginUnknown},
		{"unknown tag", "ipad_" + strings.Repeat("0", 36), models.OriginUnknown},
		{"empty", "", models.OriginUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginOf(tt.id))
		})
	}
}

// ── IsValid ──────────────────────────────────────────────────────────────────

func TestIsValid(t *testing.T) {
	valid := New(models.OriginPhone)

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated id", valid, true},
		{"uppercase hex rejected", strings.ToUpper(valid), false},
		{"missing origin", strings.TrimPrefix(valid, "iphone"), false},
		{"bad origin", "ipad" + strings.TrimPrefix(valid, "iphone"), false},
		{"truncated uuid", valid[:len(valid)-1], false},
		{"trailing garbage", valid + "x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.id))
		})
	}
}
