package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsUsableLogger(t *testing.T) {
	l := New("edge")
	require.NotNil(t, l)

	// не должно паниковать
	l.Debug().Str("recording_id", "watch_x").Msg("probe")
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Error().Msg("discarded")
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := Nop()
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	assert.NotNil(t, got)
}
