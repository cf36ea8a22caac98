package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/model"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mailnest.log")

	l, err := New(model.LogConfig{File: path, Level: "debug", MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info().Str("op", "organize").Msg("operation started")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"op":"organize"`)
	require.Contains(t, string(data), `"app":"mailnest"`)
}

func TestNew_EmptyFileIsNop(t *testing.T) {
	l, err := New(model.LogConfig{})
	require.NoError(t, err)
	require.Equal(t, zerolog.Disabled, l.GetLevel())
	require.NoError(t, l.Close())
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, err := New(model.LogConfig{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, l.GetLevel())
	require.NoError(t, l.Close())
}

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
