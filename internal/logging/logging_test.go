package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapegen/shapegen/internal/config"
)

func TestSetup_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "shapegen.log")
	cleanup, err := Setup(config.LoggingConfig{Level: "info", File: logFile})
	require.NoError(t, err)
	defer func() { require.NoError(t, cleanup()) }()

	slog.Info("batch started", slog.Int("samples", 3))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "batch started")
	assert.Contains(t, string(data), "samples=3")
}

func TestSetup_LevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "shapegen.log")
	cleanup, err := Setup(config.LoggingConfig{Level: "warn", File: logFile})
	require.NoError(t, err)
	defer func() { require.NoError(t, cleanup()) }()

	slog.Info("suppressed")
	slog.Warn("kept")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "suppressed")
	assert.Contains(t, string(data), "kept")
}

func TestSetup_NoFile(t *testing.T) {
	cleanup, err := Setup(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NoError(t, cleanup())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}
