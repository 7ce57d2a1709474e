package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samborg-dev/darts-fair-workflows/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "ingest.log")

	logger, closer, err := NewLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	logger.Info("hello", slog.String("k", "v"))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"hello"`)
	assert.Contains(t, string(content), `"k":"v"`)
}

func TestNewLogger_StdoutHasNoCloser(t *testing.T) {
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Nil(t, closer)
}

func TestRunIDContext(t *testing.T) {
	id := NewRunID()
	require.NotEmpty(t, id)

	ctx := WithRunID(context.Background(), id)
	assert.Equal(t, id, RunID(ctx))
	assert.Empty(t, RunID(context.Background()))

	// Two runs never share an ID.
	assert.NotEqual(t, id, NewRunID())
}
