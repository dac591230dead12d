package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_EventLogReceivesInfoOnly(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "p2p_log.txt")

	logger, err := New(&console, "debug", path)
	require.NoError(t, err)

	log := logger.With("component", "test")
	log.Debug("backoff tick")
	log.Info("2 peers online | 10.0.0.2 (bob) joined")
	require.NoError(t, logger.Close())

	assert.Contains(t, console.String(), "backoff tick")
	assert.Contains(t, console.String(), "component=test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "backoff tick")
	assert.Contains(t, string(data), "peers online")
}

func TestNew_EventLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p2p_log.txt")

	for _, msg := range []string{"first run", "second run"} {
		logger, err := New(&bytes.Buffer{}, "info", path)
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, logger.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNew_NoEventLog(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(&console, "warn", "")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.NoError(t, logger.Close())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", "")
	assert.Error(t, err)
}
