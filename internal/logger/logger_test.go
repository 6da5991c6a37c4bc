package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antigravity/answer-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gateway.log")

	log, level, err := New(config.LoggingConfig{
		Level:      "info",
		Output:     path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	log.Debug("hidden")
	log.Info("answer handled", zap.String("model", "gpt-3.5-turbo"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "answer handled", entry["msg"])
	assert.Equal(t, "gpt-3.5-turbo", entry["model"])
}

func TestSetLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	require.NoError(t, SetLevel(level, "debug"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Error(t, SetLevel(level, "chatty"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	_, level, err := New(config.LoggingConfig{Level: "loud", ConsoleOutput: true})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())
}
