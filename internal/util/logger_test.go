package util

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &Logger{
		level:  level,
		fields: make(map[string]interface{}),
	}
	logger.AddOutput(NewConsoleOutput(buf, format))
	return logger, buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.input), tt.input)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Infof("hidden %d", 1)
	logger.Warn("shown")
	logger.Errorf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown")
	assert.Contains(t, out, "[ERROR] shown 2")
}

func TestLoggerTextFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.With(Field{Key: "zeta", Value: 1}).Info("moved", Field{Key: "alpha", Value: "SURFACE_FLINGER"})

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "moved alpha=SURFACE_FLINGER zeta=1"), line)
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	ctx := context.WithValue(context.Background(), ContextKeyTraceType, "WINDOW_MANAGER")
	logger.WithContext(ctx).Info("loaded")

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "loaded", entry.Message)
	assert.Equal(t, "WINDOW_MANAGER", entry.Fields["trace_type"])
}

func TestNewLoggerRequiresOutput(t *testing.T) {
	_, err := NewLogger(LoggerOptions{})
	assert.Error(t, err)
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "timeline.log")

	logger, err := NewLogger(LoggerOptions{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debugf("position %d", 105)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] position 105")
}

func TestGlobalLoggerHelpers(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)
	SetLogger(logger)
	defer SetLogger(nil)

	LogDebugf("debug %s", "line")
	LogInfo("info line")
	LogWarnf("warn %d", 3)
	LogError("error line")
	LogEvent(LevelInfo, "reloaded", F("entries", 6))

	out := buf.String()
	for _, want := range []string{"debug line", "info line", "warn 3", "error line", "reloaded entries=6"} {
		assert.Contains(t, out, want)
	}

	SetLogger(nil)
	LogInfo("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}
