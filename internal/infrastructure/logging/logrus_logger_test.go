package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdp.dev/cli/internal/core/ports"
)

func TestLogrusLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(&buf, ports.LoggingConfig{Level: ports.LogLevelInfo, Format: "json"})

	logger.Log(ports.LogLevelInfo, "Session cancelled", map[string]interface{}{"sent": 1})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Session cancelled", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(1), entry["sent"])
}

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(&buf, ports.LoggingConfig{Level: ports.LogLevelWarn, Format: "text"})

	logger.Log(ports.LogLevelDebug, "hidden debug", nil)
	logger.Log(ports.LogLevelInfo, "hidden info", nil)
	assert.Empty(t, buf.String())

	logger.Log(ports.LogLevelWarn, "visible warning", nil)
	assert.Contains(t, buf.String(), "visible warning")
	assert.Equal(t, ports.LogLevelWarn, logger.GetLogLevel())

	logger.SetLogLevel(ports.LogLevelDebug)
	assert.Equal(t, ports.LogLevelDebug, logger.GetLogLevel())
}

func TestLogrusLogger_LogErrorAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(&buf, ports.LoggingConfig{Level: ports.LogLevelInfo, Format: "json"}).
		WithField("session", "abc")

	logger.LogError(errors.New("connection refused"), "Session failed", map[string]interface{}{"endpoint": "ws://localhost:9222/devtools/page/1"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "ws://localhost:9222/devtools/page/1", entry["endpoint"])
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]ports.LogLevel{
		"debug":   ports.LogLevelDebug,
		"TRACE":   ports.LogLevelDebug,
		"":        ports.LogLevelInfo,
		"Warning": ports.LogLevelWarn,
		"error":   ports.LogLevelError,
	}
	for raw, expected := range tests {
		level, err := ports.ParseLogLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, level, raw)
	}

	_, err := ports.ParseLogLevel("loud")
	assert.Error(t, err)
}
