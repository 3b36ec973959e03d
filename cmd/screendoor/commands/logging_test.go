package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"":        zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"WARNING": zerolog.WarnLevel,
		"debug":   zerolog.DebugLevel,
		"Info":    zerolog.InfoLevel,
		"error":   zerolog.ErrorLevel,
	}

	for raw, want := range tests {
		got, err := parseLogLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseLogLevel("verbose")
	require.ErrorIs(t, err, constants.ErrInvalidLogLevel)
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log, cleanup, err := newLogger(LogConfig{Level: "info", Format: constants.LogFormatJSON}, &buf)
	require.NoError(t, err)
	require.NoError(t, cleanup())

	log.Debug().Msg("hidden")
	log.Info().Str("project_id", "7").Msg("visible")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "7", entry["project_id"])
	assert.Contains(t, entry, "time")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLogger_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log, _, err := newLogger(LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewLogger_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := newLogger(LogConfig{Format: "xml"}, &bytes.Buffer{})
	require.ErrorIs(t, err, constants.ErrInvalidLogFormat)

	_, _, err = newLogger(LogConfig{Level: "loud"}, &bytes.Buffer{})
	require.ErrorIs(t, err, constants.ErrInvalidLogLevel)
}

func TestNewLogger_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "screendoor.log")

	var stderr bytes.Buffer

	log, cleanup, err := newLogger(LogConfig{Level: "debug", Format: constants.LogFormatJSON, File: path}, &stderr)
	require.NoError(t, err)

	log.Debug().Msg("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, stderr.String())
}

func TestZerologAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	var adapter screendoor.Logger = &zerologAdapter{
		logger: zerolog.New(&buf).Level(zerolog.DebugLevel),
	}

	adapter.Debug("HTTP Request", map[string]interface{}{"method": "GET"})
	adapter.Error("HTTP Response", map[string]interface{}{"status": 500})

	decoder := json.NewDecoder(&buf)

	var first, second map[string]interface{}
	require.NoError(t, decoder.Decode(&first))
	require.NoError(t, decoder.Decode(&second))

	assert.Equal(t, "debug", first["level"])
	assert.Equal(t, "HTTP Request", first["message"])
	assert.Equal(t, "GET", first["method"])

	assert.Equal(t, "error", second["level"])
	assert.InDelta(t, 500, second["status"], 0)
}
