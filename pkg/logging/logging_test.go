package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"Warning", LevelWarn},
		{"dEbUg", LevelDebug},
		{" error ", LevelError},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLookupLevel(t *testing.T) {
	t.Parallel()

	level, err := LookupLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	_, err = LookupLevel("fatal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log level "fatal"`)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	New(Config{Level: LevelInfo, Format: FormatText, Output: &text}).Info("hello", "port", 8084)
	New(Config{Level: LevelInfo, Format: FormatJSON, Output: &js}).Info("hello", "port", 8084)

	assert.Contains(t, text.String(), "msg=hello")
	assert.Contains(t, text.String(), "port=8084")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.EqualValues(t, 8084, rec["port"])
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Tee(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &console, Tee: &file}).With("component", "engine")
	logger.Debug("request", "status", 404)

	assert.Contains(t, console.String(), "component=engine")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &rec))
	assert.Equal(t, "request", rec["msg"])
	assert.Equal(t, "engine", rec["component"])
}

func TestNop(t *testing.T) {
	t.Parallel()

	logger := Nop()
	require.NotNil(t, logger)
	logger.Error("discarded")
}
