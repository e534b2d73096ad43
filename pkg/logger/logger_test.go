package logger

import (
	"bytes"
	"encoding/json"
	"healthwatch/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&config.Config{Env: "production", ServiceName: "healthwatch"}, &buf)

	l.Info().Str("address", "https://example.com").Msg("probe finished")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "healthwatch", line["service"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "probe finished", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_ProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&config.Config{Env: "production", ServiceName: "healthwatch"}, &buf)

	l.Debug().Msg("noise")
	assert.Zero(t, buf.Len())
}

func TestNew_AlsoWritesRotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "healthwatch.log")
	cfg := &config.Config{
		Env:         "production",
		ServiceName: "healthwatch",
		Log:         config.LogConfig{File: path, MaxSizeMB: 1},
	}

	New(cfg, &buf).Warn().Msg("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}
