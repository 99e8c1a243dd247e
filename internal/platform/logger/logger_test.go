package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(&buf, "warn", "json", "")
	require.NoError(t, err)
	defer closer.Close()

	log.Info("dropped")
	log.Warn("kept", "user_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "tonetags", entry["service"])
	assert.Equal(t, float64(7), entry["user_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(&buf, "", "text", "")
	require.NoError(t, err)

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewFansOutToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "tonetags.log")
	log, closer, err := New(&buf, "info", "text", path)
	require.NoError(t, err)

	log.Info("both sinks")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "both sinks")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"both sinks"`)
}

func TestInvalidSettings(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, "loud", "json", "")
	assert.Error(t, err)

	_, _, err = New(&bytes.Buffer{}, "info", "xml", "")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}
