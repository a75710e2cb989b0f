package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/skillshare/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFunctions_NilLoggerIsSafe(t *testing.T) {
	logger = nil

	assert.NotPanics(t, func() {
		Debug("test debug", "key", "value")
		Info("test info", "key", "value")
		Warn("test warn", "key", "value")
		Error("test error", "key", "value")
	})
}

func TestSetOutputCapturesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { logger = nil })

	Warn("rolled back", "post_id", 42, "kind", "like")

	out := buf.String()
	assert.Contains(t, out, "rolled back")
	assert.Contains(t, out, "post_id=42")
	assert.Contains(t, out, "kind=like")
}

func TestInitWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))
	t.Cleanup(func() { logger = nil })

	Init(false)
	Info("hello from test", "n", 1)

	data, err := os.ReadFile(config.GetString("log.file"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestInitVerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))
	t.Cleanup(func() { logger = nil })

	Init(true)
	assert.Equal(t, log.DebugLevel, GetLogger().GetLevel())

	Init(false)
	assert.Equal(t, log.InfoLevel, GetLogger().GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, parseLevel("warn"))
	assert.Equal(t, log.DebugLevel, parseLevel("debug"))
	assert.Equal(t, log.InfoLevel, parseLevel("nonsense"))
}
