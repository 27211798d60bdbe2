package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ConsoleOnly(t *testing.T) {
	err := Setup(Config{Level: "debug"})
	require.NoError(t, err)

	Info().Msg("console only")
	Infof("formatted %d", 42)
}

func TestSetup_FileOutput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "test.log")

	err := Setup(Config{Level: "info", File: file, MaxSize: 1})
	require.NoError(t, err)
	defer Close()

	Info().Str("key", "value").Msg("to file")
	Errorf("op %s failed", "close")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), "op close failed")
}

func TestSetup_LevelFilter(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.log")

	err := Setup(Config{Level: "warn", File: file})
	require.NoError(t, err)
	defer Close()

	Debug().Msg("dropped")
	Warn().Msg("kept")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestHasFormatVerb(t *testing.T) {
	assert.True(t, hasFormatVerb("count=%d"))
	assert.False(t, hasFormatVerb("100%% done"))
	assert.False(t, hasFormatVerb("plain"))
}
