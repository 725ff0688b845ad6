package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesLogDirAndLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := DefaultConfig()
	cfg.LogDir = dir

	require.NoError(t, Init(cfg))
	Sugar().Info("hello")
	require.NoError(t, Sync())

	assert.DirExists(t, dir)
}

func TestFromVerbosity(t *testing.T) {
	assert.Equal(t, "info", FromVerbosity(0))
	assert.Equal(t, "debug", FromVerbosity(1))
	assert.Equal(t, "debug", FromVerbosity(5))
}

func TestWithTick_AddsDistinctCorrelationIDs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogDir = ""
	require.NoError(t, Init(cfg))

	a := WithTick()
	b := WithTick()
	assert.NotNil(t, a)
	assert.NotNil(t, b)
}
