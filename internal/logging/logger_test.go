package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.log")

	logger, err := New("production", "info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "visible"))
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("production", "chatty")
	assert.Error(t, err)
}
