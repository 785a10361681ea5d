package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  root: /from/file\nlogs:\n  log_level: warn\n"), 0644))

	t.Setenv("LOGCAP_ROOT", "/from/env")
	t.Setenv("LOGCAP_LOG_LEVEL", "error")

	cfg, err := LoadConfig(Overrides{ConfigPath: path, LogLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Storage.Root, "env beats file")
	assert.Equal(t, "debug", cfg.Logs.LogLevel, "flag beats env")
	assert.Equal(t, filepath.Join("/from/env", "state"), cfg.Storage.StateDir, "defaults follow overrides")
}

func TestLoadConfigWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "logcap.yaml")

	cfg, err := LoadConfig(Overrides{ConfigPath: path, Root: "/flag/root"})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
	assert.Equal(t, "/flag/root", cfg.Storage.Root)
	assert.Contains(t, cfg.Sources, "debug")
}
