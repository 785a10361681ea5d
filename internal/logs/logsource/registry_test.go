package logsource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpospicha/logcap/internal/config"
	"github.com/devpospicha/logcap/internal/logstore"
)

func TestNewRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.StateDir = t.TempDir()
	cfg.Sources = map[string]config.SourceConfig{
		"debug":    {Kind: config.SourceCommand, Dump: []string{"cat", "/dev/null"}},
		"internal": {Kind: config.SourceFile, Path: filepath.Join(t.TempDir(), "app.log")},
		"kernel":   {Kind: config.SourceFile, Path: "/tmp/x"},
	}

	reg := NewRegistry(cfg)
	require.Len(t, reg.Sources, 2)

	src, ok := reg.Lookup(logstore.CategoryDebug)
	require.True(t, ok)
	assert.Equal(t, "command:cat /dev/null", src.Name())

	src, ok = reg.Lookup(logstore.CategoryInternal)
	require.True(t, ok)
	assert.IsType(t, &FileSource{}, src)

	assert.NoError(t, reg.Close())
}

func TestNewRegistrySkipsBadSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources = map[string]config.SourceConfig{
		"debug":    {Kind: config.SourceCommand, Dump: []string{"bash", "-c", "dmesg"}},
		"internal": {Kind: "syslog"},
	}

	reg := NewRegistry(cfg)
	assert.Empty(t, reg.Sources)

	_, ok := reg.Lookup(logstore.CategoryDebug)
	assert.False(t, ok)
}
