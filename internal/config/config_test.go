package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logcap.yaml")

	require.NoError(t, EnsureDefaultConfig(path))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.Storage.Root)
	assert.Equal(t, 2, cfg.Collector.Workers)
	require.Contains(t, cfg.Sources, "debug")
	assert.Equal(t, SourceJournald, cfg.Sources["debug"].Kind)
	assert.Empty(t, cfg.Sources["debug"].Clear)
	assert.Equal(t, SourceFile, cfg.Sources["internal"].Kind)
}

func TestEnsureDefaultConfigKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  root: /srv/logs\n"), 0644))

	require.NoError(t, EnsureDefaultConfig(path))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/logs", cfg.Storage.Root)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Root = "/tmp/logcap"
	cfg.Logs.AppLogFile = "/tmp/logcap/logcap.log"

	ApplyDefaults(cfg)

	assert.Equal(t, filepath.Join("/tmp/logcap", "state"), cfg.Storage.StateDir)
	assert.Equal(t, 2, cfg.Collector.Workers)
	assert.Equal(t, 8, cfg.Collector.QueueSize)
	assert.Equal(t, "content://logcap.file.provider", cfg.Publish.Authority)
	assert.Equal(t, "http://127.0.0.1:8787", cfg.Server.PublicURL)
	assert.Equal(t, "info", cfg.Logs.LogLevel)
	assert.Equal(t, SourceConfig{Kind: SourceFile, Path: "/tmp/logcap/logcap.log"}, cfg.Sources["internal"])
}

func TestDefaultSources(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		wantKind  string
		wantDebug []string
		wantClear []string
	}{
		{name: "android uses logcat", goos: "android", wantKind: SourceCommand, wantDebug: []string{"logcat", "-d"}, wantClear: []string{"logcat", "-c"}},
		{name: "linux uses journald cursor", goos: "linux", wantKind: SourceJournald},
		{name: "darwin uses log show", goos: "darwin", wantKind: SourceCommand, wantDebug: []string{"log", "show", "--last", "1h"}},
		{name: "windows has no default", goos: "windows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultSources(tt.goos, "")
			assert.Equal(t, tt.wantKind, got["debug"].Kind)
			assert.Equal(t, tt.wantDebug, got["debug"].Dump)
			assert.Equal(t, tt.wantClear, got["debug"].Clear)
			assert.NotContains(t, got, "internal")
		})
	}
}

func TestDefaultsNeverVacuumJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logcap.yaml")
	require.NoError(t, EnsureDefaultConfig(path))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	for _, sources := range []map[string]SourceConfig{cfg.Sources, DefaultSources("linux", "app.log")} {
		for name, sc := range sources {
			for _, arg := range sc.Clear {
				assert.NotContains(t, arg, "--vacuum", "source %s", name)
			}
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LOGCAP_ROOT", "/var/lib/logcap")
	t.Setenv("LOGCAP_CATEGORIES", "debug, internal,")
	t.Setenv("LOGCAP_WORKERS", "4")
	t.Setenv("LOGCAP_CAPTURE_TIMEOUT", "30s")
	t.Setenv("LOGCAP_LOG_LEVEL", "debug")

	cfg := &Config{}
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "/var/lib/logcap", cfg.Storage.Root)
	assert.Equal(t, []string{"debug", "internal"}, cfg.Storage.Categories)
	assert.Equal(t, 4, cfg.Collector.Workers)
	assert.Equal(t, 30*time.Second, cfg.Collector.CaptureTimeout)
	assert.Equal(t, "debug", cfg.Logs.LogLevel)
}
