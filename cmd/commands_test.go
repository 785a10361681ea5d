package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, buffer string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "data")
	cfg := `storage:
  root: ` + root + `
  min_free_bytes: 1
sources:
  debug:
    kind: file
    path: ` + buffer + `
logs:
  log_level: error
`
	path := filepath.Join(dir, "logcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path, root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitAndList(t *testing.T) {
	cfgPath, root := writeConfig(t, filepath.Join(t.TempDir(), "buffer.log"))

	out, err := run(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "Logs"))
	assert.Contains(t, out, "debug_log_")

	out, err = run(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "internal_log_")
}

func TestListIsReadOnly(t *testing.T) {
	cfgPath, root := writeConfig(t, filepath.Join(t.TempDir(), "buffer.log"))

	out, err := run(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "debug_log_")
	assert.NoDirExists(t, filepath.Join(root, "Logs"))

	stale := filepath.Join(root, "Logs", "debug_log_01-01-2020.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old\n"), 0644))

	_, err = run(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.FileExists(t, stale)
	matches, err := filepath.Glob(filepath.Join(root, "Logs", "*.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, matches)
}

func TestCollectDefaultCategory(t *testing.T) {
	buffer := filepath.Join(t.TempDir(), "buffer.log")
	require.NoError(t, os.WriteFile(buffer, []byte("a\nb\nc\n"), 0644))
	cfgPath, root := writeConfig(t, buffer)

	out, err := run(t, "--config", cfgPath, "collect")
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 lines")
	assert.Contains(t, out, "content://logcap.file.provider/logs/")

	matches, err := filepath.Glob(filepath.Join(root, "Logs", "debug_log_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}

func TestCollectUnknownCategory(t *testing.T) {
	cfgPath, _ := writeConfig(t, filepath.Join(t.TempDir(), "buffer.log"))
	_, err := run(t, "--config", cfgPath, "collect", "radio")
	assert.Error(t, err)
}

func TestCollectCategoryWithoutSource(t *testing.T) {
	cfgPath, _ := writeConfig(t, filepath.Join(t.TempDir(), "buffer.log"))
	_, err := run(t, "--config", cfgPath, "collect", "internal")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no log source"))
}

func TestVersion(t *testing.T) {
	cfgPath, _ := writeConfig(t, filepath.Join(t.TempDir(), "buffer.log"))
	out, err := run(t, "--config", cfgPath, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "logcap version dev")
}
