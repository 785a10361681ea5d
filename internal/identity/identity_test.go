package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateInstanceID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	id, err := LoadOrCreateInstanceID(dir)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	again, err := LoadOrCreateInstanceID(dir)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestLoadOrCreateReplacesGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("not-a-uuid"), 0600))

	id, err := LoadOrCreateInstanceID(dir)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", id)
}
