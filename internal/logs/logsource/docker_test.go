package logsource

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpospicha/logcap/internal/utils"
)

func TestEmitLines(t *testing.T) {
	var got []string
	err := emitLines(strings.NewReader("2024-03-05T10:00:00Z a\r\n2024-03-05T10:00:01Z b"), func(line string) error {
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-05T10:00:00Z a", "2024-03-05T10:00:01Z b"}, got)
}

func TestEmitLinesKeepsLineCarriageReturns(t *testing.T) {
	var got []string
	err := emitLines(strings.NewReader("a\r\r\nb\rc\n"), func(line string) error {
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a\r", "b\rc"}, got)
}

func TestDockerSourceSinceFile(t *testing.T) {
	sinceFile := filepath.Join(t.TempDir(), "debug.since")
	mark := time.Date(2024, 3, 5, 10, 0, 0, 123, time.UTC)
	require.NoError(t, utils.SaveCursor(sinceFile, mark.Format(time.RFC3339Nano)))

	src, err := NewDockerSource("unix:///nonexistent/docker.sock", "web", sinceFile)
	require.NoError(t, err)
	defer src.Close()
	assert.True(t, src.since.Equal(mark))
	assert.Equal(t, "docker:web", src.Name())

	// Nothing dumped yet, nothing to persist.
	require.NoError(t, src.Clear(context.Background()))

	next := mark.Add(time.Hour)
	src.pending = next
	require.NoError(t, src.Clear(context.Background()))

	saved, err := utils.LoadCursor(sinceFile)
	require.NoError(t, err)
	assert.Equal(t, next.Format(time.RFC3339Nano), saved)
	assert.True(t, src.since.Equal(next))
}

func TestNewDockerSourceNeedsContainer(t *testing.T) {
	_, err := NewDockerSource("", "", "")
	assert.Error(t, err)
}
