//go:build linux

package linuxsource

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{
			name:   "identifier and pid",
			fields: map[string]string{"SYSLOG_IDENTIFIER": "sshd", "_PID": "42", "MESSAGE": "accepted"},
			want:   "2024-03-05T10:00:00Z sshd[42]: accepted",
		},
		{
			name:   "comm fallback",
			fields: map[string]string{"_COMM": "cron", "MESSAGE": "tick"},
			want:   "2024-03-05T10:00:00Z cron: tick",
		},
		{
			name:   "invalid utf8",
			fields: map[string]string{"MESSAGE": "bad\xffbyte"},
			want:   "2024-03-05T10:00:00Z unknown: bad�byte",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLine(ts.In(time.UTC), tt.fields))
		})
	}
}

func TestNewJournaldSourceRejectsBadMatch(t *testing.T) {
	_, err := NewJournaldSource([]string{"_SYSTEMD_UNIT"}, filepath.Join(t.TempDir(), "c"))
	assert.Error(t, err)
}

func TestClearPersistsPendingCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "debug.cursor")
	j, err := NewJournaldSource(nil, path)
	require.NoError(t, err)

	require.NoError(t, j.Clear(context.Background()))
	assert.NoFileExists(t, path)

	j.pending = "s=abc;i=1"
	require.NoError(t, j.Clear(context.Background()))
	assert.FileExists(t, path)

	again, err := NewJournaldSource(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "s=abc;i=1", again.cursor)
}
