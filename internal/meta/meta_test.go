package meta

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMeta(t *testing.T) {
	start := time.Unix(1700000000, 0)
	m := BuildMeta("id-1", "v0.1.0", start)
	require.NotNil(t, m)

	assert.Equal(t, "id-1", m.InstanceID)
	assert.Equal(t, "v0.1.0", m.Version)
	assert.Equal(t, runtime.GOARCH, m.Architecture)
	assert.NotEmpty(t, m.Hostname)
	assert.Equal(t, "1700000000", m.Tags["start_time"])
	assert.Equal(t, "logcap", m.Tags["job"])
	assert.Equal(t, m.Hostname, m.Tags["instance"])
}

func TestClone(t *testing.T) {
	m := &Meta{Hostname: "box", Tags: map[string]string{"job": "logcap"}}
	c := m.Clone(map[string]string{"category": "debug"})

	assert.Equal(t, "debug", c.Tags["category"])
	assert.Equal(t, "logcap", c.Tags["job"])
	assert.NotContains(t, m.Tags, "category")

	var nilMeta *Meta
	assert.Nil(t, nilMeta.Clone(nil))
}
