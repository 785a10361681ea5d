package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCapture(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(capturesTotal.WithLabelValues("debug", OutcomeOK))
	ObserveCapture("debug", OutcomeOK, 20*time.Millisecond, 128)
	ObserveCapture("debug", OutcomeDropped, 0, 0)

	assert.Equal(t, before+1, testutil.ToFloat64(capturesTotal.WithLabelValues("debug", OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(capturesTotal.WithLabelValues("debug", OutcomeDropped)))
}

func TestObserveRotation(t *testing.T) {
	before := testutil.ToFloat64(rotatedFiles)
	ObserveRotation(3)
	assert.Equal(t, before+3, testutil.ToFloat64(rotatedFiles))
}

func TestRegisterDirUsage(t *testing.T) {
	dir := t.TempDir()
	assert.NotPanics(t, func() {
		RegisterDirUsage(dir)
		RegisterDirUsage(dir)
	})
}

func TestObserveRequest(t *testing.T) {
	ObserveRequest("/health", "GET", "200", 0.01)
	assert.Equal(t, float64(1), testutil.ToFloat64(requestCounter.WithLabelValues("/health", "GET", "200")))
}
