// Package metrics exposes capture and rotation counters to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/disk"
)

// Capture outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

var (
	capturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logcap_captures_total",
			Help: "Log captures by category and outcome",
		},
		[]string{"category", "outcome"},
	)
	captureDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logcap_capture_duration_seconds",
			Help:    "Time from dump start to callback",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)
	captureBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logcap_capture_bytes",
			Help:    "Bytes written per capture",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"category"},
	)
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logcap_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	latencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logcap_http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	rotatedFiles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logcap_rotated_files_total",
			Help: "Stale log files removed by the retention sweep",
		},
	)

	initOnce  sync.Once
	usageOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(capturesTotal, captureDuration, captureBytes, rotatedFiles, requestCounter, latencyHistogram)
	})
}

// ObserveCapture records one finished capture.
func ObserveCapture(category, outcome string, elapsed time.Duration, bytes int64) {
	capturesTotal.WithLabelValues(category, outcome).Inc()
	if outcome == OutcomeDropped {
		return
	}
	captureDuration.WithLabelValues(category).Observe(elapsed.Seconds())
	captureBytes.WithLabelValues(category).Observe(float64(bytes))
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(path, method, status string, seconds float64) {
	requestCounter.WithLabelValues(path, method, status).Inc()
	latencyHistogram.WithLabelValues(path, method).Observe(seconds)
}

// ObserveRotation counts files removed by a sweep.
func ObserveRotation(removed int) {
	rotatedFiles.Add(float64(removed))
}

// RegisterDirUsage exports free and used bytes of the filesystem holding dir.
// Values are read from gopsutil on every scrape.
func RegisterDirUsage(dir string) {
	usageOnce.Do(func() {
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name:        "logcap_log_dir_free_bytes",
				Help:        "Free bytes on the filesystem holding the log directory",
				ConstLabels: prometheus.Labels{"dir": dir},
			}, func() float64 { return usageOf(dir, func(u *disk.UsageStat) float64 { return float64(u.Free) }) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name:        "logcap_log_dir_used_percent",
				Help:        "Used percentage of the filesystem holding the log directory",
				ConstLabels: prometheus.Labels{"dir": dir},
			}, func() float64 { return usageOf(dir, func(u *disk.UsageStat) float64 { return u.UsedPercent }) }),
		)
	})
}

func usageOf(dir string, pick func(*disk.UsageStat) float64) float64 {
	u, err := disk.Usage(dir)
	if err != nil || u == nil {
		return 0
	}
	return pick(u)
}
