package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds understood by the source registry.
const (
	SourceCommand  = "command"
	SourceJournald = "journald"
	SourceFile     = "file"
	SourceDocker   = "docker"
)

// SourceConfig binds a log category to the external buffer it captures.
// Only the fields relevant to Kind are read.
type SourceConfig struct {
	Kind      string   `yaml:"kind"`
	Dump      []string `yaml:"dump"`      // command: argv that prints the buffer and exits
	Clear     []string `yaml:"clear"`     // command: argv that truncates the buffer
	Path      string   `yaml:"path"`      // file: path of the log file
	Matches   []string `yaml:"matches"`   // journald: FIELD=value matches
	Container string   `yaml:"container"` // docker: container name or ID
	Host      string   `yaml:"host"`      // docker: daemon host, e.g. unix:///var/run/docker.sock
}

// StorageConfig controls where managed log files live.
type StorageConfig struct {
	Root         string   `yaml:"root"`           // managed files go to <root>/Logs
	StateDir     string   `yaml:"state_dir"`      // cursors and instance id
	MinFreeBytes uint64   `yaml:"min_free_bytes"` // warn below this much free space
	Categories   []string `yaml:"categories"`     // subset of categories to register; empty = all
}

// CollectorConfig sizes the capture worker pool.
type CollectorConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	CaptureTimeout time.Duration `yaml:"capture_timeout"` // 0 = no deadline
}

// ServerConfig configures the HTTP file provider started by `logcap serve`.
type ServerConfig struct {
	Listen    string  `yaml:"listen"`
	PublicURL string  `yaml:"public_url"` // base of handle URIs while serving
	RateLimit float64 `yaml:"rate_limit"` // collect requests per second
	Burst     int     `yaml:"burst"`
	CertFile  string  `yaml:"cert_file"`
	KeyFile   string  `yaml:"key_file"`
	CAFile    string  `yaml:"ca_file"` // optional (for mTLS)
}

// Config holds the configuration for logcap.
// It is loaded from a YAML file and can be overridden by environment
// variables and command-line flags.
type Config struct {
	Storage   StorageConfig           `yaml:"storage"`
	Collector CollectorConfig         `yaml:"collector"`
	Sources   map[string]SourceConfig `yaml:"sources"` // keyed by category name

	Publish struct {
		Authority string `yaml:"authority"` // base of handle URIs, e.g. content://logcap.file.provider
	} `yaml:"publish"`

	Server ServerConfig `yaml:"server"`

	Logs struct {
		ErrorLogFile string `yaml:"error_log_file"`
		AppLogFile   string `yaml:"app_log_file"`
		LogLevel     string `yaml:"log_level"`
	} `yaml:"logs"`
}

// LoadConfig loads the configuration from a YAML file.
// Defaults are applied separately, after env and flag overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills zero values with working defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = defaultRoot()
	}
	if cfg.Storage.StateDir == "" {
		cfg.Storage.StateDir = filepath.Join(cfg.Storage.Root, "state")
	}
	if cfg.Storage.MinFreeBytes == 0 {
		cfg.Storage.MinFreeBytes = 64 << 20
	}
	if cfg.Collector.Workers <= 0 {
		cfg.Collector.Workers = 2
	}
	if cfg.Collector.QueueSize <= 0 {
		cfg.Collector.QueueSize = 8
	}
	if cfg.Publish.Authority == "" {
		cfg.Publish.Authority = "content://logcap.file.provider"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = "127.0.0.1:8787"
	}
	if cfg.Server.PublicURL == "" {
		scheme := "http"
		if cfg.Server.CertFile != "" {
			scheme = "https"
		}
		cfg.Server.PublicURL = scheme + "://" + cfg.Server.Listen
	}
	if cfg.Server.RateLimit <= 0 {
		cfg.Server.RateLimit = 0.5
	}
	if cfg.Server.Burst <= 0 {
		cfg.Server.Burst = 2
	}
	if cfg.Logs.LogLevel == "" {
		cfg.Logs.LogLevel = "info"
	}
	if cfg.Sources == nil {
		cfg.Sources = DefaultSources(runtime.GOOS, cfg.Logs.AppLogFile)
	}
}

// DefaultSources returns the category bindings used when the config file
// has no sources section.
func DefaultSources(goos, appLogFile string) map[string]SourceConfig {
	sources := map[string]SourceConfig{}

	switch goos {
	case "android":
		sources["debug"] = SourceConfig{Kind: SourceCommand, Dump: []string{"logcat", "-d"}, Clear: []string{"logcat", "-c"}}
	case "linux":
		// The journal is shared with the rest of the host; clearing only
		// moves the saved cursor.
		sources["debug"] = SourceConfig{Kind: SourceJournald}
	case "darwin":
		sources["debug"] = SourceConfig{Kind: SourceCommand, Dump: []string{"log", "show", "--last", "1h"}}
	}

	if appLogFile != "" {
		sources["internal"] = SourceConfig{Kind: SourceFile, Path: appLogFile}
	}
	return sources
}

func defaultRoot() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "logcap")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", "logcap")
	}
	return "logcap-data"
}

// ApplyEnvOverrides applies LOGCAP_* environment variables on top of the file.
func ApplyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LOGCAP_ROOT"); val != "" {
		cfg.Storage.Root = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_ROOT = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_STATE_DIR"); val != "" {
		cfg.Storage.StateDir = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_STATE_DIR = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_CATEGORIES"); val != "" {
		cfg.Storage.Categories = SplitCSV(val)
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_CATEGORIES = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Collector.Workers = n
			fmt.Fprintf(os.Stderr, "Env override: LOGCAP_WORKERS = %s\n", val)
		} else {
			fmt.Fprintf(os.Stderr, "Invalid LOGCAP_WORKERS value: %s\n", val)
		}
	}
	if val := os.Getenv("LOGCAP_CAPTURE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Collector.CaptureTimeout = d
			fmt.Fprintf(os.Stderr, "Env override: LOGCAP_CAPTURE_TIMEOUT = %s\n", val)
		} else {
			fmt.Fprintf(os.Stderr, "Invalid LOGCAP_CAPTURE_TIMEOUT format: %s\n", val)
		}
	}
	if val := os.Getenv("LOGCAP_AUTHORITY"); val != "" {
		cfg.Publish.Authority = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_AUTHORITY = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_LISTEN"); val != "" {
		cfg.Server.Listen = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_LISTEN = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_PUBLIC_URL"); val != "" {
		cfg.Server.PublicURL = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_PUBLIC_URL = %s\n", val)
	}

	// Log paths
	if val := os.Getenv("LOGCAP_ERROR_LOG_FILE"); val != "" {
		cfg.Logs.ErrorLogFile = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_ERROR_LOG_FILE = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_APP_LOG_FILE"); val != "" {
		cfg.Logs.AppLogFile = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_APP_LOG_FILE = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_LOG_LEVEL"); val != "" {
		cfg.Logs.LogLevel = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_LOG_LEVEL = %s\n", val)
	}

	// TLS certs
	if val := os.Getenv("LOGCAP_TLS_CERT_FILE"); val != "" {
		cfg.Server.CertFile = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_TLS_CERT_FILE = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_TLS_KEY_FILE"); val != "" {
		cfg.Server.KeyFile = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_TLS_KEY_FILE = %s\n", val)
	}
	if val := os.Getenv("LOGCAP_TLS_CA_FILE"); val != "" {
		cfg.Server.CAFile = val
		fmt.Fprintf(os.Stderr, "Env override: LOGCAP_TLS_CA_FILE = %s\n", val)
	}
}

// SplitCSV splits a CSV string into a slice of strings.
// It trims whitespace from each element and ignores empty elements.
func SplitCSV(input string) []string {
	var out []string
	for _, s := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
