package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/devpospicha/logcap/internal/config"
)

// Overrides carries command-line flag values. Empty fields leave the
// file/env value untouched.
type Overrides struct {
	ConfigPath   string
	Root         string
	LogLevel     string
	AppLogFile   string
	ErrorLogFile string
	Listen       string
	Categories   []string
}

// LoadConfig loads the configuration from a file, environment variables, and command-line flags.
// It applies the overrides in the following order: command-line flags > environment variables > config file.
// Defaults are filled last so derived values (state dir, public URL) follow the overrides.
func LoadConfig(o Overrides) (*config.Config, error) {
	// .env is optional
	_ = godotenv.Load()

	configPath, err := resolvePath(o.ConfigPath, "LOGCAP_CONFIG", "logcap.yaml")
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDefaultConfig(configPath); err != nil {
		return nil, errors.Wrapf(err, "could not create default config at %s", configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", configPath)
	}

	config.ApplyEnvOverrides(cfg)

	// Apply CLI flag overrides (highest priority)
	if o.Root != "" {
		cfg.Storage.Root = o.Root
	}
	if len(o.Categories) > 0 {
		cfg.Storage.Categories = o.Categories
	}
	if o.LogLevel != "" {
		cfg.Logs.LogLevel = o.LogLevel
	}
	if o.AppLogFile != "" {
		cfg.Logs.AppLogFile = o.AppLogFile
	}
	if o.ErrorLogFile != "" {
		cfg.Logs.ErrorLogFile = o.ErrorLogFile
	}
	if o.Listen != "" {
		cfg.Server.Listen = o.Listen
	}

	config.ApplyDefaults(cfg)
	return cfg, nil
}

// resolvePath resolves the path for a given flag value, environment variable, and fallback value.
// It checks if the flag value is set, then checks the environment variable,
// and finally falls back to the provided default value.
func resolvePath(flagVal, envVar, fallback string) (string, error) {
	if flagVal != "" {
		return absPath(flagVal)
	}
	if val := os.Getenv(envVar); val != "" {
		return absPath(val)
	}
	return absPath(fallback)
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve path %s", path)
	}
	return abs, nil
}
