package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const appDir = "cloud-optimizer"

// FileLoader reads Config from a YAML file. A missing file is not an error;
// defaults and environment overrides still apply.
type FileLoader struct {
	path   string
	getenv func(string) string
}

// NewFileLoader returns a loader for path. An empty path selects the default
// location under the user config directory.
func NewFileLoader(path string) *FileLoader {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &FileLoader{path: path, getenv: os.Getenv}
}

// DefaultConfigPath returns ~/.config/cloud-optimizer/config.yaml (or the
// platform equivalent).
func DefaultConfigPath() string {
	return filepath.Join(userConfigDir(), appDir, "config.yaml")
}

func (l *FileLoader) ConfigPath() string { return l.path }

func (l *FileLoader) Load() (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "file",
			Path:   filepath.Join(userConfigDir(), appDir, "resources.json"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		AWS: AWSConfig{
			DaysBack: 30,
		},
	}
}

// applyEnv overrides file values with environment variables.
func (l *FileLoader) applyEnv(cfg *Config) error {
	cfg.Store.Driver = l.env("COPT_STORE", cfg.Store.Driver)
	cfg.Store.Path = l.env("COPT_STORE_PATH", cfg.Store.Path)
	cfg.Store.DatabaseURL = l.env("DATABASE_URL", cfg.Store.DatabaseURL)
	cfg.Store.DatabaseURL = l.env("COPT_DATABASE_URL", cfg.Store.DatabaseURL)
	cfg.Log.Level = l.env("COPT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = l.env("COPT_LOG_FORMAT", cfg.Log.Format)
	cfg.Policy.Path = l.env("COPT_POLICY", cfg.Policy.Path)
	cfg.AWS.DefaultProfile = l.env("AWS_PROFILE", cfg.AWS.DefaultProfile)
	cfg.Kubernetes.Context = l.env("COPT_KUBE_CONTEXT", cfg.Kubernetes.Context)
	cfg.Metrics.TextfilePath = l.env("COPT_METRICS_TEXTFILE", cfg.Metrics.TextfilePath)

	if v := l.getenv("COPT_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COPT_AUTO_MIGRATE: %w", err)
		}
		cfg.Store.AutoMigrate = b
	}
	if v := l.getenv("COPT_DAYS_BACK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COPT_DAYS_BACK: %w", err)
		}
		cfg.AWS.DaysBack = n
	}
	return nil
}

func (l *FileLoader) env(key, fallback string) string {
	if v := l.getenv(key); v != "" {
		return v
	}
	return fallback
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}
