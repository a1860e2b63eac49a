package config

// Config is the top-level application configuration.
// It is loaded from ~/.config/cloud-optimizer/config.yaml, then overridden by
// environment variables. It must never be committed with real secrets.
type Config struct {
	Store      StoreConfig      `yaml:"store"      json:"store"`
	Log        LogConfig        `yaml:"log"        json:"log"`
	Policy     PolicyConfig     `yaml:"policy"     json:"policy"`
	AWS        AWSConfig        `yaml:"aws"        json:"aws"`
	Kubernetes KubernetesConfig `yaml:"kubernetes" json:"kubernetes"`
	Metrics    MetricsConfig    `yaml:"metrics"    json:"metrics"`
}

// StoreConfig selects the resource store backend.
type StoreConfig struct {
	// Driver is one of "file", "memory" or "postgres".
	Driver string `yaml:"driver" json:"driver"`

	// Path is the snapshot location for the file driver.
	Path string `yaml:"path" json:"path"`

	// DatabaseURL is the PostgreSQL connection string for the postgres driver.
	// Never committed to version control.
	DatabaseURL string `yaml:"database_url" json:"-"`

	// AutoMigrate applies pending schema migrations on startup.
	AutoMigrate bool `yaml:"auto_migrate" json:"auto_migrate"`
}

type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "json" or "console".
	Format string `yaml:"format" json:"format"`
}

// PolicyConfig points at the optional policy file.
type PolicyConfig struct {
	Path string `yaml:"path" json:"path"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// DefaultRegion is used when no region flag or profile region is set.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// DefaultProfile is used when no --profile flag is provided.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`

	// DaysBack is the metric and billing lookback window.
	DaysBack int `yaml:"days_back" json:"days_back"`
}

type KubernetesConfig struct {
	// Context is the kubeconfig context used when --context is not provided.
	Context string `yaml:"context" json:"context"`
}

type MetricsConfig struct {
	// TextfilePath, when set, receives Prometheus gauges after each analysis.
	TextfilePath string `yaml:"textfile_path" json:"textfile_path"`
}

// Loader is the interface for reading Config from disk.
// Default implementation reads from ~/.config/cloud-optimizer/config.yaml.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}
