// Package config loads the process configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ContentConfig configures the external personalized-content provider.
type ContentConfig struct {
	// Endpoint is the HTTP endpoint content requests are posted to.
	Endpoint string `mapstructure:"endpoint"`
	// ServerURL is the base URL relative media addresses are resolved
	// against before they are sent to controllers.
	ServerURL string `mapstructure:"server_url"`
	// TimeoutMs bounds a single content fetch. Zero means no timeout.
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// GatewayConfig configures the optional authorization gateway strategies are
// escalated to before execution.
type GatewayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// CatalogConfig locates the authored strategy catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ObservabilityConfig carries the logging and metrics knobs.
type ObservabilityConfig struct {
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// Config is the full process configuration.
type Config struct {
	Content       ContentConfig       `mapstructure:"content"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// Load reads the configuration file named by TUTORMESH_CONFIG, falling back
// to tutormesh.yaml in the working directory. A missing file yields the
// defaults rather than an error; a malformed file is an error.
func Load() (*Config, error) {
	path := os.Getenv("TUTORMESH_CONFIG")
	if path == "" {
		path = "tutormesh.yaml"
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return unmarshal(v)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.timeout_ms", 10000)
	v.SetDefault("catalog.path", "strategies.yaml")
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 2112)
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
}

func applyEnvOverrides(cfg *Config) {
	if s := os.Getenv("TUTORMESH_CONTENT_ENDPOINT"); s != "" {
		cfg.Content.Endpoint = s
	}
	if s := os.Getenv("TUTORMESH_CONTENT_SERVER_URL"); s != "" {
		cfg.Content.ServerURL = s
	}
	if s := os.Getenv("TUTORMESH_GATEWAY_URL"); s != "" {
		cfg.Gateway.Enabled = true
		cfg.Gateway.URL = s
	}
	if s := os.Getenv("TUTORMESH_CATALOG"); s != "" {
		cfg.Catalog.Path = s
	}
	if s := os.Getenv("TUTORMESH_LOG_LEVEL"); s != "" {
		cfg.Observability.Logging.Level = s
	}
	if p := os.Getenv("TUTORMESH_METRICS_PORT"); p != "" {
		var x int
		_, _ = fmt.Sscanf(p, "%d", &x)
		if x > 0 {
			cfg.Observability.Metrics.Port = x
		}
	}
}
