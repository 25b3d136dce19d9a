package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Limits  LimitsConfig  `yaml:"limits" envconfig:"LIMITS"`
	SLA     SLAConfig     `yaml:"sla" envconfig:"SLA"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"console"`
}

// LimitsConfig bounds one comparison batch.
type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	MaxFiles       int   `yaml:"max_files" envconfig:"MAX_FILES" default:"20"`
	MaxParallel    int   `yaml:"max_parallel" envconfig:"MAX_PARALLEL" default:"4"`
}

// SLAConfig holds the default SLA threshold applied when a request does
// not supply one. Zero or negative thresholds are valid degenerate cases:
// every valid value counts as a breach.
type SLAConfig struct {
	DefaultThresholdSeconds float64 `yaml:"default_threshold_seconds" envconfig:"DEFAULT_THRESHOLD_SECONDS" default:"1.0"`
}

// Load loads configuration from environment variables and, when present,
// overlays the YAML file named by PERFCLI_CONFIG_FILE (default
// perfcli.yaml).
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PERFCLI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv("PERFCLI_CONFIG_FILE")
	if configFile == "" {
		configFile = "perfcli.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := overlayFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// overlayFromFile unmarshals the YAML file over the already-populated
// config; keys present in the file win over env defaults.
func overlayFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", c.Limits.MaxUploadBytes)
	}
	if c.Limits.MaxFiles <= 0 {
		return fmt.Errorf("max files must be positive: %d", c.Limits.MaxFiles)
	}
	return nil
}
