// Package config handles loading and validating the monitor daemon
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level monitor daemon configuration.
type Config struct {
	Restocks RestocksConfig `yaml:"restocks"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Duration decodes YAML duration strings like "30s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RestocksConfig defines marketplace account and transport settings.
type RestocksConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Email     string          `yaml:"email"`
	Password  string          `yaml:"password"`
	Proxies   []string        `yaml:"proxies"`
	Timeout   Duration        `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines request throttling settings. A zero per-second
// rate disables the limiter entirely.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// MonitorConfig defines sales monitor settings.
type MonitorConfig struct {
	Interval       Duration `yaml:"interval"`
	DiscordWebhook string   `yaml:"discord_webhook"`
	MetricsAddr    string   `yaml:"metrics_addr"`
}

// LoggingConfig defines log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and validates a config file. ${VAR} references in the file
// are expanded from the environment before parsing, so credentials can
// stay out of the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with sensible defaults applied.
func Default() *Config {
	return &Config{
		Restocks: RestocksConfig{
			Timeout: Duration(30 * time.Second),
		},
		Monitor: MonitorConfig{
			Interval: Duration(5 * time.Minute),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	var errs []error

	if c.Restocks.Email == "" {
		errs = append(errs, errors.New("restocks.email is required"))
	}
	if c.Restocks.Password == "" {
		errs = append(errs, errors.New("restocks.password is required"))
	}
	if c.Restocks.Timeout <= 0 {
		errs = append(errs, errors.New("restocks.timeout must be positive"))
	}
	if c.Monitor.Interval <= 0 {
		errs = append(errs, errors.New("monitor.interval must be positive"))
	}
	if c.Restocks.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("restocks.rate_limit.per_second must not be negative"))
	}
	if c.Restocks.RateLimit.PerSecond > 0 && c.Restocks.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("restocks.rate_limit.burst must be positive when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}
