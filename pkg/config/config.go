package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is stamped into the default User-Agent.
var Version = "0.1.0"

// DefaultBaseURL is the public OpenAlex API.
const DefaultBaseURL = "https://api.openalex.org"

// Config holds all oars configuration.
type Config struct {
	BaseURL    string        `yaml:"base_url"`
	UserAgent  string        `yaml:"user_agent"`
	Email      string        `yaml:"email"`
	APIKey     string        `yaml:"api_key"`
	MaxRetries int           `yaml:"max_retries"`
	Politeness time.Duration `yaml:"politeness"`
	Timeout    time.Duration `yaml:"timeout"`
	DailyLimit int64         `yaml:"daily_limit"`
	ResetAfter time.Duration `yaml:"reset_after"`
	Logging    bool          `yaml:"logging"`
	LogLevel   string        `yaml:"log_level"`
	DBPath     string        `yaml:"db_path"`
	Cache      CacheConfig   `yaml:"cache"`
	Redis      RedisConfig   `yaml:"redis"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig selects a shared Redis quota counter. Empty Addr keeps the
// counter in process.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// MetricsConfig controls Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  "oars/" + Version,
		MaxRetries: 3,
		Politeness: 100 * time.Millisecond,
		Timeout:    30 * time.Second,
		DailyLimit: 100000,
		ResetAfter: 24 * time.Hour,
		LogLevel:   "info",
		DBPath:     "oars.db",
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Hour,
		},
		Redis: RedisConfig{
			Key: "oars:quota",
		},
		Metrics: MetricsConfig{
			Namespace: "oars",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// MaxRetriesLimit bounds max_retries.
const MaxRetriesLimit = 10

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if c.DailyLimit <= 0 {
		errs = append(errs, fmt.Errorf("daily_limit must be positive, got %d", c.DailyLimit))
	}
	if c.ResetAfter <= 0 {
		errs = append(errs, fmt.Errorf("reset_after must be positive, got %s", c.ResetAfter))
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxRetriesLimit {
		errs = append(errs, fmt.Errorf("max_retries must be between 0 and %d, got %d", MaxRetriesLimit, c.MaxRetries))
	}
	if c.Politeness < 0 {
		errs = append(errs, fmt.Errorf("politeness must not be negative, got %s", c.Politeness))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
