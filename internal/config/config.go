// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `envconfig:"VRD_HOST" yaml:"host"`
	Port int    `envconfig:"VRD_PORT" yaml:"port"`

	// Dataset configuration
	Dataset DatasetConfig `yaml:"dataset"`

	// Evaluation configuration
	Eval EvalConfig `yaml:"eval"`

	// Results store configuration
	Results ResultsConfig `yaml:"results"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Security configuration
	Security SecurityConfig `yaml:"security"`
}

// DatasetConfig locates the annotation corpus.
type DatasetConfig struct {
	AnnoPath   string `envconfig:"VRD_ANNO_PATH" yaml:"anno_path"`
	TrainSplit string `envconfig:"VRD_TRAIN_SPLIT" yaml:"train_split"`
	TestSplit  string `envconfig:"VRD_TEST_SPLIT" yaml:"test_split"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	VIoUThreshold     float64 `envconfig:"VRD_VIOU_THRESHOLD" yaml:"viou_threshold"`
	DetectionNReturns []int   `envconfig:"VRD_DETECTION_NRETURNS" yaml:"detection_nreturns"`
	TaggingNReturns   []int   `envconfig:"VRD_TAGGING_NRETURNS" yaml:"tagging_nreturns"`
	Workers           int     `envconfig:"VRD_EVAL_WORKERS" yaml:"workers"`
	ZeroShot          bool    `envconfig:"VRD_ZERO_SHOT" yaml:"zero_shot"`
}

// ResultsConfig holds submission result store settings.
type ResultsConfig struct {
	Type     string `envconfig:"VRD_RESULTS_TYPE" yaml:"type"`
	RedisURL string `envconfig:"VRD_REDIS_URL" yaml:"redis_url"`
	TTLHours int    `envconfig:"VRD_RESULTS_TTL_HOURS" yaml:"ttl_hours"` // 0 = no expiry
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"VRD_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"VRD_LOG_FORMAT" yaml:"format"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	RateLimit int `envconfig:"VRD_RATE_LIMIT" yaml:"rate_limit"` // requests/sec, 0 = disabled
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080

	cfg.Dataset = DatasetConfig{
		AnnoPath:   "./vidvrd-dataset",
		TrainSplit: "train",
		TestSplit:  "test",
	}

	cfg.Eval = EvalConfig{
		VIoUThreshold:     0.5,
		DetectionNReturns: []int{50, 100},
		TaggingNReturns:   []int{1, 5, 10},
		Workers:           0, // 0 = one per CPU
		ZeroShot:          true,
	}

	cfg.Results = ResultsConfig{
		Type:     "memory",
		RedisURL: "redis://localhost:6379",
		TTLHours: 0,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}

	cfg.Security = SecurityConfig{
		RateLimit: 0,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.Dataset.AnnoPath == "" {
		errs = append(errs, "dataset anno_path must be set")
	}

	if c.Eval.VIoUThreshold < 0 || c.Eval.VIoUThreshold > 1 {
		errs = append(errs, "viou_threshold must be between 0 and 1")
	}

	if len(c.Eval.DetectionNReturns) == 0 {
		errs = append(errs, "detection_nreturns must not be empty")
	}
	if !sortedPositive(c.Eval.DetectionNReturns) {
		errs = append(errs, "detection_nreturns must be positive and ascending")
	}

	if len(c.Eval.TaggingNReturns) == 0 {
		errs = append(errs, "tagging_nreturns must not be empty")
	}
	if !sortedPositive(c.Eval.TaggingNReturns) {
		errs = append(errs, "tagging_nreturns must be positive and ascending")
	}

	if c.Eval.Workers < 0 {
		errs = append(errs, "workers must not be negative")
	}

	validResultsTypes := map[string]bool{"memory": true, "redis": true}
	if !validResultsTypes[c.Results.Type] {
		errs = append(errs, fmt.Sprintf("invalid results type: %s (must be memory or redis)", c.Results.Type))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if c.Security.RateLimit < 0 {
		errs = append(errs, "rate_limit must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func sortedPositive(ns []int) bool {
	if len(ns) == 0 {
		return true
	}
	if ns[0] < 1 {
		return false
	}
	return sort.IntsAreSorted(ns)
}

// Address returns the server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Log.Level == "debug"
}
