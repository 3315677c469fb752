// Package config loads the smoke-tester configuration from defaults, an
// optional YAML file, and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/luisrosales852/object-detection/pkg/client"
)

// DetectConfig describes the optional live probe of POST /detect. When
// Image is empty the detect check only prints manual instructions.
type DetectConfig struct {
	Image          string  `yaml:"image"`
	Objects        string  `yaml:"objects"`
	Confidence     float64 `yaml:"confidence" validate:"min=0,max=1"`
	IncludeSimilar bool    `yaml:"include_similar"`
	FallbackToAll  bool    `yaml:"fallback_to_all"`
}

// HistoryConfig controls the optional sqlite run-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the complete smoke-tester configuration.
type Config struct {
	BaseURL       string             `yaml:"base_url" validate:"required,url"`
	Timeout       time.Duration      `yaml:"timeout"`
	PacePerSecond float64            `yaml:"pace_per_second" validate:"min=0"`
	Strict        bool               `yaml:"strict"`
	Retry         client.RetryPolicy `yaml:"retry"`
	Detect        DetectConfig       `yaml:"detect"`
	History       HistoryConfig      `yaml:"history"`
}

// DefaultConfig returns the configuration matching a stock local
// deployment of the detection service.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:8000",
		Timeout:       10 * time.Second,
		PacePerSecond: 2,
		Detect: DetectConfig{
			Objects:       "car,person",
			Confidence:    0.5,
			FallbackToAll: true,
		},
		History: HistoryConfig{
			Path: "./detcheck_history.db",
		},
	}
}

// Validate checks the configuration and fills defaults for zero values.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = "./detcheck_history.db"
	}

	validate := validator.New()
	return validate.Struct(c)
}

// ClientConfig maps this configuration onto the API client's own config.
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.BaseURL
	cc.Timeout = c.Timeout
	cc.Retry = c.Retry
	return cc
}

// Load loads configuration from file and environment variables. An empty
// path falls back to DETCHECK_CONFIG and then to well-known locations.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		path = os.Getenv("DETCHECK_CONFIG")
	}
	if path == "" {
		possiblePaths := []string{
			"./detcheck.yaml",
			"./detcheck.yml",
			filepath.Join(os.Getenv("HOME"), ".detcheck", "config.yaml"),
		}

		for _, candidate := range possiblePaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		if err := loadFromFile(config, path); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
		}
	}

	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

func loadFromEnv(config *Config) {
	if url := os.Getenv("DETCHECK_BASE_URL"); url != "" {
		config.BaseURL = url
	}

	if timeout := os.Getenv("DETCHECK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			config.Timeout = d
		}
	}

	if path := os.Getenv("DETCHECK_HISTORY_PATH"); path != "" {
		config.History.Path = path
	}

	if image := os.Getenv("DETCHECK_IMAGE"); image != "" {
		config.Detect.Image = image
	}
}
