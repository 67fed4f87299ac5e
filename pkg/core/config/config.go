// Package config loads the application configuration from YAML with
// sensible defaults, so the server runs with no config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"cfocopilot/pkg/core/agent"
)

// Config is the full application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Data struct {
		Dir         string `yaml:"dir"`
		MonthLayout string `yaml:"month_layout"`
	} `yaml:"data"`

	Classifier struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"classifier"`

	Prompts struct {
		Dir string `yaml:"dir"`
	} `yaml:"prompts"`

	Agent agent.Config `yaml:"agent"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Data.Dir = "fixtures"
	c.Classifier.TimeoutSeconds = 10
	c.Prompts.Dir = "resources/prompts"
	return c
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Classifier.TimeoutSeconds <= 0 {
		cfg.Classifier.TimeoutSeconds = 10
	}
	return cfg, nil
}

// ClassifierTimeout returns the classifier budget as a duration.
func (c Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSeconds) * time.Second
}
