// Package config loads server configuration from defaults, an optional YAML
// file, and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPort is used when no port is supplied anywhere.
const DefaultPort = 3000

// Config holds the server configuration.
type Config struct {
	// Port is the single externally supplied network port.
	Port int `yaml:"port"`
	// DefaultTimezone overrides the detected local zone used when tool
	// callers omit a timezone argument. Empty means detect at startup.
	DefaultTimezone string `yaml:"default_timezone"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:     DefaultPort,
		LogLevel: "info",
	}
}

// Load builds the configuration. A non-empty path names a YAML file that
// must exist; environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("CHRONOS_DEFAULT_TIMEZONE"); v != "" {
		c.DefaultTimezone = v
	}
	if v := os.Getenv("CHRONOS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}
