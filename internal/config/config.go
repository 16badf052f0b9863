// Package config loads server settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	Addr            string `yaml:"addr"`
	DataDir         string `yaml:"data_dir"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DataDir:         "data",
		SessionTTLHours: 24,
	}
}

// Load reads the YAML file at path when it exists, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TEPORTAL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TEPORTAL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TEPORTAL_SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SessionTTLHours = n
		}
	}
}
