// Package config loads server configuration from an optional YAML file,
// with flag/env overrides applied by main.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Addr         string `yaml:"addr"`
	DiagAddr     string `yaml:"diag_addr"`
	DBPath       string `yaml:"db_path"`        // empty runs on the in-memory store
	MediaDir     string `yaml:"media_dir"`      // where uploaded images land
	MediaBaseURL string `yaml:"media_base_url"` // public prefix for uploaded images
	FeaturedMode string `yaml:"featured_mode"`  // "random" or "list"
	RevealStep   int    `yaml:"reveal_step"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:         ":3333",
		DiagAddr:     ":9999",
		MediaDir:     "media",
		MediaBaseURL: "/media",
		FeaturedMode: "list",
		RevealStep:   3,
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults as-is.
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
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch c.FeaturedMode {
	case "random", "list":
	default:
		return fmt.Errorf("featured_mode must be \"random\" or \"list\", got %q", c.FeaturedMode)
	}

	if c.RevealStep <= 0 {
		return fmt.Errorf("reveal_step must be positive, got %d", c.RevealStep)
	}

	return nil
}

// GetEnv returns the environment value for key, or fallback when unset.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

// GetEnvBool is GetEnv for boolean flags; unparsable values fall back.
func GetEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}
