// Package config loads the server configuration from an optional YAML
// file, with command-line flags overriding individual values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "12h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds everything the server needs to run.
type Config struct {
	ListenAddr    string       `yaml:"listen_addr"`
	BackendURL    string       `yaml:"backend_url"`
	DBPath        string       `yaml:"db_path"`
	SessionSecret string       `yaml:"session_secret"`
	SessionTTL    Duration     `yaml:"session_ttl"`
	Lookup        LookupConfig `yaml:"lookup"`
}

// LookupConfig controls the per-IP rate limit on the search proxy.
type LookupConfig struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		DBPath:     "odprema.sqlite3",
		SessionTTL: Duration(12 * time.Hour),
		Lookup:     LookupConfig{RPS: 5, Burst: 10},
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that required values are present.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	if c.Lookup.RPS <= 0 || c.Lookup.Burst <= 0 {
		return fmt.Errorf("lookup rps and burst must be positive")
	}
	return nil
}
