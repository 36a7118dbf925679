package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBackendURL is used when nothing else selects a backend
const DefaultBackendURL = "http://127.0.0.1:9000"

// Config holds the client configuration
type Config struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DefaultPath returns the config file location, honoring MERCAT_CONFIG
func DefaultPath() string {
	if p := os.Getenv("MERCAT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mercat.yaml"
	}
	return filepath.Join(dir, "mercat", "config.yaml")
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{BackendURL: DefaultBackendURL}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}

	if v := os.Getenv("MERCAT_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("MERCAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MERCAT_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// Validate returns an error if the configuration contains invalid values
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend_url %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend_url %q: scheme must be http or https", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: missing host", c.BackendURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
