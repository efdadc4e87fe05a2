// Package config loads the gameconsole configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the persistent application configuration
type Config struct {
	// Backend is the origin every endpoint is resolved against.
	Backend string `yaml:"backend"`

	Endpoints EndpointConfig `yaml:"endpoints"`

	// PollInterval is the delay between poll cycles of each text panel.
	PollInterval time.Duration `yaml:"poll_interval"`

	// JournalPath enables the SQLite command journal when non-empty.
	JournalPath string `yaml:"journal_path"`

	Log LogConfig `yaml:"log"`
}

// EndpointConfig holds the paths of the three backend endpoints.
type EndpointConfig struct {
	Out        string `yaml:"out"`
	CommandOut string `yaml:"command_out"`
	Command    string `yaml:"command"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"` // defaults to <data dir>/logs
}

// DefaultConfig returns the endpoints the game server exposes out of the box.
func DefaultConfig() *Config {
	return &Config{
		Backend: "http://127.0.0.1:8081",
		Endpoints: EndpointConfig{
			Out:        "/out",
			CommandOut: "/command_out",
			Command:    "/command",
		},
		PollInterval: 100 * time.Millisecond,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DataDir returns ~/.gameconsole. It fails when the home directory cannot
// be determined rather than falling back to the working directory.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate data dir: %w", err)
	}
	return filepath.Join(home, ".gameconsole"), nil
}

// ConfigPath returns the path to the default config file
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads config from path, or returns defaults when the file does not
// exist. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays GAMECONSOLE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("GAMECONSOLE_BACKEND")); v != "" {
		c.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("GAMECONSOLE_POLL_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GAMECONSOLE_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("GAMECONSOLE_JOURNAL")); v != "" {
		c.JournalPath = v
	}
	return nil
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend)
	if err != nil {
		return fmt.Errorf("backend %q: %w", c.Backend, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend %q must be an absolute http(s) URL", c.Backend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	for name, p := range map[string]string{
		"out":         c.Endpoints.Out,
		"command_out": c.Endpoints.CommandOut,
		"command":     c.Endpoints.Command,
	} {
		if p == "" {
			return fmt.Errorf("endpoint %s is empty", name)
		}
	}
	return nil
}

// URL resolves an endpoint path against the backend origin.
func (c *Config) URL(path string) string {
	return strings.TrimRight(c.Backend, "/") + "/" + strings.TrimLeft(path, "/")
}

// LogDir returns the configured log directory or the default one.
func (c *Config) LogDir() (string, error) {
	if c.Log.Dir != "" {
		return c.Log.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// Save writes config to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
