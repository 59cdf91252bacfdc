package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Environment variables read by LoadConfig and ConfigPath.
const (
	EnvConfig  = "KEEP_CONFIG"
	EnvBackend = "KEEP_BACKEND"
	EnvURL     = "KEEP_URL"
	EnvAnonKey = "KEEP_ANON_KEY"
)

// Config is the on-disk configuration.
type Config struct {
	Backend     string       `yaml:"backend"`
	REST        RESTConfig   `yaml:"rest"`
	SQLite      SQLiteConfig `yaml:"sqlite"`
	SessionFile string       `yaml:"session_file"`
	LogLevel    string       `yaml:"log_level"`
}

// RESTConfig points at the hosted backend.
type RESTConfig struct {
	URL     string        `yaml:"url"`
	AnonKey string        `yaml:"anon_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// SQLiteConfig locates the embedded database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".keep"
		}
		return filepath.Join(home, ".keep")
	}
	return filepath.Join(dir, "keep")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	dir := configDir()
	return Config{
		Backend:     BackendREST,
		SQLite:      SQLiteConfig{Path: filepath.Join(dir, "notes.db")},
		SessionFile: filepath.Join(dir, "session.yaml"),
		LogLevel:    "info",
	}
}

// ConfigPath returns $KEEP_CONFIG or the per-user default location.
func ConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.yaml")
}

// LoadConfig reads the file at path over the defaults and applies the
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config file (%s): %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file (%s): %w", path, err)
		}
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvURL); v != "" {
		cfg.REST.URL = v
	}
	if v := os.Getenv(EnvAnonKey); v != "" {
		cfg.REST.AnonKey = v
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.SQLite.Path = expandHome(cfg.SQLite.Path)
	cfg.SessionFile = expandHome(cfg.SessionFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if c.REST.URL == "" {
			return fmt.Errorf("backend %q requires rest.url (or %s)", c.Backend, EnvURL)
		}
		if c.REST.Timeout < 0 {
			return fmt.Errorf("rest.timeout cannot be negative")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("backend %q requires sqlite.path", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
