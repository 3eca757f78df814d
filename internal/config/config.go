// Package config loads robodesk settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fentz26/robodesk/internal/auth"
	"gopkg.in/yaml.v3"
)

// Session storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds robodesk configuration.
type Config struct {
	// DataDir holds the database. A leading ~ expands to the home directory.
	DataDir string `yaml:"data_dir"`
	// Database is the SQLite file name, relative to DataDir unless absolute.
	Database string `yaml:"database"`
	// SessionBackend selects where session and activity keys live: sqlite or redis.
	SessionBackend string      `yaml:"session_backend"`
	Redis          RedisConfig `yaml:"redis"`
	Log            LogConfig   `yaml:"log"`
	// Roster lists the users allowed to sign in. Empty means the built-in roster.
	Roster []auth.Member `yaml:"roster"`
}

// RedisConfig configures the Redis session backend.
type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "~/.robodesk",
		Database:       "robodesk.db",
		SessionBackend: BackendSQLite,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "robodesk:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// HomePath returns ~/.config/robodesk/config.yaml.
func HomePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, ".config", "robodesk", "config.yaml"), nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromHome loads configuration from HomePath.
func LoadConfigFromHome() (*Config, error) {
	path, err := HomePath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// SaveConfig writes cfg to path, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// The roster carries passwords.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database must be set")
	}
	switch c.SessionBackend {
	case BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr must be set for the redis backend")
		}
	default:
		return fmt.Errorf("invalid session_backend %q, must be: %s or %s", c.SessionBackend, BackendSQLite, BackendRedis)
	}
	if _, err := c.BuildRoster(); err != nil {
		return err
	}
	return nil
}

// DatabasePath resolves the SQLite file location.
func (c *Config) DatabasePath() (string, error) {
	if filepath.IsAbs(c.Database) {
		return c.Database, nil
	}
	dir, err := expandHome(c.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Database), nil
}

// BuildRoster returns the configured roster, or the built-in one when none is configured.
func (c *Config) BuildRoster() (*auth.Roster, error) {
	if len(c.Roster) == 0 {
		return auth.DefaultRoster(), nil
	}
	return auth.NewRoster(c.Roster)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
