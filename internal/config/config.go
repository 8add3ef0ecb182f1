package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides (LESSONBOOK_DB_PATH, ...).
const EnvPrefix = "LESSONBOOK"

// Config represents the flat lessonbook configuration stored in .lessonbook/config.json.
type Config struct {
	Version    string `json:"version"`
	DBPath     string `json:"db_path,omitempty"`
	ActorID    string `json:"actor_id,omitempty"` // user acting from this workspace
	HTTPAddr   string `json:"http_addr,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`    // debug, info, warn, error
	LockWaitMS int    `json:"lock_wait_ms,omitempty"` // 0 fails fast on a held lock
}

// envOverrides mirrors Config for environment variables. Empty strings and a
// nil LockWaitMS mean unset.
type envOverrides struct {
	DBPath     string `envconfig:"DB_PATH"`
	ActorID    string `envconfig:"ACTOR_ID"`
	HTTPAddr   string `envconfig:"HTTP_ADDR"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	LockWaitMS *int   `envconfig:"LOCK_WAIT_MS"`
}

// LoadConfig reads .lessonbook/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".lessonbook", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".lessonbook")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .lessonbook dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective configuration for dir.
// Precedence: environment, then the config file, then defaults.
// A missing config file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Defaults()

	file, err := LoadConfig(dir)
	switch {
	case err == nil:
		merge(cfg, file)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Version:  "1.0",
		DBPath:   DefaultDBPath(),
		HTTPAddr: ":8080",
		LogLevel: "info",
	}
}

// DefaultDBPath returns ~/.lessonbook/lessonbook.db, or a relative path if
// the home directory cannot be resolved.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lessonbook", "lessonbook.db")
	}
	return filepath.Join(home, ".lessonbook", "lessonbook.db")
}

// LockWait returns the configured lock wait as a duration.
func (c *Config) LockWait() time.Duration {
	return time.Duration(c.LockWaitMS) * time.Millisecond
}

func merge(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}
	if src.DBPath != "" {
		dst.DBPath = src.DBPath
	}
	if src.ActorID != "" {
		dst.ActorID = src.ActorID
	}
	if src.HTTPAddr != "" {
		dst.HTTPAddr = src.HTTPAddr
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LockWaitMS != 0 {
		dst.LockWaitMS = src.LockWaitMS
	}
}

func applyEnv(dst *Config, env envOverrides) error {
	merge(dst, &Config{
		DBPath:   env.DBPath,
		ActorID:  env.ActorID,
		HTTPAddr: env.HTTPAddr,
		LogLevel: env.LogLevel,
	})
	if env.LockWaitMS != nil {
		if *env.LockWaitMS < 0 {
			return fmt.Errorf("invalid %s_LOCK_WAIT_MS %d: must not be negative", EnvPrefix, *env.LockWaitMS)
		}
		dst.LockWaitMS = *env.LockWaitMS
	}
	return nil
}
