// Package config resolves runtime settings for the todokeep binary.
//
// Precedence, highest first: command-line flags, TODOKEEP_* environment
// variables, an optional YAML config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted for the store setting.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	DefaultFile     = "todos.json"
	DefaultBackend  = BackendFile
	DefaultLogLevel = "info"
)

// EnvConfig names an explicit config file location. The default lookup
// is <user config dir>/todokeep/config.yaml.
const EnvConfig = "TODOKEEP_CONFIG"

// Config holds the resolved runtime settings.
type Config struct {
	// File is the backing store location.
	File string `yaml:"file"`
	// Store selects the backend, "file" or "sqlite".
	Store string `yaml:"store"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Overrides carries settings supplied on the command line. Empty fields
// defer to the environment, then the config file, then the defaults.
type Overrides struct {
	File     string
	Store    string
	LogLevel string
}

// Load resolves the configuration. A missing config file at the default
// location is fine; an EnvConfig path that does not exist, a file that
// does not parse, and an invalid store or log level from any source are
// all errors.
func Load(ov Overrides) (Config, error) {
	cfg := Config{File: DefaultFile, Store: DefaultBackend, LogLevel: DefaultLogLevel}

	path, explicit := configPath()
	if path != "" {
		err := applyYAML(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	applyOverrides(&cfg, ov)
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps the configured log level onto a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func configPath() (path string, explicit bool) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "todokeep", "config.yaml"), false
}

func applyYAML(path string, cfg *Config) error {
	var file Config
	if err := loadYAML(path, &file); err != nil {
		return err
	}
	if file.File != "" {
		cfg.File = file.File
	}
	if file.Store != "" {
		cfg.Store = file.Store
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	return nil
}

func loadYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TODOKEEP_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODOKEEP_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("TODOKEEP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func applyOverrides(cfg *Config, ov Overrides) {
	if ov.File != "" {
		cfg.File = ov.File
	}
	if ov.Store != "" {
		cfg.Store = ov.Store
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
}

func (c *Config) normalize() {
	c.File = strings.TrimSpace(c.File)
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

func (c Config) validate() error {
	if c.File == "" {
		return errors.New("backing file path is empty")
	}
	switch c.Store {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid store %q, want %q or %q", c.Store, BackendFile, BackendSQLite)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}
