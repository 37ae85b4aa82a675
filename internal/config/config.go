package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "listfmt/internal/errors"
	"listfmt/internal/formatting"
	"listfmt/internal/history"
	"listfmt/internal/logger"
	"listfmt/internal/storage"
)

// Config represents the application configuration
type Config struct {
	Defaults  formatting.Options `yaml:"defaults"`
	DataDir   string             `yaml:"data_dir,omitempty"`
	Storage   StorageConfig      `yaml:"storage"`
	Clipboard ClipboardConfig    `yaml:"clipboard"`
	Log       LogConfig          `yaml:"log"`
}

// StorageConfig selects where the history snapshot lives
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

type ClipboardConfig struct {
	Enabled bool `yaml:"enabled"`
	// Hold keeps the process alive until another program takes the
	// clipboard, for platforms where content dies with its owner.
	Hold bool `yaml:"hold"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  bool   `yaml:"file"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Defaults: formatting.DefaultOptions(),
		Storage: StorageConfig{
			Backend: storage.BackendSQLite,
			Key:     history.DefaultKey,
		},
		Clipboard: ClipboardConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the config directory path (~/.config/listfmt)
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "listfmt"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the data directory path (~/.local/share/listfmt)
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "listfmt"), nil
}

// ResolveDataDir returns the configured data directory or the default one.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DataDir()
}

// LoadFrom reads and validates the config file at path. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.WrapConfig(path, fmt.Errorf("parse config file: %w", err),
			"Fix the YAML syntax", "Or delete the file and run 'listfmt init'")
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.WrapConfig(path, err)
	}

	return cfg, nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if !storage.ValidBackend(c.Storage.Backend) {
		return apperrors.NewValidation("storage.backend",
			fmt.Sprintf("unknown backend %q (want sqlite, file or memory)", c.Storage.Backend))
	}

	if c.Storage.Key == "" {
		return apperrors.NewValidation("storage.key", "must not be empty")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return apperrors.NewValidation("log.level", err.Error())
	}

	if c.DataDir != "" && c.DataDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("expand home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, c.DataDir[1:])
	}

	return nil
}

// InitConfig writes the default config to path. It never overwrites an
// existing file.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
