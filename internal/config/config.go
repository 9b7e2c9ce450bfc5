// Package config loads and saves the gffkit configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/gffkit/core/gff"
	"github.com/FocuswithJustin/gffkit/internal/logging"
)

// DefaultPath is where the configuration lives unless --config says otherwise.
const DefaultPath = "~/.config/gffkit/config.yaml"

// Config represents the gffkit configuration
type Config struct {
	// Version is the GFF version assumed for streams without a
	// ##gff-version directive.
	Version string  `yaml:"version"`
	Logging Logging `yaml:"logging"`
	Store   Store   `yaml:"store"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Store contains the SQLite export configuration
type Store struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "3",
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Store: Store{
			Path: "~/.local/share/gffkit/gff.db",
		},
	}
}

// Load reads the configuration at path, "~" expanded. Fields missing from
// the file keep their defaults; a file that does not exist yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path %q: %w", path, err)
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", expanded, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(cfg *Config, path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("invalid config path %q: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that every setting names something gffkit understands.
func (c *Config) Validate() error {
	if _, err := gff.ParseDialect(c.Version); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}

// StorePath returns the SQLite path with "~" expanded.
func (c *Config) StorePath() (string, error) {
	return homedir.Expand(c.Store.Path)
}
