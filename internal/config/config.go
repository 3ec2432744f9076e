/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/substantialcattle5/findup/internal/constants"
	"github.com/substantialcattle5/findup/internal/fs"
)

// Config holds the persisted scan settings
type Config struct {
	MinFileSize int64  `yaml:"min_file_size"`
	PrefixSize  int64  `yaml:"prefix_size"`
	BufferSize  string `yaml:"buffer_size"`
	Workers     int    `yaml:"workers"`
	Paranoid    bool   `yaml:"paranoid"`
	Exec        string `yaml:"exec,omitempty"`
	ExecHashArg bool   `yaml:"exec_hash_arg"`
	Sort        string `yaml:"sort"`
	NoSummary   bool   `yaml:"no_summary"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		MinFileSize: constants.DefaultMinFileSize,
		PrefixSize:  constants.DefaultPrefixSize,
		BufferSize:  constants.DefaultBufferSize,
		Workers:     runtime.GOMAXPROCS(0),
		Sort:        constants.SortByWasted,
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, constants.ProgName, constants.ConfigFileName), nil
}

// Load reads the config at path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := fs.WriteFileAtomic(path, data, constants.StandardFilePerms); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}
