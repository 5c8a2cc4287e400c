// Package config holds scan and cache settings, loaded from an optional
// yaml file and overridable from the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/disklens/internal/platform"
)

// Config drives the scanner, the cache, and the initial UI state.
type Config struct {
	// MaxDepth caps recursion; negative means unlimited.
	MaxDepth int `yaml:"max_depth"`

	// MaxConcurrentIO bounds in-flight directory reads. Zero means
	// derive from the storage type.
	MaxConcurrentIO int `yaml:"max_concurrent_io"`

	// FollowSymlinks enables traversal through symlink targets. When
	// false symlinks become zero-size leaf nodes.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// MergeThreshold is the fraction below which siblings fold into
	// "Others" in the UI. The scanner only carries it downstream.
	MergeThreshold float64 `yaml:"merge_threshold"`

	// IgnorePatterns skips matching paths silently. Patterns with glob
	// metacharacters match as globs, everything else as substrings.
	IgnorePatterns []string `yaml:"ignore_patterns"`

	// StorageType is normally probed; setting it here overrides the probe.
	StorageType platform.StorageType `yaml:"storage_type"`

	CacheDir        string `yaml:"cache_dir"`
	CacheMaxSize    string `yaml:"cache_max_size"` // e.g. "500MB"
	CacheMaxAgeDays int    `yaml:"cache_max_age_days"`
	NoCache         bool   `yaml:"no_cache"`
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the scanner cannot run with.
func (c *Config) Validate() error {
	if c.MaxConcurrentIO < 0 {
		return fmt.Errorf("max_concurrent_io must be >= 0")
	}
	if c.MergeThreshold < 0 || c.MergeThreshold >= 1 {
		return fmt.Errorf("merge_threshold must be in [0, 1)")
	}
	if c.CacheMaxAgeDays < 0 {
		return fmt.Errorf("cache_max_age_days must be >= 0")
	}
	return nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := platform.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
