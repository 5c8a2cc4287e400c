package config

import (
	"github.com/fenilsonani/disklens/internal/platform"
)

// Concurrency ceilings per storage type. Flash tolerates deep random-read
// queues; spinning disks thrash past a few dozen outstanding seeks.
const (
	ConcurrencySSD     = 256
	ConcurrencyHDD     = 32
	ConcurrencyUnknown = 64
)

// Default builds the baseline configuration. It leaves the storage type
// and concurrency unset; EffectiveConcurrency probes the storage type on
// first use to pick the I/O concurrency ceiling.
func Default() *Config {
	cacheDir, err := platform.CacheDir()
	if err != nil {
		cacheDir = ".disklens"
	}

	return &Config{
		MaxDepth:        -1,
		MaxConcurrentIO: 0, // resolved by EffectiveConcurrency
		FollowSymlinks:  false,
		MergeThreshold:  0.01,
		IgnorePatterns:  []string{},
		StorageType:     "",
		CacheDir:        cacheDir,
		CacheMaxSize:    "500MB",
		CacheMaxAgeDays: 30,
	}
}

// EffectiveStorageType returns the configured storage type, probing the
// host when unset.
func (c *Config) EffectiveStorageType() platform.StorageType {
	if c.StorageType != "" {
		return c.StorageType
	}
	return platform.DetectStorage()
}

// EffectiveConcurrency resolves MaxConcurrentIO, deriving it from the
// storage type when unset.
func (c *Config) EffectiveConcurrency() int {
	if c.MaxConcurrentIO > 0 {
		return c.MaxConcurrentIO
	}
	switch c.EffectiveStorageType() {
	case platform.SSD:
		return ConcurrencySSD
	case platform.HDD:
		return ConcurrencyHDD
	default:
		return ConcurrencyUnknown
	}
}

// Unlimited reports whether recursion depth is uncapped.
func (c *Config) Unlimited() bool {
	return c.MaxDepth < 0
}
