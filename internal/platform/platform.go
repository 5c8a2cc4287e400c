// Package platform probes the host's primary storage medium and resolves
// per-user cache and config directories.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// StorageType classifies a storage medium. The probe looks at the host's
// disks, not at the disk holding the scan root; it only has to be good
// enough to pick an I/O concurrency ceiling.
type StorageType string

const (
	SSD     StorageType = "ssd"
	HDD     StorageType = "hdd"
	Unknown StorageType = "unknown"
)

// DetectStorage probes the storage type of the primary disk.
func DetectStorage() StorageType {
	switch runtime.GOOS {
	case "linux":
		return detectStorageLinux()
	case "darwin":
		return detectStorageMacOS()
	default:
		return Unknown
	}
}

// CacheDir returns the disklens cache directory, e.g.
// ~/.cache/disklens on Linux or ~/Library/Caches/disklens on macOS.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "disklens"), nil
}

// ConfigDir returns the disklens config directory.
func ConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "disklens"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "disklens"), nil
}
