package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// detectStorageLinux reads the rotational flag of the first sd/nvme/vd
// block device from sysfs.
func detectStorageLinux() StorageType {
	entries, err := os.ReadDir("/sys/block")
	if err != nil {
		return Unknown
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "sd") &&
			!strings.HasPrefix(name, "nvme") &&
			!strings.HasPrefix(name, "vd") {
			continue
		}

		data, err := os.ReadFile(filepath.Join("/sys/block", name, "queue", "rotational"))
		if err != nil {
			continue
		}

		switch strings.TrimSpace(string(data)) {
		case "0":
			return SSD
		case "1":
			return HDD
		}
	}

	return Unknown
}
