package platform

import (
	"os/exec"
	"strings"
)

// detectStorageMacOS asks system_profiler about the storage hardware.
func detectStorageMacOS() StorageType {
	out, err := exec.Command("system_profiler", "SPStorageDataType").Output()
	if err != nil {
		return Unknown
	}

	text := strings.ToLower(string(out))
	switch {
	case strings.Contains(text, "solid state"), strings.Contains(text, "ssd"), strings.Contains(text, "nvme"):
		return SSD
	case strings.Contains(text, "rotational"), strings.Contains(text, "hdd"):
		return HDD
	default:
		return Unknown
	}
}
