//go:build !windows

package cache

import (
	"io/fs"
	"syscall"
)

// inodeOf returns the inode backing info, or 0 where unavailable.
func inodeOf(info fs.FileInfo) uint64 {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return stat.Ino
	}
	return 0
}
