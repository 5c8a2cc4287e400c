//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

// statInfo carries the platform metadata the portable layer cannot see.
type statInfo struct {
	inode      uint64
	sizeOnDisk int64
}

// statOf extracts inode and allocated size from the raw stat. Disk usage
// is st_blocks in 512-byte units regardless of the filesystem block size.
func statOf(info fs.FileInfo) statInfo {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return statInfo{sizeOnDisk: info.Size()}
	}
	return statInfo{
		inode:      stat.Ino,
		sizeOnDisk: int64(stat.Blocks) * 512,
	}
}
