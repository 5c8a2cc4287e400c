//go:build windows

package scanner

import "io/fs"

type statInfo struct {
	inode      uint64
	sizeOnDisk int64
}

// statOf falls back to the logical size where inodes and block counts are
// not exposed.
func statOf(info fs.FileInfo) statInfo {
	return statInfo{sizeOnDisk: info.Size()}
}
