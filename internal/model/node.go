// Package model holds the scan tree data model: nodes, indices, and the
// scan result shared between the scanner and the UI.
package model

import (
	"time"
)

// Kind classifies a filesystem entry observed during a scan.
type Kind uint8

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Node is a single filesystem entry in the scan tree. Directory sizes and
// counts are aggregated bottom-up at construction; once a subtree is handed
// to its parent it is immutable.
//
// Percentages are never stored on the node; they are derived from a total
// at read time so merges and filters never invalidate them.
type Node struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Kind       Kind      `json:"kind"`
	Size       int64     `json:"size"`
	SizeOnDisk int64     `json:"size_on_disk"`
	Children   []*Node   `json:"children,omitempty"`
	FileCount  int       `json:"file_count"`
	DirCount   int       `json:"dir_count"`
	ModTime    time.Time `json:"modified,omitempty"`
	Inode      uint64    `json:"inode,omitempty"`
}

// NewFile builds a leaf node for a regular file.
func NewFile(path, name string, size, sizeOnDisk int64, modTime time.Time, inode uint64) *Node {
	if sizeOnDisk == 0 {
		sizeOnDisk = size
	}
	return &Node{
		Path:       path,
		Name:       name,
		Kind:       KindFile,
		Size:       size,
		SizeOnDisk: sizeOnDisk,
		FileCount:  1,
		ModTime:    modTime,
		Inode:      inode,
	}
}

// NewDirectory builds a directory node, aggregating size and counts from
// its children. The children slice is taken as-is; ordering is imposed by
// the UI at render time.
func NewDirectory(path, name string, children []*Node) *Node {
	var size, sizeOnDisk int64
	var files, dirs int
	for _, c := range children {
		size += c.Size
		sizeOnDisk += c.SizeOnDisk
		files += c.FileCount
		dirs += c.DirCount
	}
	return &Node{
		Path:       path,
		Name:       name,
		Kind:       KindDirectory,
		Size:       size,
		SizeOnDisk: sizeOnDisk,
		Children:   children,
		FileCount:  files,
		DirCount:   dirs + 1,
	}
}

// Percentage returns this node's share of total as 0..100.
func (n *Node) Percentage(total int64) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(n.Size) / float64(total) * 100.0
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Find walks the subtree rooted at n looking for the node with the given
// path. Returns nil if the path is not in the tree.
func (n *Node) Find(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(path); found != nil {
			return found
		}
	}
	return nil
}
