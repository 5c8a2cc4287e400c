package model

import (
	"sort"
	"strings"
)

// PathIndex maps absolute paths to node handles for substring search.
type PathIndex struct {
	nodes map[string]*Node
}

// BuildPathIndex walks the tree and indexes every node by path.
func BuildPathIndex(root *Node) *PathIndex {
	idx := &PathIndex{nodes: make(map[string]*Node)}
	idx.add(root)
	return idx
}

func (idx *PathIndex) add(n *Node) {
	idx.nodes[n.Path] = n
	for _, c := range n.Children {
		idx.add(c)
	}
}

// Lookup returns the node for an exact path, or nil.
func (idx *PathIndex) Lookup(path string) *Node {
	return idx.nodes[path]
}

// Search returns every node whose path contains pattern as a
// case-sensitive substring. Result order is unspecified.
func (idx *PathIndex) Search(pattern string) []*Node {
	var results []*Node
	for path, node := range idx.nodes {
		if strings.Contains(path, pattern) {
			results = append(results, node)
		}
	}
	return results
}

// Len returns the number of indexed nodes.
func (idx *PathIndex) Len() int {
	return len(idx.nodes)
}

// SizeIndex is a size-descending sequence of node handles for top-N
// queries. Ties break by path ascending.
type SizeIndex struct {
	sorted []*Node
}

// BuildSizeIndex collects every node in the tree and sorts by size.
func BuildSizeIndex(root *Node) *SizeIndex {
	idx := &SizeIndex{}
	collect(root, &idx.sorted)
	sort.Slice(idx.sorted, func(i, j int) bool {
		a, b := idx.sorted[i], idx.sorted[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Path < b.Path
	})
	return idx
}

func collect(n *Node, out *[]*Node) {
	*out = append(*out, n)
	for _, c := range n.Children {
		collect(c, out)
	}
}

// TopN returns up to n largest nodes, size-descending.
func (idx *SizeIndex) TopN(n int) []*Node {
	if n > len(idx.sorted) {
		n = len(idx.sorted)
	}
	return idx.sorted[:n]
}
