// Package cache persists scan results between runs and short-circuits
// re-scans of unchanged trees. The body is a versioned gob blob; the
// sidecar metadata is JSON so operators can inspect staleness by hand.
package cache

import (
	"encoding/binary"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fenilsonani/disklens/internal/model"
)

var magic = [4]byte{'D', 'L', 'N', 'S'}

// schemaVersion invalidates every existing cache body when the gob layout
// changes.
const schemaVersion uint32 = 1

// body is the gob persistence layout. Indices are rebuilt after load, so
// only the tree and summary travel to disk.
type body struct {
	Root       *model.Node
	RootPath   string
	TotalSize  int64
	TotalFiles int
	TotalDirs  int
	Duration   time.Duration
	Errors     []model.ScanError
	Timestamp  time.Time
}

// Meta is the human-readable sidecar used for change detection before the
// body is deserialized.
type Meta struct {
	OriginalPath  string    `json:"original_path"`
	ScanTimestamp time.Time `json:"scan_timestamp"`
	TotalSize     int64     `json:"total_size"`
	FileCount     int       `json:"file_count"`
	DirCount      int       `json:"dir_count"`
	RootMTime     time.Time `json:"root_mtime"`
	RootInode     uint64    `json:"root_inode,omitempty"`
}

// Cache stores serialized scan results under a single directory.
type Cache struct {
	dir     string
	maxSize int64
	maxAge  time.Duration
}

// New creates a cache rooted at dir with the given quota and TTL.
func New(dir string, maxSize int64, maxAge time.Duration) *Cache {
	return &Cache{dir: dir, maxSize: maxSize, maxAge: maxAge}
}

func hashPath(root string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(root))
}

func (c *Cache) bodyPath(root string) string {
	return filepath.Join(c.dir, hashPath(root)+".cache")
}

func (c *Cache) metaPath(root string) string {
	return filepath.Join(c.dir, hashPath(root)+".meta.json")
}

// Load returns the cached result for root if change detection passes.
// Any failure along the way is a miss, never an error: the caller falls
// back to a fresh scan.
func (c *Cache) Load(root string) (*model.ScanResult, bool) {
	meta, err := c.loadMeta(root)
	if err != nil {
		slog.Debug("cache miss", "root", root, "reason", err)
		return nil, false
	}

	if meta.OriginalPath != root {
		slog.Debug("cache miss", "root", root, "reason", "path mismatch")
		return nil, false
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, false
	}
	if !info.ModTime().Equal(meta.RootMTime) {
		slog.Debug("cache miss", "root", root, "reason", "mtime changed")
		return nil, false
	}
	if ino := inodeOf(info); ino != 0 && meta.RootInode != 0 && ino != meta.RootInode {
		slog.Debug("cache miss", "root", root, "reason", "inode changed")
		return nil, false
	}

	result, err := c.readBody(root)
	if err != nil {
		slog.Debug("cache body unreadable", "root", root, "error", err)
		return nil, false
	}
	if !result.Timestamp.Equal(meta.ScanTimestamp) || result.TotalSize != meta.TotalSize {
		slog.Debug("cache miss", "root", root, "reason", "metadata does not match body")
		return nil, false
	}

	result.RebuildIndices()
	return result, true
}

func (c *Cache) loadMeta(root string) (*Meta, error) {
	data, err := os.ReadFile(c.metaPath(root))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Cache) readBody(root string) (*model.ScanResult, error) {
	f, err := os.Open(c.bodyPath(root))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header [8]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, fmt.Errorf("short cache header: %w", err)
	}
	if [4]byte(header[:4]) != magic {
		return nil, fmt.Errorf("bad cache magic")
	}
	if v := binary.BigEndian.Uint32(header[4:]); v != schemaVersion {
		return nil, fmt.Errorf("cache schema version %d, want %d", v, schemaVersion)
	}

	var b body
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode cache body: %w", err)
	}
	return &model.ScanResult{
		Root:       b.Root,
		RootPath:   b.RootPath,
		TotalSize:  b.TotalSize,
		TotalFiles: b.TotalFiles,
		TotalDirs:  b.TotalDirs,
		Duration:   b.Duration,
		Errors:     b.Errors,
		Timestamp:  b.Timestamp,
	}, nil
}

// Save atomically persists result. Both files are written to .tmp
// siblings and renamed over the targets, body first: if the process dies
// between the renames, the stale or missing metadata invalidates the new
// body on the next load.
func (c *Cache) Save(result *model.ScanResult) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	root := result.RootPath

	meta := Meta{
		OriginalPath:  root,
		ScanTimestamp: result.Timestamp,
		TotalSize:     result.TotalSize,
		FileCount:     result.TotalFiles,
		DirCount:      result.TotalDirs,
	}
	if info, err := os.Stat(root); err == nil {
		meta.RootMTime = info.ModTime()
		meta.RootInode = inodeOf(info)
	}

	if err := c.writeBody(root, result); err != nil {
		return err
	}
	return c.writeMeta(root, &meta)
}

func (c *Cache) writeBody(root string, result *model.ScanResult) error {
	target := c.bodyPath(root)
	tmp := target + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}

	var header [8]byte
	copy(header[:4], magic[:])
	binary.BigEndian.PutUint32(header[4:], schemaVersion)

	if _, err := f.Write(header[:]); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	b := body{
		Root:       result.Root,
		RootPath:   result.RootPath,
		TotalSize:  result.TotalSize,
		TotalFiles: result.TotalFiles,
		TotalDirs:  result.TotalDirs,
		Duration:   result.Duration,
		Errors:     result.Errors,
		Timestamp:  result.Timestamp,
	}
	if err := gob.NewEncoder(f).Encode(&b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode cache body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, target)
}

func (c *Cache) writeMeta(root string, meta *Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	target := c.metaPath(root)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Evict removes entries past the TTL, then trims oldest-first until the
// directory fits the size quota. Runs opportunistically at scan start;
// failures are logged and ignored.
func (c *Cache) Evict() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	type cacheFile struct {
		path string
		mod  time.Time
		size int64
	}

	var files []cacheFile
	var total int64
	now := time.Now()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		isCacheFile := filepath.Ext(name) == ".cache" ||
			filepath.Ext(name) == ".tmp" ||
			filepath.Ext(name) == ".json"
		if !isCacheFile {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(c.dir, name)
		if c.maxAge > 0 && now.Sub(info.ModTime()) > c.maxAge {
			if err := os.Remove(path); err == nil {
				slog.Debug("evicted expired cache entry", "path", path)
			}
			continue
		}
		files = append(files, cacheFile{path: path, mod: info.ModTime(), size: info.Size()})
		total += info.Size()
	}

	if c.maxSize <= 0 || total <= c.maxSize {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })
	for _, f := range files {
		if total <= c.maxSize {
			break
		}
		if err := os.Remove(f.path); err == nil {
			total -= f.size
			slog.Debug("evicted cache entry over quota", "path", f.path)
		}
	}
}

// Clear removes every cache artifact.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		switch filepath.Ext(name) {
		case ".cache", ".json", ".tmp":
			if err := os.Remove(filepath.Join(c.dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}
