// Package scanner implements the concurrent filesystem walk. Directory
// reads are bounded by a weighted semaphore sized to the storage medium;
// per-entry failures are recorded and never abort the scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/semaphore"

	"github.com/fenilsonani/disklens/internal/config"
	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/internal/progress"
)

// eventBuffer sizes the event channel. The producer self-throttles to one
// progress event per 100ms and the UI drains in a tight loop, so the
// buffer only has to absorb error bursts.
const eventBuffer = 1024

// Scanner walks a directory tree concurrently and assembles the node tree.
type Scanner struct {
	cfg     *config.Config
	sem     *semaphore.Weighted
	tracker *progress.Tracker
	events  chan Event
	visited sync.Map // canonical path -> struct{}

	errMu  sync.Mutex
	errs   []model.ScanError
	ignore []ignorePattern
}

type ignorePattern struct {
	raw  string
	glob bool
}

// New builds a scanner for one scan. A Scanner is single-use: Scan may be
// called once.
func New(cfg *config.Config) *Scanner {
	patterns := make([]ignorePattern, 0, len(cfg.IgnorePatterns))
	for _, p := range cfg.IgnorePatterns {
		patterns = append(patterns, ignorePattern{
			raw:  p,
			glob: strings.ContainsAny(p, "*?[{"),
		})
	}

	return &Scanner{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(cfg.EffectiveConcurrency())),
		tracker: progress.NewTracker(),
		events:  make(chan Event, eventBuffer),
		ignore:  patterns,
	}
}

// Events returns the scanner's event stream. The channel is closed after
// EventComplete, or without one when the scan is cancelled or the root is
// unreadable.
func (s *Scanner) Events() <-chan Event {
	return s.events
}

// Tracker exposes the progress counters for direct polling by the UI tick.
func (s *Scanner) Tracker() *progress.Tracker {
	return s.tracker
}

// Scan walks root and returns the completed result. The only fatal
// filesystem error is an unreadable root; everything below it degrades to
// ScanError entries. Cancelling ctx abandons the scan without publishing
// a result.
func (s *Scanner) Scan(ctx context.Context, root string) (*model.ScanResult, error) {
	defer close(s.events)

	root = filepath.Clean(root)

	// The root must be enumerable; nothing else is fatal.
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("cannot read root %s: %w", root, err)
	}

	s.visited.Store(root, struct{}{})

	start := time.Now()
	rootNode := s.scanDirectory(ctx, root, 0)

	if ctx.Err() != nil {
		slog.Debug("scan cancelled", "root", root)
		return nil, ctx.Err()
	}

	result := model.NewScanResult(rootNode, root, time.Since(start), s.takeErrors(), time.Now())

	slog.Debug("scan complete",
		"root", root,
		"files", result.TotalFiles,
		"dirs", result.TotalDirs,
		"size", result.TotalSize,
		"errors", len(result.Errors),
		"duration", result.Duration)

	s.emit(ctx, EventComplete{Result: result})
	return result, nil
}

// scanDirectory enumerates one directory under a semaphore permit, spawns
// a goroutine per subdirectory, and aggregates the finished children into
// a directory node. It always returns a node; failures inside degrade to
// recorded errors and an empty child list.
func (s *Scanner) scanDirectory(ctx context.Context, path string, depth int) *model.Node {
	s.tracker.AddDir()
	s.tracker.SetPath(path)

	name := filepath.Base(path)

	// Depth cut-off: deliberate truncation, not an error. Contents are
	// unobserved, so the node contributes no size.
	if !s.cfg.Unlimited() && depth >= s.cfg.MaxDepth {
		return model.NewDirectory(path, name, nil)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return model.NewDirectory(path, name, nil)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		s.sem.Release(1)
		s.recordError(ctx, path, err)
		return model.NewDirectory(path, name, nil)
	}

	// Fetch metadata for every entry while the permit is still held: the
	// permit bounds concurrent directory opens plus their stat burst, not
	// the total task count.
	type entryData struct {
		path string
		name string
		info fs.FileInfo
	}
	batch := make([]entryData, 0, len(entries))
	for _, entry := range entries {
		entryPath := filepath.Join(path, entry.Name())
		info, err := entry.Info()
		if err != nil {
			s.recordError(ctx, entryPath, err)
			continue
		}
		batch = append(batch, entryData{path: entryPath, name: entry.Name(), info: info})
	}

	// Permit released before awaiting children, so deep trees cannot
	// deadlock the semaphore.
	s.sem.Release(1)

	var children []*model.Node
	var childMu sync.Mutex
	var wg sync.WaitGroup

	addChild := func(n *model.Node) {
		childMu.Lock()
		children = append(children, n)
		childMu.Unlock()
	}

	spawn := func(dirPath string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addChild(s.scanDirectory(ctx, dirPath, depth+1))
		}()
	}

	for _, entry := range batch {
		if ctx.Err() != nil {
			break
		}
		if s.matchesIgnore(entry.path, entry.name) {
			continue
		}

		mode := entry.info.Mode()
		switch {
		case mode&fs.ModeSymlink != 0:
			s.handleSymlink(ctx, entry.path, entry.name, entry.info, spawn, addChild)

		case mode.IsDir():
			if _, seen := s.visited.LoadOrStore(entry.path, struct{}{}); seen {
				continue
			}
			spawn(entry.path)

		case mode.IsRegular():
			st := statOf(entry.info)
			node := model.NewFile(entry.path, entry.name, entry.info.Size(), st.sizeOnDisk, entry.info.ModTime(), st.inode)
			addChild(node)
			s.tracker.AddFile(entry.info.Size())
			s.maybeEmitProgress(ctx)

		default:
			addChild(&model.Node{
				Path:    entry.path,
				Name:    entry.name,
				Kind:    model.KindOther,
				ModTime: entry.info.ModTime(),
				Inode:   statOf(entry.info).inode,
			})
		}
	}

	wg.Wait()

	node := model.NewDirectory(path, name, children)
	s.maybeEmitProgress(ctx)
	return node
}

// handleSymlink records a zero-size leaf when traversal is off, otherwise
// resolves the target, defeats cycles through the visited set, and scans
// the target like any other entry.
func (s *Scanner) handleSymlink(ctx context.Context, path, name string, info fs.FileInfo, spawn func(string), addChild func(*model.Node)) {
	if !s.cfg.FollowSymlinks {
		addChild(&model.Node{
			Path:    path,
			Name:    name,
			Kind:    model.KindSymlink,
			ModTime: info.ModTime(),
			Inode:   statOf(info).inode,
		})
		return
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		s.recordError(ctx, path, err)
		return
	}

	if _, seen := s.visited.LoadOrStore(target, struct{}{}); seen {
		cycleErr := model.ScanError{
			Path:    path,
			Kind:    model.ErrSymlinkCycle,
			Message: fmt.Sprintf("symlink cycle detected: %s -> %s", path, target),
		}
		s.addError(cycleErr)
		s.emit(ctx, EventError{Err: cycleErr})
		return
	}

	targetInfo, err := os.Stat(target)
	if err != nil {
		s.recordError(ctx, path, err)
		return
	}

	if targetInfo.IsDir() {
		spawn(target)
		return
	}

	st := statOf(targetInfo)
	addChild(model.NewFile(path, name, targetInfo.Size(), st.sizeOnDisk, targetInfo.ModTime(), st.inode))
	s.tracker.AddFile(targetInfo.Size())
	s.maybeEmitProgress(ctx)
}

// matchesIgnore checks a path against the configured skip patterns.
// Patterns carrying glob metacharacters match the base name or the whole
// path as doublestar globs; plain patterns match as substrings.
func (s *Scanner) matchesIgnore(path, name string) bool {
	for _, p := range s.ignore {
		if p.glob {
			if ok, _ := doublestar.Match(p.raw, name); ok {
				return true
			}
			if ok, _ := doublestar.Match(p.raw, path); ok {
				return true
			}
			continue
		}
		if strings.Contains(path, p.raw) {
			return true
		}
	}
	return false
}

// recordError classifies err, stores it, and publishes it on the bus.
func (s *Scanner) recordError(ctx context.Context, path string, err error) {
	kind := model.ErrIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = model.ErrPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		kind = model.ErrNotFound
	}

	scanErr := model.ScanError{Path: path, Kind: kind, Message: err.Error()}
	s.addError(scanErr)
	s.emit(ctx, EventError{Err: scanErr})
}

func (s *Scanner) addError(e model.ScanError) {
	s.errMu.Lock()
	s.errs = append(s.errs, e)
	s.errMu.Unlock()
	s.tracker.AddError()
}

func (s *Scanner) takeErrors() []model.ScanError {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return append([]model.ScanError(nil), s.errs...)
}

// maybeEmitProgress publishes a Progress event when the throttle gate
// opens. Counters record eagerly; only emission is throttled.
func (s *Scanner) maybeEmitProgress(ctx context.Context) {
	if !s.tracker.ShouldEmit() {
		return
	}
	snap := s.tracker.Snapshot()
	s.emit(ctx, EventProgress{
		Files:       snap.FilesScanned,
		Dirs:        snap.DirsScanned,
		Bytes:       snap.BytesScanned,
		Errors:      snap.ErrorCount,
		CurrentPath: snap.LastPath,
		Rate:        snap.FilesPerSecond,
	})
}

// emit delivers ev unless the scan has been cancelled. A cancelled
// context is the receiver-gone signal: the send is abandoned and the
// caller's ctx checks wind the scan down.
func (s *Scanner) emit(ctx context.Context, ev Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}
