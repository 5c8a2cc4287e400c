// Package progress provides the lock-free scan progress tracker shared
// between the scanner goroutines and the UI.
package progress

import (
	"sync/atomic"
	"time"
)

// emitInterval is the minimum spacing between published Progress events.
const emitInterval = 100 * time.Millisecond

// Tracker accumulates scan counters. Counters are monotonic; writers are
// the scanner goroutines, the single reader is the UI. LastPath is purely
// cosmetic — last writer wins and torn reads are acceptable.
type Tracker struct {
	filesScanned atomic.Int64
	dirsScanned  atomic.Int64
	bytesScanned atomic.Int64
	errorCount   atomic.Int64
	lastPath     atomic.Value // string
	lastEmit     atomic.Int64 // unix milliseconds of the last published event
	startTime    time.Time
}

// NewTracker starts a tracker; the scan rate clock begins now.
func NewTracker() *Tracker {
	t := &Tracker{startTime: time.Now()}
	t.lastPath.Store("")
	return t
}

// AddFile records one scanned file and its byte size.
func (t *Tracker) AddFile(size int64) {
	t.filesScanned.Add(1)
	t.bytesScanned.Add(size)
}

// AddDir records one entered directory.
func (t *Tracker) AddDir() {
	t.dirsScanned.Add(1)
}

// AddError records one tolerated per-entry failure.
func (t *Tracker) AddError() {
	t.errorCount.Add(1)
}

// SetPath records the most recently visited path.
func (t *Tracker) SetPath(path string) {
	t.lastPath.Store(path)
}

// ShouldEmit is the throttle gate: it returns true at most once per
// emitInterval, coalescing bursts of progress updates. The CAS keeps
// concurrent scanner goroutines from double-emitting.
func (t *Tracker) ShouldEmit() bool {
	now := time.Now().UnixMilli()
	last := t.lastEmit.Load()
	if now-last < emitInterval.Milliseconds() {
		return false
	}
	return t.lastEmit.CompareAndSwap(last, now)
}

// Elapsed returns time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// FilesPerSecond derives the scan rate at read time.
func (t *Tracker) FilesPerSecond() float64 {
	elapsed := t.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(t.filesScanned.Load()) / elapsed
}

// Snapshot is a point-in-time copy of the counters. Individual loads are
// not mutually consistent, which is fine for display purposes.
type Snapshot struct {
	FilesScanned   int64
	DirsScanned    int64
	BytesScanned   int64
	ErrorCount     int64
	LastPath       string
	Elapsed        time.Duration
	FilesPerSecond float64
}

// Snapshot reads the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		FilesScanned:   t.filesScanned.Load(),
		DirsScanned:    t.dirsScanned.Load(),
		BytesScanned:   t.bytesScanned.Load(),
		ErrorCount:     t.errorCount.Load(),
		LastPath:       t.lastPath.Load().(string),
		Elapsed:        t.Elapsed(),
		FilesPerSecond: t.FilesPerSecond(),
	}
}
