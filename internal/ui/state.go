// Package ui implements the interactive terminal interface: the view
// state machine, input mapping, and rendering.
package ui

import (
	"sort"
	"strings"
	"time"

	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/internal/progress"
)

// ViewMode selects which screen (and input map) is active.
type ViewMode int

const (
	ModeScanning ViewMode = iota
	ModeNormal
	ModeHelp
	ModeErrorList
	ModeExportMenu
)

// Focus selects the active main-pane panel.
type Focus int

const (
	FocusList Focus = iota
	FocusRing
)

// SortMode orders the visible child list.
type SortMode int

const (
	SortSizeDesc SortMode = iota
	SortNameAsc
	SortModifiedDesc
)

func (m SortMode) String() string {
	switch m {
	case SortSizeDesc:
		return "size"
	case SortNameAsc:
		return "name"
	default:
		return "modified"
	}
}

// thresholds is the cycle of merge-threshold settings.
var thresholds = []float64{0.005, 0.01, 0.02, 0.05}

// othersName labels the synthetic entry absorbing sub-threshold siblings.
const othersName = "Others"

// Entry is one row of the visible child list. The synthetic "Others" row
// has a nil Node and is non-navigable.
type Entry struct {
	Name        string
	Path        string
	Kind        model.Kind
	Size        int64
	Percent     float64
	Node        *model.Node
	IsOthers    bool
	MergedCount int
}

// toastDuration is how long the most recent error stays in the status bar.
const toastDuration = 3 * time.Second

// State is the single-goroutine-owned UI state. The bubbletea update loop
// is its only writer; the scan result it holds is read-only shared data.
type State struct {
	Result        *model.ScanResult
	CurrentPath   string
	PathStack     []string
	SelectedIndex int
	ListOffset    int
	SortMode      SortMode
	Threshold     float64
	Focus         Focus
	ViewMode      ViewMode
	PendingG      bool
	ErrorCount    int
	Progress      progress.Snapshot

	// Error list modal state.
	ErrSelected int
	ErrFilter   *model.ErrorKind // nil shows every kind

	// Transient error toast.
	LastError   *model.ScanError
	LastErrorAt time.Time
}

// NewState starts in Scanning mode rooted at rootPath.
func NewState(rootPath string, threshold float64) *State {
	if threshold == 0 {
		threshold = 0.01
	}
	return &State{
		CurrentPath: rootPath,
		SortMode:    SortSizeDesc,
		Threshold:   threshold,
		Focus:       FocusList,
		ViewMode:    ModeScanning,
	}
}

// SetResult installs a completed scan, replacing any result the state
// held, and switches to Normal mode. A rescan starts from a fresh State
// (Model.rescan), so the previous result is dropped when the rescan
// begins, not kept until this call.
func (s *State) SetResult(result *model.ScanResult) {
	s.Result = result
	s.CurrentPath = result.RootPath
	s.PathStack = s.PathStack[:0]
	s.SelectedIndex = 0
	s.ListOffset = 0
	s.ErrorCount = len(result.Errors)
	s.ViewMode = ModeNormal
}

// CurrentNode resolves CurrentPath in the result tree.
func (s *State) CurrentNode() *model.Node {
	if s.Result == nil {
		return nil
	}
	if s.Result.PathIndex != nil {
		if n := s.Result.PathIndex.Lookup(s.CurrentPath); n != nil {
			return n
		}
	}
	return s.Result.Root.Find(s.CurrentPath)
}

// VisibleEntries returns the current directory's children ordered by the
// sort mode, with siblings below the merge threshold folded into a
// trailing "Others" entry. The tree itself is never modified.
func (s *State) VisibleEntries() []Entry {
	node := s.CurrentNode()
	if node == nil {
		return nil
	}

	children := append([]*model.Node(nil), node.Children...)
	s.sortChildren(children)

	total := node.Size
	entries := make([]Entry, 0, len(children))
	var mergedSize int64
	var mergedCount int

	for _, c := range children {
		frac := 0.0
		if total > 0 {
			frac = float64(c.Size) / float64(total)
		}
		if total > 0 && frac < s.Threshold {
			mergedSize += c.Size
			mergedCount++
			continue
		}
		entries = append(entries, Entry{
			Name:    c.Name,
			Path:    c.Path,
			Kind:    c.Kind,
			Size:    c.Size,
			Percent: c.Percentage(total),
			Node:    c,
		})
	}

	if mergedCount > 0 {
		var pct float64
		if total > 0 {
			pct = float64(mergedSize) / float64(total) * 100
		}
		entries = append(entries, Entry{
			Name:        othersName,
			Size:        mergedSize,
			Percent:     pct,
			IsOthers:    true,
			MergedCount: mergedCount,
		})
	}

	return entries
}

func (s *State) sortChildren(children []*model.Node) {
	switch s.SortMode {
	case SortSizeDesc:
		sort.Slice(children, func(i, j int) bool {
			if children[i].Size != children[j].Size {
				return children[i].Size > children[j].Size
			}
			return children[i].Name < children[j].Name
		})
	case SortNameAsc:
		sort.Slice(children, func(i, j int) bool {
			return strings.ToLower(children[i].Name) < strings.ToLower(children[j].Name)
		})
	case SortModifiedDesc:
		sort.Slice(children, func(i, j int) bool {
			if !children[i].ModTime.Equal(children[j].ModTime) {
				return children[i].ModTime.After(children[j].ModTime)
			}
			return children[i].Name < children[j].Name
		})
	}
}

// MoveUp moves the selection up, clamped at the first row.
func (s *State) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
		if s.SelectedIndex < s.ListOffset {
			s.ListOffset = s.SelectedIndex
		}
	}
}

// MoveDown moves the selection down, clamped at the last row.
func (s *State) MoveDown() {
	if count := len(s.VisibleEntries()); count > 0 && s.SelectedIndex < count-1 {
		s.SelectedIndex++
	}
}

// GoToFirst jumps to the first row (the gg motion).
func (s *State) GoToFirst() {
	s.SelectedIndex = 0
	s.ListOffset = 0
}

// GoToLast jumps to the last row.
func (s *State) GoToLast() {
	if count := len(s.VisibleEntries()); count > 0 {
		s.SelectedIndex = count - 1
	}
}

// EnterSelected drills into the selected directory. Files and the
// synthetic Others row are no-ops.
func (s *State) EnterSelected() {
	entries := s.VisibleEntries()
	if s.SelectedIndex >= len(entries) {
		return
	}
	entry := entries[s.SelectedIndex]
	if entry.IsOthers || entry.Node == nil || !entry.Node.IsDir() {
		return
	}
	s.PathStack = append(s.PathStack, s.CurrentPath)
	s.CurrentPath = entry.Path
	s.SelectedIndex = 0
	s.ListOffset = 0
}

// GoBack pops the navigation stack.
func (s *State) GoBack() {
	if len(s.PathStack) == 0 {
		return
	}
	s.CurrentPath = s.PathStack[len(s.PathStack)-1]
	s.PathStack = s.PathStack[:len(s.PathStack)-1]
	s.SelectedIndex = 0
	s.ListOffset = 0
}

// CycleSort advances size → name → modified → size.
func (s *State) CycleSort() {
	s.SortMode = (s.SortMode + 1) % 3
	s.SelectedIndex = 0
	s.ListOffset = 0
}

// CycleThreshold advances through the merge-threshold settings.
func (s *State) CycleThreshold() {
	for i, t := range thresholds {
		if s.Threshold == t {
			s.Threshold = thresholds[(i+1)%len(thresholds)]
			return
		}
	}
	s.Threshold = thresholds[0]
}

// ToggleFocus switches between the file list and the ring chart.
func (s *State) ToggleFocus() {
	if s.Focus == FocusList {
		s.Focus = FocusRing
	} else {
		s.Focus = FocusList
	}
}

// RecordError updates the toast and counter from a streamed scan error.
func (s *State) RecordError(e model.ScanError) {
	s.LastError = &e
	s.LastErrorAt = time.Now()
	if s.Result == nil {
		// During the scan the counter tracks the stream; after
		// completion it is pinned to len(Result.Errors).
		s.ErrorCount++
	}
}

// ToastError returns the recent error while the toast window is open.
func (s *State) ToastError(now time.Time) *model.ScanError {
	if s.LastError == nil || now.Sub(s.LastErrorAt) > toastDuration {
		return nil
	}
	return s.LastError
}

// FilteredErrors returns the scan errors visible in the error-list modal
// under the active kind filter.
func (s *State) FilteredErrors() []model.ScanError {
	if s.Result == nil {
		return nil
	}
	if s.ErrFilter == nil {
		return s.Result.Errors
	}
	var out []model.ScanError
	for _, e := range s.Result.Errors {
		if e.Kind == *s.ErrFilter {
			out = append(out, e)
		}
	}
	return out
}

// CycleErrorFilter advances all → permission → not-found → cycle → io →
// other → all.
func (s *State) CycleErrorFilter() {
	order := []model.ErrorKind{
		model.ErrPermissionDenied,
		model.ErrNotFound,
		model.ErrSymlinkCycle,
		model.ErrIO,
		model.ErrOther,
	}
	s.ErrSelected = 0
	if s.ErrFilter == nil {
		s.ErrFilter = &order[0]
		return
	}
	for i, k := range order {
		if *s.ErrFilter == k {
			if i == len(order)-1 {
				s.ErrFilter = nil
			} else {
				s.ErrFilter = &order[i+1]
			}
			return
		}
	}
	s.ErrFilter = nil
}

// Breadcrumb renders the current location relative to the scan root.
func (s *State) Breadcrumb() string {
	if s.Result == nil {
		return s.CurrentPath
	}
	root := s.Result.RootPath
	if s.CurrentPath == root {
		return root
	}
	rel := strings.TrimPrefix(s.CurrentPath, root)
	return root + " › " + strings.Join(splitPath(rel), " › ")
}

func splitPath(rel string) []string {
	parts := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' })
	return parts
}
