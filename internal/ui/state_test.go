package ui

import (
	"reflect"
	"testing"
	"time"

	"github.com/fenilsonani/disklens/internal/model"
)

// resultWithChildren builds a one-level result whose root has the given
// children.
func resultWithChildren(children ...*model.Node) *model.ScanResult {
	root := model.NewDirectory("/r", "r", children)
	return model.NewScanResult(root, "/r", time.Second, nil, time.Now())
}

func file(name string, size int64, mod time.Time) *model.Node {
	return model.NewFile("/r/"+name, name, size, size, mod, 0)
}

func dir(name string, children ...*model.Node) *model.Node {
	return model.NewDirectory("/r/"+name, name, children)
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func newNormalState(result *model.ScanResult) *State {
	s := NewState("/r", 0.01)
	s.SetResult(result)
	return s
}

func TestSortCycle(t *testing.T) {
	base := time.Unix(1700000000, 0)
	s := newNormalState(resultWithChildren(
		file("x", 10, base.Add(3*time.Hour)),
		file("y", 30, base.Add(1*time.Hour)),
		file("z", 20, base.Add(2*time.Hour)),
	))

	if got := names(s.VisibleEntries()); !reflect.DeepEqual(got, []string{"y", "z", "x"}) {
		t.Errorf("size desc order = %v, want [y z x]", got)
	}

	s.CycleSort()
	if got := names(s.VisibleEntries()); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("name asc order = %v, want [x y z]", got)
	}

	s.CycleSort()
	if got := names(s.VisibleEntries()); !reflect.DeepEqual(got, []string{"x", "z", "y"}) {
		t.Errorf("modified desc order = %v, want [x z y]", got)
	}

	// Cycling back restores the original visible order.
	s.CycleSort()
	if s.SortMode != SortSizeDesc {
		t.Errorf("sort mode = %v, want size desc after full cycle", s.SortMode)
	}
	if got := names(s.VisibleEntries()); !reflect.DeepEqual(got, []string{"y", "z", "x"}) {
		t.Errorf("order after full cycle = %v, want [y z x]", got)
	}
}

func TestOthersMerging(t *testing.T) {
	// tiny1+tiny2 are each under 1% of the 10000 total.
	s := newNormalState(resultWithChildren(
		file("big", 9900, time.Time{}),
		file("tiny1", 50, time.Time{}),
		file("tiny2", 50, time.Time{}),
	))

	entries := s.VisibleEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (big + Others)", len(entries))
	}

	others := entries[1]
	if !others.IsOthers {
		t.Fatal("trailing entry is not the Others row")
	}
	if others.Size != 100 {
		t.Errorf("Others size = %d, want 100", others.Size)
	}
	if others.MergedCount != 2 {
		t.Errorf("Others merged count = %d, want 2", others.MergedCount)
	}

	// The tree itself is untouched.
	if len(s.Result.Root.Children) != 3 {
		t.Errorf("tree mutated: %d children", len(s.Result.Root.Children))
	}
}

func TestOthersNotNavigable(t *testing.T) {
	s := newNormalState(resultWithChildren(
		dir("big", file("inner", 9900, time.Time{})),
		file("tiny", 10, time.Time{}),
	))

	entries := s.VisibleEntries()
	if !entries[len(entries)-1].IsOthers {
		t.Fatal("expected a trailing Others entry")
	}

	s.SelectedIndex = len(entries) - 1
	before := s.CurrentPath
	s.EnterSelected()
	if s.CurrentPath != before {
		t.Error("Enter on Others changed the current path")
	}
}

func TestThresholdCycle(t *testing.T) {
	s := NewState("/r", 0.01)

	want := []float64{0.02, 0.05, 0.005, 0.01}
	for _, w := range want {
		s.CycleThreshold()
		if s.Threshold != w {
			t.Fatalf("threshold = %v, want %v", s.Threshold, w)
		}
	}
}

func TestNavigationStack(t *testing.T) {
	inner := file("inner.txt", 100, time.Time{})
	s := newNormalState(resultWithChildren(dir("sub", inner)))

	s.EnterSelected()
	if s.CurrentPath != "/r/sub" {
		t.Fatalf("current path = %q, want /r/sub", s.CurrentPath)
	}
	if s.SelectedIndex != 0 {
		t.Errorf("selection not reset on enter")
	}

	s.GoBack()
	if s.CurrentPath != "/r" {
		t.Errorf("current path = %q after back, want /r", s.CurrentPath)
	}

	// Back at the root the stack is empty; going back again is a no-op.
	s.GoBack()
	if s.CurrentPath != "/r" {
		t.Errorf("back on empty stack moved to %q", s.CurrentPath)
	}
}

func TestEnterOnFileIsNoOp(t *testing.T) {
	s := newNormalState(resultWithChildren(file("a.txt", 100, time.Time{})))

	s.EnterSelected()
	if s.CurrentPath != "/r" {
		t.Errorf("entering a file moved to %q", s.CurrentPath)
	}
}

func TestSelectionClamping(t *testing.T) {
	s := newNormalState(resultWithChildren(
		file("a", 300, time.Time{}),
		file("b", 200, time.Time{}),
		file("c", 100, time.Time{}),
	))

	s.MoveUp()
	if s.SelectedIndex != 0 {
		t.Errorf("moved above the first row: %d", s.SelectedIndex)
	}

	for i := 0; i < 10; i++ {
		s.MoveDown()
	}
	if s.SelectedIndex != 2 {
		t.Errorf("selection = %d, want clamped at 2", s.SelectedIndex)
	}
}

func TestGoToFirstLast(t *testing.T) {
	s := newNormalState(resultWithChildren(
		file("a", 300, time.Time{}),
		file("b", 200, time.Time{}),
		file("c", 100, time.Time{}),
	))

	s.GoToLast()
	if s.SelectedIndex != 2 {
		t.Errorf("GoToLast selected %d, want 2", s.SelectedIndex)
	}
	s.GoToFirst()
	if s.SelectedIndex != 0 {
		t.Errorf("GoToFirst selected %d, want 0", s.SelectedIndex)
	}
}

func TestSetResultResetsState(t *testing.T) {
	s := NewState("/r", 0.01)
	if s.ViewMode != ModeScanning {
		t.Fatal("new state should start scanning")
	}

	result := resultWithChildren(file("a", 100, time.Time{}))
	result.Errors = append(result.Errors, model.ScanError{Path: "/x", Kind: model.ErrIO})
	s.SetResult(result)

	if s.ViewMode != ModeNormal {
		t.Errorf("view mode = %v, want normal", s.ViewMode)
	}
	if s.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", s.ErrorCount)
	}
	if s.CurrentPath != "/r" {
		t.Errorf("current path = %q, want scan root", s.CurrentPath)
	}
}

func TestErrorFilterCycle(t *testing.T) {
	result := resultWithChildren(file("a", 100, time.Time{}))
	result.Errors = []model.ScanError{
		{Path: "/p1", Kind: model.ErrPermissionDenied},
		{Path: "/p2", Kind: model.ErrPermissionDenied},
		{Path: "/io", Kind: model.ErrIO},
	}
	s := newNormalState(result)
	s.ErrorCount = len(result.Errors)

	if got := len(s.FilteredErrors()); got != 3 {
		t.Fatalf("unfiltered count = %d, want 3", got)
	}

	s.CycleErrorFilter() // permission denied
	if got := len(s.FilteredErrors()); got != 2 {
		t.Errorf("permission filter count = %d, want 2", got)
	}

	// Cycle through the remaining kinds back to all.
	for i := 0; i < 5; i++ {
		s.CycleErrorFilter()
	}
	if s.ErrFilter != nil {
		t.Error("filter did not return to all after a full cycle")
	}
}

func TestToastExpiry(t *testing.T) {
	s := NewState("/r", 0.01)
	s.RecordError(model.ScanError{Path: "/x", Kind: model.ErrIO})

	now := time.Now()
	if s.ToastError(now) == nil {
		t.Error("toast should be visible immediately after the error")
	}
	if s.ToastError(now.Add(4*time.Second)) != nil {
		t.Error("toast should expire after ~3 seconds")
	}
}

func TestPendingGSequence(t *testing.T) {
	s := newNormalState(resultWithChildren(
		file("a", 300, time.Time{}),
		file("b", 200, time.Time{}),
		file("c", 100, time.Time{}),
	))
	s.GoToLast()

	// Simulate the state transitions behind the gg chord.
	s.PendingG = true
	s.PendingG = false
	s.GoToFirst()
	if s.SelectedIndex != 0 {
		t.Errorf("gg did not jump to first: %d", s.SelectedIndex)
	}
}

func TestBreadcrumb(t *testing.T) {
	inner := file("inner.txt", 1, time.Time{})
	s := newNormalState(resultWithChildren(dir("sub", inner)))

	if got := s.Breadcrumb(); got != "/r" {
		t.Errorf("root breadcrumb = %q, want /r", got)
	}

	s.EnterSelected()
	if got := s.Breadcrumb(); got != "/r › sub" {
		t.Errorf("breadcrumb = %q, want \"/r › sub\"", got)
	}
}
