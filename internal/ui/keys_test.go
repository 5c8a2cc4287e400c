package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/disklens/internal/config"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := New("/r", config.Default(), nil)
	m.state.SetResult(resultWithChildren(
		file("a", 300, time.Time{}),
		file("b", 200, time.Time{}),
		file("c", 100, time.Time{}),
	))
	return m
}

func TestKeyNavigation(t *testing.T) {
	m := newTestModel(t)

	m.handleKey(keyRune('j'))
	m.handleKey(keyRune('j'))
	if m.state.SelectedIndex != 2 {
		t.Errorf("after jj selection = %d, want 2", m.state.SelectedIndex)
	}

	m.handleKey(keyRune('k'))
	if m.state.SelectedIndex != 1 {
		t.Errorf("after k selection = %d, want 1", m.state.SelectedIndex)
	}
}

func TestKeyGGSequence(t *testing.T) {
	m := newTestModel(t)
	m.state.GoToLast()

	m.handleKey(keyRune('g'))
	if !m.state.PendingG {
		t.Fatal("first g should set the pending flag")
	}
	m.handleKey(keyRune('g'))
	if m.state.PendingG {
		t.Error("second g should clear the pending flag")
	}
	if m.state.SelectedIndex != 0 {
		t.Errorf("gg selection = %d, want 0", m.state.SelectedIndex)
	}
}

func TestKeyGThenOtherClearsPending(t *testing.T) {
	m := newTestModel(t)
	m.state.GoToLast()

	m.handleKey(keyRune('g'))
	m.handleKey(keyRune('j'))
	if m.state.PendingG {
		t.Error("non-g key should clear the pending flag")
	}
	// The j still dispatches after clearing, but the selection was
	// already at the bottom, so it stays clamped.
	if m.state.SelectedIndex != 2 {
		t.Errorf("selection = %d, want clamped 2", m.state.SelectedIndex)
	}
}

func TestKeyViewModeTransitions(t *testing.T) {
	m := newTestModel(t)

	m.handleKey(keyRune('?'))
	if m.state.ViewMode != ModeHelp {
		t.Fatalf("? did not open help: %v", m.state.ViewMode)
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.ViewMode != ModeNormal {
		t.Fatalf("esc did not close help: %v", m.state.ViewMode)
	}

	m.handleKey(keyRune('e'))
	if m.state.ViewMode != ModeErrorList {
		t.Fatalf("e did not open error list: %v", m.state.ViewMode)
	}
	m.handleKey(keyRune('e'))
	if m.state.ViewMode != ModeNormal {
		t.Fatalf("e did not close error list: %v", m.state.ViewMode)
	}

	m.handleKey(keyRune('x'))
	if m.state.ViewMode != ModeExportMenu {
		t.Fatalf("x did not open export menu: %v", m.state.ViewMode)
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.ViewMode != ModeNormal {
		t.Fatalf("esc did not close export menu: %v", m.state.ViewMode)
	}
}

func TestKeySortAndThreshold(t *testing.T) {
	m := newTestModel(t)

	m.handleKey(keyRune('s'))
	if m.state.SortMode != SortNameAsc {
		t.Errorf("s did not cycle sort: %v", m.state.SortMode)
	}

	before := m.state.Threshold
	m.handleKey(keyRune('t'))
	if m.state.Threshold == before {
		t.Error("t did not cycle the threshold")
	}
}

func TestKeyQuitFromNormal(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.handleKey(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("q produced %v, want tea.Quit", msg)
	}
}
