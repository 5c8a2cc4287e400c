package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey dispatches a key press through the input map of the active
// view mode.
func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C quits from every mode.
	if key.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.state.ViewMode {
	case ModeScanning:
		return m.handleScanningKey(key)
	case ModeNormal:
		return m.handleNormalKey(key)
	case ModeHelp:
		return m.handleHelpKey(key)
	case ModeErrorList:
		return m.handleErrorListKey(key)
	case ModeExportMenu:
		return m.handleExportMenuKey(key)
	}
	return m, nil
}

func (m *Model) handleScanningKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "q" {
		return m, m.quit()
	}
	return m, nil
}

func (m *Model) handleNormalKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	k := key.String()

	// The gg sequence: a pending g consumes the next key. A second g
	// jumps to the first row; anything else clears the flag and is
	// dispatched normally.
	if s.PendingG {
		s.PendingG = false
		if k == "g" {
			s.GoToFirst()
			return m, nil
		}
	}

	switch k {
	case "q":
		return m, m.quit()
	case "j", "down":
		s.MoveDown()
	case "k", "up":
		s.MoveUp()
	case "g":
		s.PendingG = true
	case "G":
		s.GoToLast()
	case "enter", "l":
		if s.Focus == FocusList {
			s.EnterSelected()
		}
	case "backspace", "h":
		s.GoBack()
	case "tab", "left", "right":
		s.ToggleFocus()
	case "s":
		s.CycleSort()
	case "t":
		s.CycleThreshold()
	case "e":
		s.ViewMode = ModeErrorList
		s.ErrSelected = 0
	case "?":
		s.ViewMode = ModeHelp
	case "x":
		s.ViewMode = ModeExportMenu
	case "r":
		return m, m.rescan()
	case "y":
		entries := s.VisibleEntries()
		if s.SelectedIndex < len(entries) && !entries[s.SelectedIndex].IsOthers {
			return m, copyToClipboard(entries[s.SelectedIndex].Path)
		}
	}
	return m, nil
}

func (m *Model) handleHelpKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "?", "esc":
		m.state.ViewMode = ModeNormal
	}
	return m, nil
}

func (m *Model) handleErrorListKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	switch key.String() {
	case "e", "esc":
		s.ViewMode = ModeNormal
	case "j", "down":
		if errs := s.FilteredErrors(); s.ErrSelected < len(errs)-1 {
			s.ErrSelected++
		}
	case "k", "up":
		if s.ErrSelected > 0 {
			s.ErrSelected--
		}
	case "f":
		s.CycleErrorFilter()
	case "y":
		if errs := s.FilteredErrors(); s.ErrSelected < len(errs) {
			return m, copyToClipboard(errs[s.ErrSelected].Path)
		}
	}
	return m, nil
}

func (m *Model) handleExportMenuKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	switch key.String() {
	case "esc":
		s.ViewMode = ModeNormal
		m.status = ""
	case "j", "1":
		return m, m.exportReport("json")
	case "m", "2":
		return m, m.exportReport("markdown")
	case "h", "3":
		return m, m.exportReport("html")
	}
	return m, nil
}
