package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/internal/ui/styles"
	"github.com/fenilsonani/disklens/pkg/humanize"
)

const helpText = `Navigation
  j / ↓        move down
  k / ↑        move up
  gg           jump to first entry
  G            jump to last entry
  enter / l    open selected directory
  backspace / h  go back
  tab / ← / →  switch panel focus

Display
  s            cycle sort (size / name / modified)
  t            cycle merge threshold (0.5% 1% 2% 5%)

Tools
  e            error list
  x            export menu
  r            rescan (bypasses cache)
  y            copy selected path to clipboard

Other
  ?            toggle this help
  q / ctrl+c   quit`

// View renders the whole screen as a pure function of the model state.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	switch m.state.ViewMode {
	case ModeScanning:
		return m.viewScanning()
	case ModeHelp:
		return m.overlay(m.viewHelp())
	case ModeErrorList:
		return m.overlay(m.viewErrorList())
	case ModeExportMenu:
		return m.overlay(m.viewExportMenu())
	default:
		return m.viewNormal()
	}
}

func (m *Model) viewScanning() string {
	p := m.state.Progress

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(" DiskLens "))
	b.WriteString(styles.DimStyle.Render("scanning " + m.root))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	fmt.Fprintf(&b, " %s files · %s dirs · %s\n",
		styles.BoldStyle.Render(fmt.Sprintf("%d", p.FilesScanned)),
		styles.BoldStyle.Render(fmt.Sprintf("%d", p.DirsScanned)),
		styles.FileSizeStyle.Render(humanize.Bytes(p.BytesScanned)))
	fmt.Fprintf(&b, "  %.0f files/s", p.FilesPerSecond)
	if p.ErrorCount > 0 {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("  %d errors", p.ErrorCount)))
	}
	b.WriteString("\n\n")

	if p.LastPath != "" {
		b.WriteString(styles.DimStyle.Render(truncatePath(p.LastPath, m.width-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("q: cancel and quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *Model) viewNormal() string {
	breadcrumb := m.viewBreadcrumb()
	statusBar := m.viewStatusBar()
	hintBar := m.viewHintBar()

	mainHeight := m.height - lipgloss.Height(breadcrumb) - 2
	if mainHeight < 4 {
		mainHeight = 4
	}

	entries := m.state.VisibleEntries()

	listWidth := m.width * 3 / 5
	ringWidth := m.width - listWidth

	ring := m.viewRingPanel(entries, ringWidth, mainHeight)
	list := m.viewListPanel(entries, listWidth, mainHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, ring, list)

	return lipgloss.JoinVertical(lipgloss.Left, breadcrumb, main, statusBar, hintBar)
}

func (m *Model) viewBreadcrumb() string {
	title := styles.TitleStyle.Render(" DiskLens ")
	crumb := styles.SubtitleStyle.Render(truncatePath(m.state.Breadcrumb(), m.width-14))
	return title + " " + crumb
}

func (m *Model) viewRingPanel(entries []Entry, width, height int) string {
	style := styles.PanelStyle
	if m.state.Focus == FocusRing {
		style = styles.FocusedPanelStyle
	}

	node := m.state.CurrentNode()
	var total int64
	if node != nil {
		total = node.Size
	}

	inner := renderRing(entries, m.state.SelectedIndex, total, width-4, height-2)
	return style.Width(width - 2).Height(height).Render(inner)
}

func (m *Model) viewListPanel(entries []Entry, width, height int) string {
	style := styles.PanelStyle
	if m.state.Focus == FocusList {
		style = styles.FocusedPanelStyle
	}

	visible := height - 1
	if visible < 1 {
		visible = 1
	}

	// Keep the selection inside the window.
	offset := m.state.ListOffset
	if m.state.SelectedIndex >= offset+visible {
		offset = m.state.SelectedIndex - visible + 1
	}
	if m.state.SelectedIndex < offset {
		offset = m.state.SelectedIndex
	}
	m.state.ListOffset = offset

	nameWidth := width - 30
	if nameWidth < 8 {
		nameWidth = 8
	}

	var rows []string
	for i := offset; i < len(entries) && i < offset+visible; i++ {
		e := entries[i]
		marker := "  "
		if i == m.state.SelectedIndex {
			marker = "> "
		}

		sector := sectorDot(i)
		name := truncatePath(e.Name, nameWidth)
		if e.Kind == model.KindDirectory {
			name = styles.DirStyle.Render(name + "/")
		} else if e.IsOthers {
			name = styles.DimStyle.Render(fmt.Sprintf("%s (%d items)", e.Name, e.MergedCount))
		}

		row := fmt.Sprintf("%s%s %-*s %10s %6.1f%% %s",
			marker, sector, nameWidth, name, humanize.Bytes(e.Size), e.Percent,
			styles.PercentBar(e.Percent, 8))
		if i == m.state.SelectedIndex {
			row = styles.SelectedStyle.Render(row)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		rows = append(rows, styles.DimStyle.Render("  (empty directory)"))
	}

	sortLine := styles.DimStyle.Render(fmt.Sprintf("sort: %s · threshold: %.1f%%",
		m.state.SortMode, m.state.Threshold*100))
	content := sortLine + "\n" + strings.Join(rows, "\n")

	return style.Width(width - 2).Height(height).Render(content)
}

func (m *Model) viewStatusBar() string {
	s := m.state
	var parts []string

	if s.Result != nil {
		parts = append(parts,
			fmt.Sprintf("%d files", s.Result.TotalFiles),
			fmt.Sprintf("%d dirs", s.Result.TotalDirs),
			humanize.Bytes(s.Result.TotalSize),
			fmt.Sprintf("scanned in %s", humanize.Duration(s.Result.Duration)),
		)
	}
	if s.ErrorCount > 0 {
		parts = append(parts, styles.ErrorStyle.Render(fmt.Sprintf("%d errors", s.ErrorCount)))
	}

	line := strings.Join(parts, " · ")

	if toast := s.ToastError(time.Now()); toast != nil {
		line += "  " + styles.ErrorStyle.Render(fmt.Sprintf("[%s: %s]", toast.Kind, truncatePath(toast.Path, 40)))
	}
	if m.status != "" {
		line += "  " + styles.SuccessStyle.Render(m.status)
	}

	return styles.StatusBarStyle.Width(m.width).Render(line)
}

func (m *Model) viewHintBar() string {
	return styles.HelpStyle.Render(" j/k: move  enter: open  h: back  s: sort  t: threshold  e: errors  x: export  ?: help  q: quit")
}

func (m *Model) viewHelp() string {
	title := styles.TitleStyle.Render("Help")
	return title + "\n\n" + helpText + "\n\n" +
		styles.HelpStyle.Render("?/esc: close")
}

func (m *Model) viewErrorList() string {
	s := m.state
	errs := s.FilteredErrors()

	filter := "all"
	if s.ErrFilter != nil {
		filter = s.ErrFilter.String()
	}

	title := styles.TitleStyle.Render(fmt.Sprintf("Scan Errors (%d)", len(errs)))
	header := styles.DimStyle.Render("filter: " + filter)

	visible := m.height - 12
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if s.ErrSelected >= visible {
		offset = s.ErrSelected - visible + 1
	}

	var rows []string
	for i := offset; i < len(errs) && i < offset+visible; i++ {
		e := errs[i]
		row := fmt.Sprintf("%-18s %s", e.Kind, truncatePath(e.Path, m.width-30))
		if i == s.ErrSelected {
			row = styles.SelectedStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, styles.DimStyle.Render("  no errors"))
	}

	return title + "\n" + header + "\n\n" + strings.Join(rows, "\n") + "\n\n" +
		styles.HelpStyle.Render("j/k: move  f: filter kind  y: copy path  e/esc: close")
}

func (m *Model) viewExportMenu() string {
	title := styles.TitleStyle.Render("Export Report")

	items := []string{
		"  j / 1   JSON",
		"  m / 2   Markdown",
		"  h / 3   HTML",
	}

	body := strings.Join(items, "\n")
	if m.status != "" {
		body += "\n\n" + styles.SuccessStyle.Render(m.status)
	}

	return title + "\n\n" + body + "\n\n" + styles.HelpStyle.Render("esc: close")
}

// overlay centers a modal over the normal screen area.
func (m *Model) overlay(content string) string {
	modal := styles.ModalStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func truncatePath(path string, maxLen int) string {
	if maxLen <= 3 {
		return path
	}
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
