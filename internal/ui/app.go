package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/disklens/internal/cache"
	"github.com/fenilsonani/disklens/internal/config"
	"github.com/fenilsonani/disklens/internal/export"
	"github.com/fenilsonani/disklens/internal/progress"
	"github.com/fenilsonani/disklens/internal/scanner"
	"github.com/fenilsonani/disklens/internal/ui/styles"
)

// Messages flowing through the bubbletea loop.
type (
	// scanEventMsg wraps one scanner event for the update loop.
	scanEventMsg struct{ ev scanner.Event }

	// scanFatalMsg reports the one fatal scan condition: unreadable root.
	scanFatalMsg struct{ err error }

	// sessionClosedMsg signals the scan event stream has drained.
	sessionClosedMsg struct{}

	// tickMsg drives progress repaint and toast expiry.
	tickMsg time.Time

	// statusMsg carries transient one-line feedback (export, clipboard).
	statusMsg string
)

const tickInterval = 100 * time.Millisecond

// Model is the bubbletea root model. It owns the State exclusively; the
// scanner communicates only through the session channel.
type Model struct {
	cfg   *config.Config
	root  string
	state *State
	cache *cache.Cache // nil when caching is disabled

	width  int
	height int

	spinner spinner.Model

	session  chan tea.Msg
	tracker  *progress.Tracker
	cancel   context.CancelFunc
	fatalErr error

	status string
}

// New builds the interactive application. c may be nil to disable the
// cache entirely.
func New(root string, cfg *config.Config, c *cache.Cache) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TitleStyle

	return &Model{
		cfg:     cfg,
		root:    root,
		state:   NewState(root, cfg.MergeThreshold),
		cache:   c,
		spinner: sp,
	}
}

// FatalErr reports the error that aborted the session, if any. The CLI
// maps it to exit code 1 after the program returns.
func (m *Model) FatalErr() error {
	return m.fatalErr
}

// State exposes the UI state for tests.
func (m *Model) State() *State {
	return m.state
}

// Init starts the first scan.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick(), m.startScan(true))
}

// startScan launches a scan session and returns the command that pumps
// its events into the update loop. useCache=false forces a fresh walk.
func (m *Model) startScan(useCache bool) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	sc := scanner.New(m.cfg)
	m.tracker = sc.Tracker()

	ch := make(chan tea.Msg, 16)
	m.session = ch
	go runSession(ctx, sc, m.cache, m.root, useCache, ch)

	return m.listen()
}

// runSession drives one scan: opportunistic cache eviction, cache lookup,
// then the real walk with the result persisted on the way out. All cache
// failures degrade to a fresh scan or a log line.
func runSession(ctx context.Context, sc *scanner.Scanner, c *cache.Cache, root string, useCache bool, ch chan<- tea.Msg) {
	defer close(ch)

	if c != nil {
		c.Evict()
		if useCache {
			if res, ok := c.Load(root); ok {
				slog.Debug("serving cached scan", "root", root, "age", time.Since(res.Timestamp))
				ch <- scanEventMsg{scanner.EventComplete{Result: res}}
				return
			}
		}
	}

	done := make(chan error, 1)
	go func() {
		result, err := sc.Scan(ctx, root)
		if err == nil && c != nil {
			if serr := c.Save(result); serr != nil {
				slog.Warn("cache write failed", "root", root, "error", serr)
			}
		}
		done <- err
	}()

	for ev := range sc.Events() {
		select {
		case ch <- scanEventMsg{ev}:
		case <-ctx.Done():
			// Nobody is listening anymore; keep draining so the
			// scanner can shut down.
		}
	}

	if err := <-done; err != nil && ctx.Err() == nil {
		ch <- scanFatalMsg{err}
	}
}

// listen pumps the next session message into the update loop.
func (m *Model) listen() tea.Cmd {
	ch := m.session
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return msg
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update is the event loop body.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state.ViewMode != ModeScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.state.ViewMode == ModeScanning && m.tracker != nil {
			m.state.Progress = m.tracker.Snapshot()
		}
		return m, tick()

	case scanEventMsg:
		switch ev := msg.ev.(type) {
		case scanner.EventProgress:
			m.state.Progress = progress.Snapshot{
				FilesScanned:   ev.Files,
				DirsScanned:    ev.Dirs,
				BytesScanned:   ev.Bytes,
				ErrorCount:     ev.Errors,
				LastPath:       ev.CurrentPath,
				FilesPerSecond: ev.Rate,
			}
		case scanner.EventError:
			m.state.RecordError(ev.Err)
		case scanner.EventComplete:
			m.state.SetResult(ev.Result)
		}
		return m, m.listen()

	case scanFatalMsg:
		m.fatalErr = msg.err
		return m, tea.Quit

	case sessionClosedMsg:
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

// rescan abandons the current session and starts a fresh uncached walk.
func (m *Model) rescan() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.state = NewState(m.root, m.state.Threshold)
	m.status = ""
	return tea.Batch(m.spinner.Tick, m.startScan(false))
}

// quit cancels any in-flight scan before leaving the program. The
// cancelled context makes the scanner's next send fail, which it treats
// as the receiver being gone.
func (m *Model) quit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

// exportReport writes the current result in the chosen format to a
// timestamped file in the working directory.
func (m *Model) exportReport(format string) tea.Cmd {
	result := m.state.Result
	if result == nil {
		return nil
	}
	return func() tea.Msg {
		stamp := time.Now().Format("20060102_150405")
		var path string
		var err error
		switch format {
		case "json":
			path = fmt.Sprintf("disklens_report_%s.json", stamp)
			err = export.JSON(result, path)
		case "markdown":
			path = fmt.Sprintf("disklens_report_%s.md", stamp)
			err = export.Markdown(result, path)
		case "html":
			path = fmt.Sprintf("disklens_report_%s.html", stamp)
			err = export.HTML(result, path)
		}
		if err != nil {
			return statusMsg(fmt.Sprintf("export failed: %v", err))
		}
		return statusMsg("exported to " + path)
	}
}

// copyToClipboard copies a path, reporting the outcome on the status line.
func copyToClipboard(path string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return statusMsg(fmt.Sprintf("copy failed: %v", err))
		}
		return statusMsg("copied " + path)
	}
}
