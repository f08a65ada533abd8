// Package tui provides a Bubble Tea terminal user interface for noway.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/noway/internal/config"
	"github.com/handiism/noway/internal/download"
	ioutils "github.com/handiism/noway/internal/io"
	"github.com/handiism/noway/internal/namegen"
	"github.com/handiism/noway/internal/wayback"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs        = 10
	maxConcurrency = 64
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventBuffer collects progress events from download goroutines until the
// next tick drains them into the model.
type eventBuffer struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (b *eventBuffer) push(e download.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *eventBuffer) drain() []download.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	names     *namegen.Generator
	logs      []LogEntry
	events    *eventBuffer
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// session identifies the current run; results from older runs are dropped.
	session int

	// Download progress
	outputDir string
	jobs      int
	completed int
	failed    int
	total     int
	result    *download.Result
	reported  bool

	// Options
	matchIndex  int
	concurrency int
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings seeds the options shown on the
// input screen; names supplies output directories when settings has none.
func NewModel(settings *config.Settings, names *namegen.Generator) Model {
	ti := textinput.New()
	ti.Placeholder = "example.com"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	matchIndex := 0
	for i, mt := range wayback.MatchTypes {
		if string(mt) == settings.MatchType {
			matchIndex = i
		}
	}

	return Model{
		state:       StateInput,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		names:       names,
		logs:        make([]LogEntry, 0),
		events:      &eventBuffer{},
		ctx:         ctx,
		cancel:      cancel,
		matchIndex:  matchIndex,
		concurrency: settings.Concurrency,
		verbose:     settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// InitDoneMsg is sent when the snapshot listing completes.
	InitDoneMsg struct {
		Session   int
		OutputDir string
		Jobs      int
		Manager   *download.Manager
		Err       error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Session  int
		Result   *download.Result
		Reported bool
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

func (m Model) matchType() wayback.MatchType {
	return wayback.MatchTypes[m.matchIndex]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.session++
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick, m.tickProgress())
			}

		case "tab":
			if m.state == StateInput {
				m.matchIndex = (m.matchIndex + 1) % len(wayback.MatchTypes)
				return m, nil
			}

		case "up":
			if m.state == StateInput {
				m.concurrency = min(m.concurrency+1, maxConcurrency)
				return m, nil
			}

		case "down":
			if m.state == StateInput {
				m.concurrency = max(m.concurrency-1, 1)
				return m, nil
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.session++
				m.state = StateInput
				m.logs = nil
				m.events = &eventBuffer{}
				m.err = nil
				m.outputDir = ""
				m.jobs, m.completed, m.failed, m.total = 0, 0, 0, 0
				m.result = nil
				m.reported = false
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		if msg.Session != m.session {
			return m, nil
		}
		m.appendLogs(m.events.drain())
		m.outputDir = msg.OutputDir
		switch {
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case m.ctx.Err() != nil:
			// esc already moved us to StateError
		case msg.Jobs == 0:
			m.result = &download.Result{}
			m.state = StateComplete
		default:
			m.jobs = msg.Jobs
			m.manager = msg.Manager
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload())
		}

	case DownloadDoneMsg:
		if msg.Session != m.session {
			return m, nil
		}
		m.appendLogs(m.events.drain())
		m.result = msg.Result
		m.reported = msg.Reported
		if msg.Result != nil {
			m.total = msg.Result.Total
			m.completed = msg.Result.Total
			m.failed = len(msg.Result.Failed)
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateInitializing || m.state == StateDownloading {
			m.appendLogs(m.events.drain())
			if m.manager != nil {
				_, m.completed, m.failed, m.total = m.manager.GetProgress()
				var percent float64
				if m.total > 0 {
					percent = float64(m.completed) / float64(m.total)
				}
				cmds = append(cmds, m.progress.SetPercent(percent))
			}
			cmds = append(cmds, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLogs(events []download.ProgressEvent) {
	for _, e := range events {
		if e.Level == download.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("noway"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download archived snapshots from the Wayback Machine"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Match type: %s (tab)\n", m.matchType()))
	b.WriteString(fmt.Sprintf("  Concurrency: %d (up/down)\n", m.concurrency))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+o)\n", verboseCheck))
	b.WriteString("\n")
	dir := m.settings.OutputDir
	if dir == "" {
		dir = "random name"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", dir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Listing archived snapshots..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d snapshot(s)", m.jobs)))
	b.WriteString(" ")
	b.WriteString(pathStyle.Render("→ " + m.outputDir))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Snapshots: %d/%d | Failed: %d",
		m.completed,
		m.total,
		m.failed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.result == nil || m.result.Total == 0 {
		b.WriteString(warningStyle.Render("No archived URLs found."))
		b.WriteString("\n")
		return b.String()
	}

	content := fmt.Sprintf(
		"Download completed.\n\n"+
			"Downloaded: %d/%d\n"+
			"Failed: %d\n"+
			"Directory: %s",
		m.result.Succeeded,
		m.result.Total,
		len(m.result.Failed),
		m.outputDir,
	)
	if m.reported {
		content += fmt.Sprintf("\n\nSome URLs failed to download. Check %s for details.", download.ReportPath(m.outputDir))
	}
	b.WriteString(boxStyle.Render(content))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: match type • up/down: concurrency • ctrl+o: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// initializeDownload creates the output directory and the manager, then
// lists the snapshots for the entered URL.
func (m Model) initializeDownload() tea.Cmd {
	ctx := m.ctx
	session := m.session
	events := m.events
	target := strings.TrimSpace(m.textInput.Value())
	match := m.matchType()

	settings := *m.settings
	settings.Concurrency = m.concurrency
	settings.MatchType = string(match)
	settings.Verbose = m.verbose

	outputDir := settings.OutputDir
	if outputDir == "" {
		outputDir = m.names.Next()
	}

	return func() tea.Msg {
		if err := ioutils.EnsureDir(outputDir); err != nil {
			return InitDoneMsg{Session: session, OutputDir: outputDir, Err: err}
		}

		manager := download.NewManager(&settings, outputDir, events.push,
			download.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
		if err := manager.Initialize(ctx, target, match); err != nil {
			return InitDoneMsg{Session: session, OutputDir: outputDir, Err: err}
		}

		return InitDoneMsg{
			Session:   session,
			OutputDir: outputDir,
			Jobs:      len(manager.Jobs()),
			Manager:   manager,
		}
	}
}

// startDownload runs the downloads in the background and writes the failure
// report once they finish.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	session := m.session
	manager := m.manager
	outputDir := m.outputDir

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Session: session, Err: fmt.Errorf("no manager")}
		}

		result := manager.StartDownloads(ctx)
		reported, err := download.WriteFailureReport(outputDir, result.Failed)
		return DownloadDoneMsg{Session: session, Result: result, Reported: reported, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, names *namegen.Generator) error {
	p := tea.NewProgram(NewModel(settings, names), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
