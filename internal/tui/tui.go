// Package tui provides a Bubble Tea terminal user interface for ytmusic-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/youtube"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0033")).
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

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// errCancelled is shown when the user aborts a running download.
var errCancelled = errors.New("cancelled by user")

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateSearching
	StatePicking
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
//
// The input accepts a YouTube Music URL, a bare video id or a search query.
// URLs are downloaded directly; anything else is searched and the chosen
// result is downloaded.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	results   list.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference and its event feed
	manager *download.Manager
	events  chan download.ProgressEvent

	// What is being downloaded
	target    string
	completed []model.Download

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	totalBytes      int64
	receivedBytes   int64

	// Options
	createPlaylist bool
	verbose        bool

	width  int
	height int

	newManager func(*config.Settings, func(download.ProgressEvent)) *download.Manager
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://music.youtube.com/watch?v=... or a search query"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0033"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:          StateInput,
		textInput:      ti,
		spinner:        sp,
		progress:       prog,
		settings:       settings,
		createPlaylist: settings.CreatePlaylist,
		logs:           make([]LogEntry, 0),
		events:         make(chan download.ProgressEvent, 64),
		ctx:            ctx,
		cancel:         cancel,
		newManager:     download.NewManager,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when the manager reports progress.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// SearchDoneMsg carries search results.
	SearchDoneMsg struct {
		Query   string
		Results []model.SearchResult
		Err     error
	}

	// DownloadDoneMsg is sent when a track or playlist run finishes.
	DownloadDoneMsg struct {
		Downloads []model.Download
		Err       error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		if m.state == StatePicking {
			m.results.SetSize(msg.Width, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == StatePicking {
			return m.updatePicking(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateSearching {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				return m.submit(strings.TrimSpace(m.textInput.Value()))
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.createPlaylist = !m.createPlaylist
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				return m.reset(), textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m = m.appendLog(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case SearchDoneMsg:
		switch {
		case m.ctx.Err() != nil:
			// cancelled; the error view is already showing
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case len(msg.Results) == 0:
			m.state = StateError
			m.err = fmt.Errorf("no results for %q", msg.Query)
		default:
			m.state = StatePicking
			m.results = newResultList(msg.Query, msg.Results, m.width, m.height-6)
		}

	case DownloadDoneMsg:
		m.completed = msg.Downloads
		m.syncProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.syncProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() != list.Filtering {
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "esc":
			m = m.reset()
			return m, nil
		case "enter":
			r, ok := selectedResult(m.results)
			if !ok {
				return m, nil
			}
			return m.startDownload(r.VideoID, false, r.Label())
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// submit routes the input to a download or a search.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	ref, err := youtube.ParseURL(input)
	if err != nil && looksLikeURL(input) {
		m.state = StateError
		m.err = err
		return m, nil
	}
	if err == nil {
		if ref.VideoID == "" {
			return m.startDownload(input, true, "playlist "+ref.PlaylistID)
		}
		return m.startDownload(input, false, input)
	}

	m.state = StateSearching
	m.ensureManager()
	return m, tea.Batch(m.search(input), m.spinner.Tick, m.waitForEvent())
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.Contains(s, "youtube.com")
}

func (m *Model) ensureManager() {
	if m.manager != nil {
		return
	}
	settings := *m.settings
	settings.CreatePlaylist = m.createPlaylist

	events := m.events
	m.manager = m.newManager(&settings, func(event download.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})
}

func (m Model) startDownload(target string, playlist bool, label string) (tea.Model, tea.Cmd) {
	m.ensureManager()
	m.state = StateDownloading
	m.target = label

	manager, ctx := m.manager, m.ctx
	run := func() tea.Msg {
		if playlist {
			downloads, err := manager.DownloadPlaylist(ctx, target)
			return DownloadDoneMsg{Downloads: downloads, Err: err}
		}
		d, err := manager.DownloadTrack(ctx, target)
		return DownloadDoneMsg{Downloads: []model.Download{d}, Err: err}
	}
	return m, tea.Batch(run, m.tickProgress(), m.spinner.Tick, m.waitForEvent())
}

func (m Model) search(query string) tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		results, err := manager.Search(ctx, query)
		return SearchDoneMsg{Query: query, Results: results, Err: err}
	}
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) appendLog(e download.ProgressEvent) Model {
	if e.Level == download.LevelVerbose && !m.verbose {
		return m
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
	return m
}

func (m *Model) syncProgress() {
	if m.manager == nil {
		return
	}
	m.receivedBytes, m.totalBytes, m.downloadedFiles, m.totalFiles = m.manager.GetProgress()
}

// percent prefers byte progress and falls back to finished files.
func (m Model) percent() float64 {
	if m.totalFiles > 0 && m.downloadedFiles == m.totalFiles {
		return 1
	}
	if m.totalBytes > 0 {
		return min(float64(m.receivedBytes)/float64(m.totalBytes), 1)
	}
	if m.totalFiles > 0 {
		return float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	return 0
}

func (m Model) reset() Model {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.target = ""
	m.completed = nil
	m.downloadedFiles, m.totalFiles = 0, 0
	m.receivedBytes, m.totalBytes = 0, 0
	m.manager = nil
	m.events = make(chan download.ProgressEvent, 64)
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ YouTube Music Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download tracks and playlists from YouTube Music"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.viewSearching())
	case StatePicking:
		b.WriteString(m.results.View())
		b.WriteString("\n")
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a YouTube Music URL or search:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist file (ctrl+p)\n", checkbox(m.createPlaylist)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+l)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewSearching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Searching for %q...", m.textInput.Value())))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(trackStyle.Render(m.target))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Tracks: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var lines []string
	for _, d := range m.completed {
		if d.IsCompleted() {
			lines = append(lines, "♪ "+d.OutputPath())
		}
	}

	return boxStyle.Render(fmt.Sprintf(
		"✓ Download Complete!\n\n"+
			"Tracks: %d\n"+
			"Size: %.2f MB\n\n%s",
		len(lines),
		float64(m.receivedBytes)/1024/1024,
		strings.Join(lines, "\n"),
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

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
		return "enter: start • ctrl+p: playlist file • ctrl+l: verbose • esc: quit"
	case StatePicking:
		return "enter: download • /: filter • esc: back"
	case StateSearching, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
