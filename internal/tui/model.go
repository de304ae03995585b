package tui

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/pagescope/internal/config"
	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/keybinds"
	"github.com/studiowebux/pagescope/internal/logger"
	"github.com/studiowebux/pagescope/internal/session"
	"github.com/studiowebux/pagescope/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHistory
)

// Analyzer sends one analyze request
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*executor.Result, error)
}

// Options carry the dependencies of a Model
type Options struct {
	Settings *config.Settings
	Analyzer Analyzer
	History  *history.Manager // nil disables history
	Recent   *session.Recent  // nil keeps recent URLs in memory only
	Keys     *keybinds.Registry
	Logger   *slog.Logger
	Version  string
}

// Model represents the TUI state
type Model struct {
	// Core state
	settings       *config.Settings
	analyzer       Analyzer
	historyManager *history.Manager
	recent         *session.Recent
	keys           *keybinds.Registry
	log            *slog.Logger
	version        string
	ctx            context.Context
	mode           Mode

	// Analysis
	session *session.Session
	tabs    session.Tabs
	panels  []viewport.Model // One per tab, in session.TabOrder

	// Widgets
	input         textinput.Model
	spinner       spinner.Model
	help          help.Model
	historySearch textinput.Model
	historyState  *HistoryState

	recentIndex int // -1 when not browsing recent URLs

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string // Transport hint for the footer

	writeClipboard func(string) error
}

// New creates a new TUI model
func New(opts Options) *Model {
	settings := opts.Settings
	if settings == nil {
		defaults := config.Defaults()
		settings = &defaults
	}
	keys := opts.Keys
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	recent := opts.Recent
	if recent == nil {
		recent = &session.Recent{URLs: []string{}}
	}

	input := textinput.New()
	input.Placeholder = "https://example.com/article"
	input.Prompt = "网址: "
	input.CharLimit = 2048
	input.Focus()

	search := textinput.New()
	search.Placeholder = "fuzzy search url or title"
	search.Prompt = "/ "

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleWarning

	panels := make([]viewport.Model, len(session.TabOrder))
	for i := range panels {
		panels[i] = viewport.New(80, 20)
	}

	return &Model{
		settings:       settings,
		analyzer:       opts.Analyzer,
		historyManager: opts.History,
		recent:         recent,
		keys:           keys,
		log:            log,
		version:        opts.Version,
		ctx:            context.Background(),
		mode:           ModeNormal,
		session:        session.New(),
		tabs:           session.NewTabs(),
		panels:         panels,
		input:          input,
		spinner:        spin,
		help:           help.New(),
		historySearch:  search,
		historyState:   NewHistoryState(),
		recentIndex:    -1,
		writeClipboard: clipboard.WriteAll,
	}
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Cleanup cancels the request in flight and closes the history database
func (m *Model) Cleanup() {
	m.session.Cancel()
	if m.historyManager != nil {
		if err := m.historyManager.Close(); err != nil {
			m.log.Error("error closing history database", "err", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewports()
		m.refreshPanels()

	case spinner.TickMsg:
		if session.Visibility(m.session.State()).Loading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case analyzeDoneMsg:
		cmd = m.handleAnalyzeDone(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			m.setError("Failed to load history: " + msg.err.Error())
			break
		}
		m.historyState.Load(msg.entries)

	case statusMsg:
		m.setStatus(string(msg))

	case errorMsg:
		m.setError(string(msg))

	default:
		// Cursor blink and other widget messages
		if m.mode == ModeHistory {
			m.historySearch, cmd = m.historySearch.Update(msg)
		} else {
			m.input, cmd = m.input.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHistory:
		return m.renderHistory()
	default:
		return m.renderMain()
	}
}

// Custom message types
type analyzeDoneMsg struct {
	seq    uint64
	url    string
	result *executor.Result
	err    error
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	err     error
}

type statusMsg string

type errorMsg string

func (m *Model) setStatus(msg string) {
	m.errorMsg = ""
	m.statusMsg = truncate(msg, StatusMaxWidth)
}

func (m *Model) setError(msg string) {
	m.errorMsg = truncate(msg, StatusMaxWidth)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n-3]) + "..."
	}
	return s
}
