package tui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/pagescope/internal/config"
	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/types"
)

// fakeAnalyzer returns canned results and records the URLs it was asked for
type fakeAnalyzer struct {
	mu    sync.Mutex
	urls  []string
	resp  *types.AnalyzeResponse
	err   error
	block chan struct{} // when set, Analyze waits for it or for cancellation
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, rawURL string) (*executor.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, rawURL)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &executor.Result{Response: f.resp, Status: 200, RequestID: "req-1", Duration: 12}, nil
}

func (f *fakeAnalyzer) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

// CreateTestModel creates a sized Model with a fake analyzer and no history
func CreateTestModel(t *testing.T, analyzer Analyzer) *Model {
	t.Helper()

	settings := config.Defaults()
	m := New(Options{Settings: &settings, Analyzer: analyzer, Version: "test-version"})
	prepare(m)
	return m
}

// CreateTestModelWithHistory creates a Model backed by a temporary history database
func CreateTestModelWithHistory(t *testing.T, analyzer Analyzer) (*Model, *history.Manager) {
	t.Helper()

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to create history manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	settings := config.Defaults()
	settings.HistoryEnabled = true
	m := New(Options{Settings: &settings, Analyzer: analyzer, History: mgr, Version: "test-version"})
	prepare(m)
	return m, mgr
}

// prepare sizes the model and stops cursor blinking so focus changes
// return no timer commands
func prepare(m *Model) {
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.historySearch.Cursor.SetMode(cursor.CursorStatic)
	m.writeClipboard = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
}

// runCmd executes a command and feeds the resulting messages back into
// the model. Batches are expanded; spinner ticks are dropped.
func runCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(m, c)
		}
	default:
		_, next := m.Update(msg)
		runCmd(m, next)
	}
}

// press sends a key to the model and runs the resulting command
func press(m *Model, k string) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+h":
		msg = tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+x":
		msg = tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	runCmd(m, cmd)
}

// typeText types a string into the focused input
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
