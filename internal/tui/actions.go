package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/session"
)

// analyze triggers an analysis of the input. Blank input only shows the
// validation error.
func (m *Model) analyze() tea.Cmd {
	d, ok := m.session.Trigger(m.ctx, m.input.Value())
	m.recentIndex = -1
	if !ok {
		m.log.Debug("analyze rejected: empty url")
		m.refreshPanels()
		return nil
	}

	if err := m.recent.Add(d.URL); err != nil {
		m.log.Warn("failed to save recent url", "err", err)
	}
	m.statusMsg = ""
	m.errorMsg = ""
	m.refreshPanels()

	if m.analyzer == nil {
		return func() tea.Msg {
			return analyzeDoneMsg{seq: d.Seq, url: d.URL, err: errors.New("no analysis service configured")}
		}
	}

	analyzer := m.analyzer
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := analyzer.Analyze(d.Ctx, d.URL)
		return analyzeDoneMsg{seq: d.Seq, url: d.URL, result: res, err: err}
	})
}

// handleAnalyzeDone applies a completion unless a newer trigger replaced it
func (m *Model) handleAnalyzeDone(msg analyzeDoneMsg) tea.Cmd {
	if !m.session.Complete(msg.seq, msg.result, msg.err) {
		m.log.Debug("dropped stale completion", "seq", msg.seq, "url", msg.url)
		return nil
	}

	st := m.session.State()
	switch {
	case msg.err != nil:
		m.setError(executor.Describe(msg.err))
	case st.Phase == session.PhaseResult:
		m.setStatus(fmt.Sprintf("Analyzed in %s", executor.FormatDuration(msg.result.Duration)))
	}

	m.tabs = session.NewTabs()
	m.refreshPanels()
	return m.saveHistory(msg)
}

// saveHistory stores a completion when history is enabled
func (m *Model) saveHistory(msg analyzeDoneMsg) tea.Cmd {
	if m.historyManager == nil || !m.settings.HistoryEnabled {
		return nil
	}

	mgr := m.historyManager
	server := m.settings.Server
	return func() tea.Msg {
		entry := history.NewEntry(server, msg.url, msg.result, msg.err)
		if err := mgr.Save(entry); err != nil {
			return errorMsg("Failed to save history: " + err.Error())
		}
		return nil
	}
}

// loadHistory loads entries for the history modal
func (m *Model) loadHistory() tea.Cmd {
	if m.historyManager == nil {
		return func() tea.Msg {
			return historyLoadedMsg{err: errors.New("history is disabled")}
		}
	}

	mgr := m.historyManager
	return func() tea.Msg {
		entries, err := mgr.Load(HistoryLoadLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// openHistoryEntry shows a stored response without a network call
func (m *Model) openHistoryEntry() tea.Cmd {
	entry := m.historyState.GetCurrentEntry()
	if entry == nil {
		return nil
	}

	m.closeHistory()
	m.input.SetValue(entry.URL)
	m.input.CursorEnd()
	m.tabs = session.NewTabs()

	resp, err := history.Response(entry)
	if err != nil {
		// Transport failures have no body; show the stored message
		m.session.ShowError(entry.URL, entry.Error)
		m.refreshPanels()
		return nil
	}

	m.session.Show(entry.URL, resp)
	m.refreshPanels()
	m.setStatus(fmt.Sprintf("Loaded history entry #%d", entry.ID))
	return nil
}

// deleteHistoryEntry removes the selected entry
func (m *Model) deleteHistoryEntry() tea.Cmd {
	entry := m.historyState.GetCurrentEntry()
	if entry == nil || m.historyManager == nil {
		return nil
	}

	if err := m.historyManager.Delete(entry.ID); err != nil {
		m.setError(err.Error())
		return nil
	}
	m.historyState.Remove(entry.ID)
	m.setStatus(fmt.Sprintf("Deleted history entry #%d", entry.ID))
	return nil
}

// copyFormatted copies the formatted region to the clipboard
func (m *Model) copyFormatted() tea.Cmd {
	st := m.session.State()
	if st.Phase != session.PhaseResult {
		m.setError("No result to copy")
		return nil
	}

	text := st.View.Formatted
	write := m.writeClipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg("Formatted result copied to clipboard")
	}
}

// cycleRecent replaces the input with an older (delta 1) or newer
// (delta -1) recent URL
func (m *Model) cycleRecent(delta int) {
	urls := m.recent.List()
	if len(urls) == 0 {
		return
	}

	next := m.recentIndex + delta
	if next < -1 {
		next = -1
	}
	if next >= len(urls) {
		next = len(urls) - 1
	}
	m.recentIndex = next

	if next == -1 {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(urls[next])
	m.input.CursorEnd()
}
