package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/pagescope/internal/keybinds"
	"github.com/studiowebux/pagescope/internal/session"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// keyContext returns the keybind context of the main screen
func (m *Model) keyContext() keybinds.Context {
	if m.input.Focused() {
		return keybinds.ContextInput
	}
	return keybinds.ContextResult
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keys.Match(m.keyContext(), msg.String())
	if !ok {
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.recentIndex = -1
			return cmd
		}
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce, keybinds.ActionQuit:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionAnalyze:
		return m.analyze()

	case keybinds.ActionCancel:
		if m.session.Cancel() {
			m.setStatus("Request cancelled")
			m.refreshPanels()
		}

	case keybinds.ActionToggleFocus:
		if m.input.Focused() {
			m.input.Blur()
		} else {
			return m.input.Focus()
		}

	case keybinds.ActionNextTab:
		m.tabs.Next()
	case keybinds.ActionPrevTab:
		m.tabs.Prev()
	case keybinds.ActionTabOverview:
		m.tabs.Activate(session.TabOverview)
	case keybinds.ActionTabFormatted:
		m.tabs.Activate(session.TabFormatted)
	case keybinds.ActionTabRaw:
		m.tabs.Activate(session.TabRaw)

	case keybinds.ActionRecentPrev:
		m.cycleRecent(1)
	case keybinds.ActionRecentNext:
		m.cycleRecent(-1)

	case keybinds.ActionCopy:
		return m.copyFormatted()

	case keybinds.ActionScrollUp:
		m.activePanel().ScrollUp(1)
	case keybinds.ActionScrollDown:
		m.activePanel().ScrollDown(1)
	case keybinds.ActionPageUp:
		m.activePanel().PageUp()
	case keybinds.ActionPageDown:
		m.activePanel().PageDown()

	case keybinds.ActionToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.updateViewports()

	case keybinds.ActionOpenHistory:
		return m.openHistory()
	}

	return nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keys.Match(keybinds.ContextHistory, msg.String())
	if !ok {
		// Everything else edits the search query
		var cmd tea.Cmd
		m.historySearch, cmd = m.historySearch.Update(msg)
		m.historyState.SetSearchQuery(m.historySearch.Value())
		return cmd
	}

	switch action {
	case keybinds.ActionQuitForce:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionCloseModal, keybinds.ActionOpenHistory:
		m.closeHistory()

	case keybinds.ActionNavigateUp:
		m.historyState.Navigate(-1)

	case keybinds.ActionNavigateDown:
		m.historyState.Navigate(1)

	case keybinds.ActionHistoryOpen:
		return m.openHistoryEntry()

	case keybinds.ActionHistoryDelete:
		return m.deleteHistoryEntry()
	}

	return nil
}

// activePanel returns the viewport of the active tab
func (m *Model) activePanel() *viewport.Model {
	return &m.panels[m.tabs.ActiveIndex()]
}
