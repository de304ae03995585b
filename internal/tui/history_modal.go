package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/types"
)

// openHistory switches to the history modal and loads entries
func (m *Model) openHistory() tea.Cmd {
	m.mode = ModeHistory
	m.historyState.Reset()
	m.historySearch.SetValue("")
	m.input.Blur()
	return tea.Batch(m.historySearch.Focus(), m.loadHistory())
}

// closeHistory returns to the main screen
func (m *Model) closeHistory() {
	m.mode = ModeNormal
	m.historySearch.Blur()
}

// renderHistory renders the history list with its search box
func (m *Model) renderHistory() string {
	modalWidth := m.width - ModalWidthMargin
	modalHeight := m.height - ModalHeightMargin
	rows := modalHeight - HistoryChromeLines
	if rows < 1 {
		rows = 1
	}

	entries := m.historyState.GetEntries()
	index := m.historyState.GetIndex()
	start, end := m.historyState.Window(rows)

	var lines []string
	lines = append(lines, styleTitle.Render("History"), m.historySearch.View(), "")

	if len(entries) == 0 {
		if m.historyState.Total() == 0 {
			lines = append(lines, styleSubtle.Render("No history yet"))
		} else {
			lines = append(lines, styleSubtle.Render("No matches"))
		}
	}
	for i := start; i < end; i++ {
		line := historyLine(entries[i], modalWidth-4)
		if i == index {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", styleSubtle.Render(fmt.Sprintf("[%d/%d]", min(index+1, len(entries)), len(entries))))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(modalWidth).
		Height(modalHeight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, modal),
		m.renderStatusBar(),
		m.help.View(m.keyMap()),
	)
}

// historyLine formats one entry as "time status url title"
func historyLine(e types.HistoryEntry, width int) string {
	status := styleSuccess.Render("ok ")
	if e.Status == types.StatusError {
		status = styleError.Render("err")
	}

	label := e.Title
	if label == "" {
		label = e.Error
	}
	text := fmt.Sprintf("%s %s  %s  %s",
		e.Timestamp.Format("01-02 15:04"),
		executor.FormatDuration(e.Duration),
		e.URL,
		label,
	)
	return status + " " + truncate(text, max(width-4, 10))
}
