package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until it exits
func Run(opts Options) error {
	m := New(opts)
	defer m.Cleanup()

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
