package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/types"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

type item struct {
	entry types.HistoryEntry
}

func (i item) FilterValue() string {
	return i.entry.URL + " " + i.entry.Title
}

func (i item) Title() string {
	label := i.entry.Title
	if i.entry.Status == types.StatusError {
		label = "[error] " + i.entry.Error
	}
	return fmt.Sprintf("%s  %s  %s", i.entry.Timestamp.Format("2006-01-02 15:04"), i.entry.URL, label)
}

func (i item) Description() string { return "" }

type selectorModel struct {
	list     list.Model
	choice   int64
	quitting bool
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// Let the list's filter input consume keys while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = 0
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.choice = i.entry.ID
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • /: filter • enter: select • q/esc: cancel")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

// selectEntry shows an interactive list of history entries and returns
// the chosen id
func selectEntry(entries []types.HistoryEntry) (int64, error) {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, item{entry: e})
	}

	const defaultWidth = 100
	const listHeight = 16

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = "Select a history entry"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	p := tea.NewProgram(selectorModel{list: l})
	finalModel, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("error running selector: %w", err)
	}

	choice := finalModel.(selectorModel).choice
	if choice == 0 {
		return 0, fmt.Errorf("selection cancelled")
	}
	return choice, nil
}

// itemDelegate is a custom list item delegate
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s (%s)", index+1, i.Title(), executor.FormatDuration(i.entry.Duration))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}
