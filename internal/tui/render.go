package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/pagescope/internal/highlight"
	"github.com/studiowebux/pagescope/internal/keybinds"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/session"
	"github.com/studiowebux/pagescope/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleTab = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorGray)

	styleActiveTab = styleTab.
			Bold(true).
			Foreground(colorCyan).
			Underline(true)
)

// renderMain renders the input, the visible region and the footer
func (m *Model) renderMain() string {
	st := m.session.State()
	regions := session.Visibility(st)

	header := styleTitle.Render("pagescope")
	if m.version != "" {
		header += styleSubtle.Render(" " + m.version)
	}
	header += styleSubtle.Render("  " + m.settings.Server)

	border := colorGray
	if !m.input.Focused() {
		border = colorGreen
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(m.width - 2)

	var body string
	switch {
	case regions.Loading:
		body = box.Render(fmt.Sprintf("%s 正在分析 %s", m.spinner.View(), st.URL))
	case regions.Error:
		body = box.BorderForeground(colorRed).Render(styleError.Render(st.Err))
	case regions.Result:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderTabBar(),
			box.Render(m.activePanel().View()),
		)
	default:
		body = box.Render(styleSubtle.Render(result.MissingURLMessage))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		body,
		m.renderStatusBar(),
		m.help.View(m.keyMap()),
	)
}

// renderTabBar renders one button per tab, highlighting the active one
func (m *Model) renderTabBar() string {
	buttons := make([]string, 0, len(session.TabOrder))
	for i, tab := range session.TabOrder {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if m.tabs.IsActive(tab) {
			buttons = append(buttons, styleActiveTab.Render(label))
		} else {
			buttons = append(buttons, styleTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// renderStatusBar renders the status line at the bottom
func (m *Model) renderStatusBar() string {
	switch {
	case m.errorMsg != "":
		return styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		return styleSuccess.Render(m.statusMsg)
	}

	st := m.session.State()
	if st.Phase == session.PhaseResult {
		pos := fmt.Sprintf("%s %3.f%%", m.tabs.Active().Title(), m.activePanel().ScrollPercent()*100)
		return styleSubtle.Render(pos)
	}
	return styleSubtle.Render(st.Phase.String())
}

// updateViewports resizes the panels to the window
func (m *Model) updateViewports() {
	width := m.width - PanelWidthMargin
	height := m.height - MainChromeLines - m.helpHeight() + 1
	if height < MinPanelHeight {
		height = MinPanelHeight
	}
	for i := range m.panels {
		m.panels[i].Width = width
		m.panels[i].Height = height
	}
}

func (m *Model) helpHeight() int {
	if m.width == 0 {
		return 1
	}
	return lipgloss.Height(m.help.View(m.keyMap()))
}

// refreshPanels rebuilds the panel contents from the session state
func (m *Model) refreshPanels() {
	st := m.session.State()
	if st.Phase != session.PhaseResult {
		for i := range m.panels {
			m.panels[i].SetContent("")
		}
		return
	}

	for i, tab := range session.TabOrder {
		m.panels[i].SetContent(m.panelContent(tab, st))
		m.panels[i].GotoTop()
	}
}

func (m *Model) panelContent(tab session.Tab, st session.State) string {
	view := st.View
	switch tab {
	case session.TabFormatted:
		if view.Shape == types.ShapeRaw {
			return view.Formatted
		}
		return highlight.JSON(view.Formatted)

	case session.TabRaw:
		if m.settings.RenderMarkdown && view.RawContent != result.PlaceholderNoContent {
			return highlight.Markdown(view.RawContent, m.panels[0].Width)
		}
		return view.RawContent

	default:
		return renderOverview(st.URL, view)
	}
}

func renderOverview(target string, view result.View) string {
	var lines []string
	lines = append(lines, styleTitle.Render(view.Title))
	if view.URL != "" {
		target = view.URL
	}
	lines = append(lines, styleSubtle.Render(target), "")

	for _, f := range view.Overview {
		value := f.Value
		if value == result.PlaceholderMissing {
			value = styleSubtle.Render(value)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", styleWarning.Render(f.Label), value))
	}
	return strings.Join(lines, "\n")
}

// keyMap adapts the registry to bubbles/help for the current context
type keyMap struct {
	keys    *keybinds.Registry
	context keybinds.Context
}

func (m *Model) keyMap() keyMap {
	ctx := m.keyContext()
	if m.mode == ModeHistory {
		ctx = keybinds.ContextHistory
	}
	return keyMap{keys: m.keys, context: ctx}
}

func (k keyMap) b(action keybinds.Action, help string) key.Binding {
	return k.keys.Binding(k.context, action, help)
}

// ShortHelp returns the bindings shown in the footer
func (k keyMap) ShortHelp() []key.Binding {
	switch k.context {
	case keybinds.ContextHistory:
		return []key.Binding{
			k.b(keybinds.ActionHistoryOpen, "open"),
			k.b(keybinds.ActionHistoryDelete, "delete"),
			k.b(keybinds.ActionCloseModal, "close"),
		}
	case keybinds.ContextInput:
		return []key.Binding{
			k.b(keybinds.ActionAnalyze, "analyze"),
			k.b(keybinds.ActionToggleFocus, "results"),
			k.b(keybinds.ActionNextTab, "next tab"),
			k.b(keybinds.ActionOpenHistory, "history"),
		}
	default:
		return []key.Binding{
			k.b(keybinds.ActionToggleFocus, "edit url"),
			k.b(keybinds.ActionCopy, "copy"),
			k.b(keybinds.ActionToggleHelp, "more"),
			k.b(keybinds.ActionQuit, "quit"),
		}
	}
}

// FullHelp returns the expanded help columns
func (k keyMap) FullHelp() [][]key.Binding {
	if k.context != keybinds.ContextResult {
		return [][]key.Binding{k.ShortHelp()}
	}
	return [][]key.Binding{
		{
			k.b(keybinds.ActionTabOverview, session.TabOverview.Title()),
			k.b(keybinds.ActionTabFormatted, session.TabFormatted.Title()),
			k.b(keybinds.ActionTabRaw, session.TabRaw.Title()),
			k.b(keybinds.ActionNextTab, "next tab"),
		},
		{
			k.b(keybinds.ActionScrollUp, "up"),
			k.b(keybinds.ActionScrollDown, "down"),
			k.b(keybinds.ActionPageUp, "page up"),
			k.b(keybinds.ActionPageDown, "page down"),
		},
		{
			k.b(keybinds.ActionAnalyze, "re-run"),
			k.b(keybinds.ActionCancel, "cancel"),
			k.b(keybinds.ActionCopy, "copy"),
			k.b(keybinds.ActionOpenHistory, "history"),
		},
		{
			k.b(keybinds.ActionToggleFocus, "edit url"),
			k.b(keybinds.ActionToggleHelp, "less"),
			k.b(keybinds.ActionQuit, "quit"),
		},
	}
}
