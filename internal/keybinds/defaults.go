package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerInputBindings(r)
	registerResultBindings(r)
	registerHistoryBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "tab", ActionNextTab)
	r.Register(ContextGlobal, "shift+tab", ActionPrevTab)
	r.Register(ContextGlobal, "ctrl+h", ActionOpenHistory)
	r.Register(ContextGlobal, "ctrl+x", ActionCancel)
}

// registerInputBindings leaves printable keys to the text input
func registerInputBindings(r *Registry) {
	r.Register(ContextInput, "enter", ActionAnalyze)
	r.Register(ContextInput, "esc", ActionToggleFocus)
	r.Register(ContextInput, "up", ActionRecentPrev)
	r.Register(ContextInput, "down", ActionRecentNext)
}

func registerResultBindings(r *Registry) {
	r.RegisterMultiple(ContextResult, []string{"esc", "i"}, ActionToggleFocus)
	r.Register(ContextResult, "enter", ActionAnalyze)
	r.Register(ContextResult, "q", ActionQuit)
	r.Register(ContextResult, "1", ActionTabOverview)
	r.Register(ContextResult, "2", ActionTabFormatted)
	r.Register(ContextResult, "3", ActionTabRaw)
	r.Register(ContextResult, "y", ActionCopy)
	r.RegisterMultiple(ContextResult, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextResult, []string{"down", "j"}, ActionScrollDown)
	r.Register(ContextResult, "pgup", ActionPageUp)
	r.Register(ContextResult, "pgdown", ActionPageDown)
	r.Register(ContextResult, "?", ActionToggleHelp)
}

// registerHistoryBindings leaves printable keys to the search input
func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"esc", "ctrl+h"}, ActionCloseModal)
	r.RegisterMultiple(ContextHistory, []string{"up", "ctrl+p"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "ctrl+n"}, ActionNavigateDown)
	r.Register(ContextHistory, "enter", ActionHistoryOpen)
	r.Register(ContextHistory, "ctrl+d", ActionHistoryDelete)
}
