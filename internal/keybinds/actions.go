package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal  Context = "global"  // Available everywhere
	ContextInput   Context = "input"   // URL input focused
	ContextResult  Context = "result"  // Input blurred, browsing panels
	ContextHistory Context = "history" // History modal
)

// Contexts lists every context in lookup order
var Contexts = []Context{ContextGlobal, ContextInput, ContextResult, ContextHistory}

const (
	// Global actions
	ActionQuitForce   Action = "quit_force"
	ActionNextTab     Action = "next_tab"
	ActionPrevTab     Action = "prev_tab"
	ActionOpenHistory Action = "open_history"
	ActionCancel      Action = "cancel_request"

	// Input actions
	ActionAnalyze     Action = "analyze"
	ActionToggleFocus Action = "toggle_focus"
	ActionRecentPrev  Action = "recent_prev"
	ActionRecentNext  Action = "recent_next"

	// Result actions
	ActionQuit         Action = "quit"
	ActionTabOverview  Action = "tab_overview"
	ActionTabFormatted Action = "tab_formatted"
	ActionTabRaw       Action = "tab_raw"
	ActionCopy         Action = "copy"
	ActionScrollUp     Action = "scroll_up"
	ActionScrollDown   Action = "scroll_down"
	ActionPageUp       Action = "page_up"
	ActionPageDown     Action = "page_down"
	ActionToggleHelp   Action = "toggle_help"

	// History actions
	ActionCloseModal    Action = "close_modal"
	ActionNavigateUp    Action = "navigate_up"
	ActionNavigateDown  Action = "navigate_down"
	ActionHistoryOpen   Action = "history_open"
	ActionHistoryDelete Action = "history_delete"
)
