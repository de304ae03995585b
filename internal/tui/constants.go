package tui

// UI Layout Constants

const (
	// Lines used around the active panel: title, input, tab bar, borders,
	// status bar and short help
	MainChromeLines = 9

	// Horizontal space used by panel borders and padding
	PanelWidthMargin = 4

	// Minimum panel height
	MinPanelHeight = 3

	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6
	ModalHeightMargin = 3

	// History list rows reserved for title, search, footer and borders
	HistoryChromeLines = 8

	// History entries loaded into the modal
	HistoryLoadLimit = 500

	// Status messages longer than this are truncated in the footer
	StatusMaxWidth = 100
)
