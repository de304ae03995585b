/*
Package tui implements the terminal user interface for pagescope.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: URL input, result panels and the analysis session
  - Update: Processes key presses and request completions
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, messages and Update
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Side effects (analyze requests, clipboard, history)
  - render.go: View rendering for the main screen
  - history_state.go, history_modal.go: History browser

# State

The analysis lifecycle lives in session.Session. The renderer only reads
session.Visibility to decide which regions to draw, so the loading
indicator, result panels and error box can never disagree.

Requests run as tea.Cmd goroutines. Their completion message carries the
dispatch sequence number; completions of superseded requests are dropped.
*/
package tui
