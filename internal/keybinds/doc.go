/*
Package keybinds maps keys to TUI actions per context.

Contexts:
  - global: available everywhere unless a specific context rebinds the key
  - input: the URL field has focus; printable keys go to the field
  - result: the field is blurred and the panels are browsed
  - history: the history modal is open; printable keys go to its search

Users override defaults in ~/.pagescope/keybinds.json. Each section maps an
action to a comma-separated key list, and an action listed there loses its
default keys:

	{
	  "version": "1.0",
	  "result": {"copy": "y,c"}
	}

ctrl+c stays bound to quit_force; rebinding it is rejected.
*/
package keybinds
