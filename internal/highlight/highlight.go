// Package highlight colors result text for the terminal.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

const (
	formatter = "terminal256"
	style     = "monokai"
)

// JSON colors the formatted analysis block. The block is JSON-shaped, so
// the JSON lexer fits even though values are not escaped. On any lexer
// error the text is returned unchanged.
func JSON(source string) string {
	return Code(source, "json")
}

// Code colors source with the named chroma lexer
func Code(source, lexer string) string {
	if source == "" {
		return source
	}

	var sb strings.Builder
	if err := quick.Highlight(&sb, source, lexer, formatter, style); err != nil {
		return source
	}
	return sb.String()
}

// Markdown renders markdown for a terminal of the given width. It falls
// back to the raw text when rendering fails.
func Markdown(source string, width int) string {
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}

	rendered, err := r.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(rendered, "\n")
}
