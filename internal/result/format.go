package result

import (
	"strings"

	"github.com/studiowebux/pagescope/internal/types"
)

const (
	fieldIndent   = "  "
	keywordIndent = "    "
)

// Format renders a structured analysis as an indented JSON-like block.
//
// Fields appear in a fixed order (title, author, publish date, source,
// keywords, summary) and only when present. Values are written verbatim
// without escaping, so the block is for display only. A line carries a
// trailing comma only when another field follows it.
func Format(a *types.Analysis) string {
	var fields []string

	if a != nil {
		fields = appendText(fields, types.KeyTitle, a.Title)
		fields = appendText(fields, types.KeyAuthor, a.Author)
		fields = appendText(fields, types.KeyPublishDate, a.PublishDate)
		fields = appendText(fields, types.KeySource, a.Source)
		if a.Keywords.Present() {
			fields = append(fields, formatKeywords(a.Keywords.Entries()))
		}
		fields = appendText(fields, types.KeySummary, a.Summary)
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, field := range fields {
		b.WriteString(field)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func appendText(fields []string, key string, value types.Text) []string {
	if !value.Present() {
		return fields
	}
	return append(fields, fieldIndent+quote(key)+": "+quote(value.String()))
}

func formatKeywords(entries []string) string {
	head := fieldIndent + quote(types.KeyKeywords) + ": ["
	if len(entries) == 0 {
		return head + "]"
	}

	lines := make([]string, len(entries))
	for i, kw := range entries {
		lines[i] = keywordIndent + quote(kw)
	}
	return head + "\n" + strings.Join(lines, ",\n") + "\n" + fieldIndent + "]"
}

func quote(s string) string {
	return `"` + s + `"`
}
