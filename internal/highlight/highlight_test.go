package highlight

import (
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	src := "{\n  \"文章标题\": \"T\"\n}"
	got := JSON(src)

	if !strings.Contains(got, `"T"`) {
		t.Errorf("JSON() lost the value: %q", got)
	}
	if got == src {
		t.Error("JSON() returned uncolored text")
	}
	if JSON("") != "" {
		t.Error("JSON(\"\") should be empty")
	}
}

func TestCode_UnknownLexerFallsBack(t *testing.T) {
	if got := Code("plain", "no-such-lexer"); !strings.Contains(got, "plain") {
		t.Errorf("Code() = %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown("# Heading\n\nbody text", 5)
	if !strings.Contains(got, "Heading") || !strings.Contains(got, "body") {
		t.Errorf("Markdown() = %q", got)
	}
}
