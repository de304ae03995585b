package result

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/studiowebux/pagescope/internal/types"
)

func TestFormat_TitleAndKeywords(t *testing.T) {
	a := &types.Analysis{
		Title:    types.NewText("T"),
		Keywords: types.KeywordsFromString("a,b, c"),
	}

	want := "{\n" +
		"  \"文章标题\": \"T\",\n" +
		"  \"主要话题和关键词\": [\n" +
		"    \"a\",\n" +
		"    \"b\",\n" +
		"    \"c\"\n" +
		"  ]\n" +
		"}"

	if got := Format(a); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormat_FieldOrder(t *testing.T) {
	a := &types.Analysis{
		Summary:     types.NewText("S"),
		Source:      types.NewText("Src"),
		PublishDate: types.NewText("2024-01-01"),
		Author:      types.NewText("A"),
		Title:       types.NewText("T"),
		Keywords:    types.KeywordsFromList("k"),
	}

	got := Format(a)
	keys := []string{types.KeyTitle, types.KeyAuthor, types.KeyPublishDate, types.KeySource, types.KeyKeywords, types.KeySummary}
	last := -1
	for _, key := range keys {
		idx := strings.Index(got, `"`+key+`"`)
		if idx < 0 {
			t.Fatalf("key %s missing from output:\n%s", key, got)
		}
		if idx <= last {
			t.Errorf("key %s out of order in output:\n%s", key, got)
		}
		last = idx
	}
	if !strings.HasSuffix(got, "  \"文章摘要\": \"S\"\n}") {
		t.Errorf("summary should be the last field without comma:\n%s", got)
	}
}

func TestFormat_EmptyAnalysis(t *testing.T) {
	if got := Format(&types.Analysis{}); got != "{\n}" {
		t.Errorf("Format(empty) = %q, want %q", got, "{\n}")
	}
	if got := Format(nil); got != "{\n}" {
		t.Errorf("Format(nil) = %q, want %q", got, "{\n}")
	}
}

func TestFormat_KeywordEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		keywords *types.Keywords
		want     string
	}{
		{
			name:     "trailing blank item drops its comma",
			keywords: types.KeywordsFromString("a,b,"),
			want:     "{\n  \"主要话题和关键词\": [\n    \"a\",\n    \"b\"\n  ]\n}",
		},
		{
			name:     "all blank",
			keywords: types.KeywordsFromString(" , ,"),
			want:     "{\n  \"主要话题和关键词\": []\n}",
		},
		{
			name:     "empty list",
			keywords: types.KeywordsFromList(),
			want:     "{\n  \"主要话题和关键词\": []\n}",
		},
		{
			name:     "chinese separators",
			keywords: types.KeywordsFromString("并发，调度、内存"),
			want:     "{\n  \"主要话题和关键词\": [\n    \"并发\",\n    \"调度\",\n    \"内存\"\n  ]\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(&types.Analysis{Keywords: tt.keywords})
			if got != tt.want {
				t.Errorf("Format() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

// Every subset of the six structured fields must yield well-placed commas:
// no comma before the closing brace and exactly one per non-final field.
func TestFormat_CommaPlacementForEverySubset(t *testing.T) {
	for mask := 0; mask < 1<<6; mask++ {
		a := &types.Analysis{}
		present := 0
		if mask&1 != 0 {
			a.Title = types.NewText("title")
			present++
		}
		if mask&2 != 0 {
			a.Author = types.NewText("author")
			present++
		}
		if mask&4 != 0 {
			a.PublishDate = types.NewText("date")
			present++
		}
		if mask&8 != 0 {
			a.Source = types.NewText("source")
			present++
		}
		if mask&16 != 0 {
			a.Keywords = types.KeywordsFromString("x, y")
			present++
		}
		if mask&32 != 0 {
			a.Summary = types.NewText("summary")
			present++
		}

		got := Format(a)

		if strings.Contains(got, ",\n}") {
			t.Errorf("mask %06b: trailing comma before closing brace:\n%s", mask, got)
		}
		if strings.Contains(got, ",\n  ]") {
			t.Errorf("mask %06b: trailing comma in keyword list:\n%s", mask, got)
		}

		lines := strings.Split(got, "\n")
		fieldLines := 0
		for i, line := range lines {
			if !strings.HasPrefix(line, "  \"") {
				continue
			}
			fieldLines++
			isLast := fieldLines == present
			closesField := !strings.HasSuffix(strings.TrimSuffix(line, ","), "[")
			if !closesField {
				// keyword list: the comma belongs to its closing bracket line
				for j := i + 1; j < len(lines); j++ {
					if strings.HasPrefix(lines[j], "  ]") {
						line = lines[j]
						break
					}
				}
			}
			hasComma := strings.HasSuffix(line, ",")
			if isLast && hasComma {
				t.Errorf("mask %06b: last field ends with comma: %q", mask, line)
			}
			if !isLast && !hasComma {
				t.Errorf("mask %06b: non-final field missing comma: %q", mask, line)
			}
		}
		if fieldLines != present {
			t.Errorf("mask %06b: got %d fields, want %d:\n%s", mask, fieldLines, present, got)
		}

		// With string-safe values the block is valid JSON
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(got), &decoded); err != nil {
			t.Errorf("mask %06b: output is not parseable: %v\n%s", mask, err, got)
		}
	}
}
