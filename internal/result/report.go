package result

import (
	"fmt"
	"strings"

	"github.com/studiowebux/pagescope/internal/types"
)

const ruleWidth = 80

// Report renders a view as a sectioned plain-text report for terminal output
func Report(v View) string {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "%s\n网页内容分析结果\n%s\n", rule, rule)
	fmt.Fprintf(&b, "网址: %s\n", v.URL)

	if v.Failed() {
		fmt.Fprintf(&b, "\n%s\n", v.Err)
		return b.String()
	}

	if v.Shape == types.ShapeRaw {
		fmt.Fprintf(&b, "\n%s:\n%s\n", v.Title, v.Formatted)
	} else {
		b.WriteString("\n")
		for _, f := range v.Overview {
			if f.Label == "摘要" {
				fmt.Fprintf(&b, "\n摘要:\n%s\n", f.Value)
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
		}
	}

	fmt.Fprintf(&b, "\n%s\n原始爬取内容\n%s\n", rule, rule)
	b.WriteString(v.RawContent)
	fmt.Fprintf(&b, "\n%s\n", rule)

	return b.String()
}
