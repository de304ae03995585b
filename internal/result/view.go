package result

import (
	"strings"

	"github.com/studiowebux/pagescope/internal/types"
)

// Fixed display strings
const (
	PlaceholderRawTitle  = "分析结果"
	PlaceholderNoTitle   = "未提取到标题"
	PlaceholderNoContent = "未获取到原始内容"
	PlaceholderMissing   = "未提取"

	AnalysisErrorPrefix = "分析出错: "
	RequestErrorPrefix  = "请求失败: "
	MissingURLMessage   = "请输入要分析的网址"
)

// Field is a labelled overview value
type Field struct {
	Label string
	Value string
}

// View holds every display region derived from one response.
// When Err is set the response is an error and the other regions are not
// meant to be shown.
type View struct {
	URL        string
	Title      string
	Formatted  string
	RawContent string
	Shape      types.Shape
	Overview   []Field
	Keywords   []string
	Err        string
}

// Failed reports whether the view represents an error
func (v View) Failed() bool {
	return v.Err != ""
}

// Build derives the display regions from a response. A top-level error is
// surfaced verbatim; an analysis-level error is prefixed.
func Build(resp *types.AnalyzeResponse) View {
	if resp == nil {
		return View{Err: RequestErrorPrefix + "empty response"}
	}
	if resp.Error != "" {
		return View{Err: resp.Error}
	}

	analysis := resp.Analysis
	if analysis == nil {
		analysis = &types.Analysis{}
	}

	v := View{
		URL:   resp.URL,
		Shape: analysis.Shape(),
	}

	if v.Shape == types.ShapeError {
		v.Err = AnalysisErrorPrefix + analysis.Error.String()
		return v
	}

	switch {
	case analysis.Title.Present():
		v.Title = analysis.Title.String()
	case v.Shape == types.ShapeRaw:
		v.Title = PlaceholderRawTitle
	default:
		v.Title = PlaceholderNoTitle
	}

	if v.Shape == types.ShapeRaw {
		v.Formatted = analysis.RawAnalysis.String()
	} else {
		v.Formatted = Format(analysis)
	}

	v.RawContent = resp.RawContent
	if v.RawContent == "" {
		v.RawContent = PlaceholderNoContent
	}

	if analysis.Keywords.Present() {
		v.Keywords = analysis.Keywords.Entries()
	}
	v.Overview = []Field{
		{Label: "标题", Value: orMissing(analysis.Title)},
		{Label: "作者", Value: orMissing(analysis.Author)},
		{Label: "日期", Value: orMissing(analysis.PublishDate)},
		{Label: "来源", Value: orMissing(analysis.Source)},
		{Label: "关键词", Value: keywordLine(v.Keywords, analysis.Keywords.Present())},
		{Label: "摘要", Value: orMissing(analysis.Summary)},
	}

	return v
}

func orMissing(t types.Text) string {
	if t.Present() {
		return t.String()
	}
	return PlaceholderMissing
}

func keywordLine(entries []string, present bool) string {
	if !present || len(entries) == 0 {
		return PlaceholderMissing
	}
	return strings.Join(entries, ", ")
}
