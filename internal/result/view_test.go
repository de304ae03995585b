package result

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/studiowebux/pagescope/internal/types"
)

func decodeResponse(t *testing.T, body string) *types.AnalyzeResponse {
	t.Helper()
	var resp types.AnalyzeResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return &resp
}

func TestBuild_StructuredResponse(t *testing.T) {
	resp := decodeResponse(t, `{"url":"http://a","analysis":{"文章标题":"T","主要话题和关键词":"a,b, c"}}`)

	v := Build(resp)

	if v.Failed() {
		t.Fatalf("unexpected error: %s", v.Err)
	}
	if v.URL != "http://a" {
		t.Errorf("URL = %q", v.URL)
	}
	if v.Title != "T" {
		t.Errorf("Title = %q, want T", v.Title)
	}
	if !strings.Contains(v.Formatted, `"文章标题": "T"`) {
		t.Errorf("Formatted missing title:\n%s", v.Formatted)
	}
	for _, kw := range []string{`"a"`, `"b"`, `"c"`} {
		if !strings.Contains(v.Formatted, "    "+kw) {
			t.Errorf("Formatted missing keyword %s:\n%s", kw, v.Formatted)
		}
	}
	if v.RawContent != PlaceholderNoContent {
		t.Errorf("RawContent = %q, want placeholder", v.RawContent)
	}
}

func TestBuild_RawAnalysis(t *testing.T) {
	v := Build(decodeResponse(t, `{"analysis":{"raw_analysis":"plain text"}}`))

	if v.Formatted != "plain text" {
		t.Errorf("Formatted = %q, want %q", v.Formatted, "plain text")
	}
	if v.Title != PlaceholderRawTitle {
		t.Errorf("Title = %q, want %q", v.Title, PlaceholderRawTitle)
	}
	if v.Shape != types.ShapeRaw {
		t.Errorf("Shape = %v, want raw", v.Shape)
	}
}

func TestBuild_RawAnalysisKeepsExtractedTitle(t *testing.T) {
	v := Build(decodeResponse(t, `{"analysis":{"raw_analysis":"x","文章标题":"Real"}}`))
	if v.Title != "Real" {
		t.Errorf("Title = %q, want Real", v.Title)
	}
	if v.Formatted != "x" {
		t.Errorf("Formatted = %q, want raw text", v.Formatted)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"top-level error verbatim", `{"error":"bad url"}`, "bad url"},
		{"analysis error prefixed", `{"url":"http://a","analysis":{"error":"quota"}}`, "分析出错: quota"},
		{"analysis error wins over fields", `{"analysis":{"error":"e","文章标题":"T"}}`, "分析出错: e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Build(decodeResponse(t, tt.body))
			if !v.Failed() {
				t.Fatal("expected failed view")
			}
			if v.Err != tt.wantErr {
				t.Errorf("Err = %q, want %q", v.Err, tt.wantErr)
			}
			if v.Formatted != "" {
				t.Errorf("Formatted should be empty on error, got %q", v.Formatted)
			}
		})
	}
}

func TestBuild_AnalysisErrorStillEchoesURL(t *testing.T) {
	v := Build(decodeResponse(t, `{"url":"http://a","analysis":{"error":"quota"}}`))
	if v.URL != "http://a" {
		t.Errorf("URL = %q, want echoed url", v.URL)
	}
}

func TestBuild_TitlePlaceholders(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"analysis":{"作者信息":"A"}}`, PlaceholderNoTitle},
		{`{}`, PlaceholderNoTitle},
		{`{"analysis":{"raw_analysis":"r"}}`, PlaceholderRawTitle},
		{`{"analysis":{"文章标题":""}}`, PlaceholderNoTitle},
	}

	for _, tt := range tests {
		if got := Build(decodeResponse(t, tt.body)).Title; got != tt.want {
			t.Errorf("Build(%s).Title = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestBuild_RawContent(t *testing.T) {
	v := Build(decodeResponse(t, `{"raw_content":"# Heading\nbody"}`))
	if v.RawContent != "# Heading\nbody" {
		t.Errorf("RawContent = %q", v.RawContent)
	}

	v = Build(decodeResponse(t, `{"raw_content":""}`))
	if v.RawContent != PlaceholderNoContent {
		t.Errorf("RawContent = %q, want placeholder", v.RawContent)
	}
}

func TestBuild_Overview(t *testing.T) {
	v := Build(decodeResponse(t, `{"analysis":{"作者信息":"Ann","主要话题和关键词":["x"," y "]}}`))

	want := map[string]string{
		"标题":  PlaceholderMissing,
		"作者":  "Ann",
		"日期":  PlaceholderMissing,
		"来源":  PlaceholderMissing,
		"关键词": "x, y",
		"摘要":  PlaceholderMissing,
	}
	if len(v.Overview) != len(want) {
		t.Fatalf("Overview has %d fields, want %d", len(v.Overview), len(want))
	}
	for _, f := range v.Overview {
		if f.Value != want[f.Label] {
			t.Errorf("Overview[%s] = %q, want %q", f.Label, f.Value, want[f.Label])
		}
	}
}

func TestBuild_NilResponse(t *testing.T) {
	if v := Build(nil); !v.Failed() {
		t.Error("nil response should produce an error view")
	}
}

func TestReport_Sections(t *testing.T) {
	v := Build(decodeResponse(t, `{"url":"http://a","raw_content":"body","analysis":{"文章标题":"T","文章摘要":"S"}}`))
	out := Report(v)

	for _, want := range []string{"网址: http://a", "标题: T", "摘要:\nS", "原始爬取内容", "body"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Error(t *testing.T) {
	out := Report(Build(decodeResponse(t, `{"url":"http://a","analysis":{"error":"quota"}}`)))
	if !strings.Contains(out, "分析出错: quota") {
		t.Errorf("Report missing error:\n%s", out)
	}
	if strings.Contains(out, "原始爬取内容") {
		t.Errorf("Report should stop after error:\n%s", out)
	}
}

func TestBuild_FalsyFieldValues(t *testing.T) {
	v := Build(decodeResponse(t, `{"analysis":{"文章标题":0,"作者信息":false,"主要话题和关键词":0,"文章摘要":"S"}}`))

	if v.Title != PlaceholderNoTitle {
		t.Errorf("Title = %q, want placeholder", v.Title)
	}
	want := "{\n  \"文章摘要\": \"S\"\n}"
	if v.Formatted != want {
		t.Errorf("Formatted =\n%s\nwant\n%s", v.Formatted, want)
	}
}

func TestBuild_EmptyArrayTitleIsPresent(t *testing.T) {
	v := Build(decodeResponse(t, `{"analysis":{"文章标题":[]}}`))

	if v.Title != "" {
		t.Errorf("Title = %q, want empty", v.Title)
	}
	if v.Formatted != "{\n  \"文章标题\": \"\"\n}" {
		t.Errorf("Formatted =\n%s", v.Formatted)
	}
}
