package types

import "time"

// Structured analysis keys as returned by the analysis service
const (
	KeyTitle       = "文章标题"
	KeyAuthor      = "作者信息"
	KeyPublishDate = "发布日期"
	KeySource      = "来源网站"
	KeyKeywords    = "主要话题和关键词"
	KeySummary     = "文章摘要"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	URL string `json:"url" yaml:"url"`
}

// AnalyzeResponse is the body returned by POST /analyze.
// Every field is optional; a backend failure only sets Error.
type AnalyzeResponse struct {
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	URL        string    `json:"url,omitempty" yaml:"url,omitempty"`
	RawContent string    `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`
	Analysis   *Analysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// Shape identifies which of the analysis forms a response carries
type Shape int

const (
	ShapeStructured Shape = iota
	ShapeError
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeError:
		return "error"
	case ShapeRaw:
		return "raw"
	default:
		return "structured"
	}
}

// Analysis is the analysis object nested in a response
type Analysis struct {
	Error       Text `json:"error,omitzero" yaml:"error,omitempty"`
	RawAnalysis Text `json:"raw_analysis,omitzero" yaml:"raw_analysis,omitempty"`

	Title       Text      `json:"文章标题,omitzero" yaml:"文章标题,omitempty"`
	Author      Text      `json:"作者信息,omitzero" yaml:"作者信息,omitempty"`
	PublishDate Text      `json:"发布日期,omitzero" yaml:"发布日期,omitempty"`
	Source      Text      `json:"来源网站,omitzero" yaml:"来源网站,omitempty"`
	Keywords    *Keywords `json:"主要话题和关键词,omitempty" yaml:"主要话题和关键词,omitempty"`
	Summary     Text      `json:"文章摘要,omitzero" yaml:"文章摘要,omitempty"`
}

// Shape returns the analysis form. An error wins over raw text, and raw
// text wins over structured fields.
func (a *Analysis) Shape() Shape {
	if a == nil {
		return ShapeStructured
	}
	if a.Error.Present() {
		return ShapeError
	}
	if a.RawAnalysis.Present() {
		return ShapeRaw
	}
	return ShapeStructured
}

// HistoryEntry is one stored analysis
type HistoryEntry struct {
	ID           int64     `json:"id" yaml:"id"`
	RequestID    string    `json:"requestId" yaml:"requestId"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Server       string    `json:"server" yaml:"server"`
	URL          string    `json:"url" yaml:"url"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Status       string    `json:"status" yaml:"status"` // result or error
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
	ResponseJSON string    `json:"response,omitempty" yaml:"response,omitempty"`
	Duration     int64     `json:"duration" yaml:"duration"` // milliseconds
}

// History entry statuses
const (
	StatusResult = "result"
	StatusError  = "error"
)
