package session

import "github.com/studiowebux/pagescope/internal/result"

// Phase is where the analysis session currently is
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResult
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseResult:
		return "result"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is the observable state of a session
type State struct {
	Phase Phase
	URL   string      // input of the latest trigger
	View  result.View // set in PhaseResult
	Err   string      // set in PhaseError
}

// Regions lists the display regions that are shown
type Regions struct {
	Loading bool
	Result  bool
	Error   bool
}

// Visibility derives the visible regions from a state.
// Result and Error never show together and both hide the loading indicator.
func Visibility(s State) Regions {
	switch s.Phase {
	case PhaseLoading:
		return Regions{Loading: true}
	case PhaseResult:
		return Regions{Result: true}
	case PhaseError:
		return Regions{Error: true}
	default:
		return Regions{}
	}
}

// Tab names a result panel
type Tab string

const (
	TabOverview  Tab = "overview"
	TabFormatted Tab = "formatted"
	TabRaw       Tab = "raw"
)

// TabOrder is the display order of the tabs
var TabOrder = []Tab{TabOverview, TabFormatted, TabRaw}

// Title returns the tab button label
func (t Tab) Title() string {
	switch t {
	case TabOverview:
		return "概览"
	case TabFormatted:
		return "结构化结果"
	case TabRaw:
		return "原始内容"
	}
	return string(t)
}

// Tabs tracks the single active tab. A tab button and its panel share
// the same index, so activating one always activates the other.
type Tabs struct {
	active int
}

// NewTabs returns tabs with the first tab active
func NewTabs() Tabs {
	return Tabs{}
}

// Active returns the active tab
func (t Tabs) Active() Tab {
	return TabOrder[t.active]
}

// ActiveIndex returns the position of the active tab
func (t Tabs) ActiveIndex() int {
	return t.active
}

// IsActive reports whether name is the active tab
func (t Tabs) IsActive(name Tab) bool {
	return t.Active() == name
}

// Activate makes name the active tab. Unknown names leave the tabs
// unchanged and return false.
func (t *Tabs) Activate(name Tab) bool {
	for i, tab := range TabOrder {
		if tab == name {
			t.active = i
			return true
		}
	}
	return false
}

// ActivateIndex activates the tab at position i
func (t *Tabs) ActivateIndex(i int) bool {
	if i < 0 || i >= len(TabOrder) {
		return false
	}
	t.active = i
	return true
}

// Next activates the following tab, wrapping around
func (t *Tabs) Next() {
	t.active = (t.active + 1) % len(TabOrder)
}

// Prev activates the preceding tab, wrapping around
func (t *Tabs) Prev() {
	t.active = (t.active - 1 + len(TabOrder)) % len(TabOrder)
}
