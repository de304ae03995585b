package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/types"
)

func ok(resp *types.AnalyzeResponse) *executor.Result {
	return &executor.Result{Response: resp, Status: 200}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		phase Phase
		want  Regions
	}{
		{PhaseIdle, Regions{}},
		{PhaseLoading, Regions{Loading: true}},
		{PhaseResult, Regions{Result: true}},
		{PhaseError, Regions{Error: true}},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			got := Visibility(State{Phase: tt.phase})
			if got != tt.want {
				t.Errorf("Visibility(%s) = %+v, want %+v", tt.phase, got, tt.want)
			}
			if got.Result && got.Error {
				t.Error("result and error visible together")
			}
		})
	}
}

func TestTabs_ExactlyOneActive(t *testing.T) {
	for _, first := range TabOrder {
		for _, second := range TabOrder {
			tabs := NewTabs()
			tabs.Activate(first)
			tabs.Activate(second)

			active := 0
			for _, tab := range TabOrder {
				if tabs.IsActive(tab) {
					active++
				}
			}
			if active != 1 {
				t.Fatalf("%s then %s: %d active tabs", first, second, active)
			}
			if first != second && tabs.IsActive(first) {
				t.Errorf("%s still active after activating %s", first, second)
			}
		}
	}
}

func TestTabs_UnknownAndCycle(t *testing.T) {
	tabs := NewTabs()
	if tabs.Active() != TabOverview {
		t.Fatalf("initial tab = %s", tabs.Active())
	}

	tabs.Activate(TabRaw)
	if tabs.Activate("nope") {
		t.Error("unknown tab activated")
	}
	if tabs.Active() != TabRaw {
		t.Errorf("unknown tab changed state to %s", tabs.Active())
	}

	tabs.Next()
	if tabs.Active() != TabOverview {
		t.Errorf("Next wrap = %s", tabs.Active())
	}
	tabs.Prev()
	if tabs.Active() != TabRaw {
		t.Errorf("Prev wrap = %s", tabs.Active())
	}
	if tabs.ActivateIndex(5) || tabs.Active() != TabRaw {
		t.Error("out of range index changed state")
	}
}

func TestSession_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		s := New()
		if _, dispatched := s.Trigger(context.Background(), input); dispatched {
			t.Fatalf("Trigger(%q) dispatched a request", input)
		}
		st := s.State()
		if st.Phase != PhaseError || st.Err != result.MissingURLMessage {
			t.Errorf("Trigger(%q) state = %+v", input, st)
		}
	}
}

func TestSession_EmptyInputKeepsRequestInFlight(t *testing.T) {
	s := New()
	d, _ := s.Trigger(context.Background(), "http://a")

	if _, dispatched := s.Trigger(context.Background(), " "); dispatched {
		t.Fatal("blank input dispatched a request")
	}
	if d.Ctx.Err() != nil {
		t.Fatal("blank input cancelled the request in flight")
	}
	if st := s.State(); st.Phase != PhaseError || st.Err != result.MissingURLMessage {
		t.Fatalf("state = %+v", st)
	}

	resp := &types.AnalyzeResponse{URL: "http://a", Analysis: &types.Analysis{Title: types.NewText("T")}}
	if !s.Complete(d.Seq, ok(resp), nil) {
		t.Fatal("completion of the running request dropped")
	}
	st := s.State()
	if st.Phase != PhaseResult || st.URL != "http://a" || st.View.Title != "T" {
		t.Errorf("state = %+v", st)
	}
	if s.Complete(d.Seq, ok(resp), nil) {
		t.Error("second completion of the same request applied")
	}
}

func TestSession_Lifecycle(t *testing.T) {
	s := New()
	d, dispatched := s.Trigger(context.Background(), "  http://a ")
	if !dispatched || d.URL != "http://a" {
		t.Fatalf("dispatch = %+v, %v", d, dispatched)
	}
	if s.State().Phase != PhaseLoading {
		t.Fatalf("phase = %s", s.State().Phase)
	}

	resp := &types.AnalyzeResponse{URL: "http://a", Analysis: &types.Analysis{Title: types.NewText("T")}}
	if !s.Complete(d.Seq, ok(resp), nil) {
		t.Fatal("latest completion dropped")
	}
	st := s.State()
	if st.Phase != PhaseResult || st.View.Title != "T" {
		t.Errorf("state = %+v", st)
	}
	if d.Ctx.Err() == nil {
		t.Error("request context not released after completion")
	}
}

func TestSession_ErrorOutcomes(t *testing.T) {
	tests := []struct {
		name string
		res  *executor.Result
		err  error
		want string
	}{
		{"transport", nil, errors.New("connection refused"), "请求失败: connection refused"},
		{"top level", ok(&types.AnalyzeResponse{Error: "bad url"}), nil, "bad url"},
		{"analysis", ok(&types.AnalyzeResponse{Analysis: &types.Analysis{Error: types.NewText("quota")}}), nil, "分析出错: quota"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			d, _ := s.Trigger(context.Background(), "http://a")
			s.Complete(d.Seq, tt.res, tt.err)

			st := s.State()
			if st.Phase != PhaseError || st.Err != tt.want {
				t.Errorf("state = %+v, want error %q", st, tt.want)
			}
			if Visibility(st).Result {
				t.Error("result panel visible on error")
			}
		})
	}
}

func TestSession_StaleCompletionIgnored(t *testing.T) {
	s := New()
	first, _ := s.Trigger(context.Background(), "http://first")
	second, _ := s.Trigger(context.Background(), "http://second")

	if first.Ctx.Err() == nil {
		t.Error("first request not cancelled by second trigger")
	}

	firstResp := ok(&types.AnalyzeResponse{Analysis: &types.Analysis{Title: types.NewText("first")}})
	if s.Complete(first.Seq, firstResp, nil) {
		t.Fatal("stale completion applied")
	}
	if s.State().Phase != PhaseLoading {
		t.Fatalf("stale completion changed phase to %s", s.State().Phase)
	}

	s.Complete(second.Seq, ok(&types.AnalyzeResponse{Analysis: &types.Analysis{Title: types.NewText("second")}}), nil)
	if got := s.State().View.Title; got != "second" {
		t.Errorf("title = %q", got)
	}

	// a late arrival after the winner must not overwrite it
	if s.Complete(first.Seq, nil, context.Canceled) {
		t.Error("late stale completion applied")
	}
	if s.State().Phase != PhaseResult {
		t.Errorf("phase = %s", s.State().Phase)
	}
}

func TestSession_CancelAndShow(t *testing.T) {
	s := New()
	d, _ := s.Trigger(context.Background(), "http://a")
	if !s.Cancel() {
		t.Fatal("Cancel while loading returned false")
	}
	if s.State().Phase != PhaseIdle || d.Ctx.Err() == nil {
		t.Errorf("state after cancel = %+v", s.State())
	}
	if s.Complete(d.Seq, nil, context.Canceled) {
		t.Error("cancelled completion applied")
	}

	s.Show("http://b", &types.AnalyzeResponse{Analysis: &types.Analysis{RawAnalysis: types.NewText("plain text")}})
	st := s.State()
	if st.Phase != PhaseResult || st.View.Formatted != "plain text" || st.View.Title != result.PlaceholderRawTitle {
		t.Errorf("Show state = %+v", st)
	}
}

func TestRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	r, err := LoadRecent(path)
	if err != nil {
		t.Fatalf("LoadRecent() error = %v", err)
	}
	for i := 0; i < 12; i++ {
		if err := r.Add("http://" + string(rune('a'+i))); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	r.Add("http://c")
	r.Add("  ")

	reloaded, err := LoadRecent(path)
	if err != nil {
		t.Fatalf("LoadRecent() error = %v", err)
	}
	got := reloaded.List()
	if len(got) != maxRecentURLs {
		t.Fatalf("len = %d, want %d", len(got), maxRecentURLs)
	}
	if got[0] != "http://c" || got[1] != "http://l" {
		t.Errorf("order = %v", got)
	}
}

func TestSession_ShowError(t *testing.T) {
	s := New()
	d, _ := s.Trigger(context.Background(), "http://a")
	s.ShowError("http://old", "请求失败: refused")

	st := s.State()
	if st.Phase != PhaseError || st.Err != "请求失败: refused" || st.URL != "http://old" {
		t.Errorf("state = %+v", st)
	}
	if s.Complete(d.Seq, nil, errors.New("late")) {
		t.Error("superseded completion applied")
	}
}
