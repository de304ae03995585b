package session

import (
	"context"
	"strings"
	"sync"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/types"
)

// Dispatch describes a request the caller must send after a trigger
type Dispatch struct {
	Seq uint64
	URL string
	Ctx context.Context
}

// Session drives the Idle/Loading/Result/Error state machine.
// Every dispatch gets a new sequence number and only the latest one may
// complete; a new trigger cancels the request still in flight.
type Session struct {
	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc // nil when no request is in flight
	target string             // URL of the request in flight
}

// New creates an idle session
func New() *Session {
	return &Session{}
}

// State returns a snapshot of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seq returns the sequence number of the latest dispatch
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Trigger validates input and, when it is not blank, moves to Loading and
// returns the request to send. Blank input moves to Error and returns false;
// a request already in flight keeps running and may still complete.
func (s *Session) Trigger(parent context.Context, input string) (Dispatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := strings.TrimSpace(input)
	if target == "" {
		s.state = State{Phase: PhaseError, Err: result.MissingURLMessage}
		return Dispatch{}, false
	}

	s.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.target = target
	s.state = State{Phase: PhaseLoading, URL: target}

	return Dispatch{Seq: s.seq, URL: target, Ctx: ctx}, true
}

// Complete applies the outcome of dispatch seq. Outcomes of superseded
// dispatches are dropped and Complete returns false.
func (s *Session) Complete(seq uint64, res *executor.Result, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || s.cancel == nil {
		return false
	}

	s.cancel()
	s.cancel = nil

	target := s.target
	switch {
	case err != nil:
		s.state = State{Phase: PhaseError, URL: target, Err: result.RequestErrorPrefix + err.Error()}
	case res == nil:
		s.state = State{Phase: PhaseError, URL: target, Err: result.RequestErrorPrefix + "empty response"}
	default:
		s.state = stateFor(target, res.Response)
	}
	return true
}

// Show displays a stored response without a network call. Any request in
// flight is superseded.
func (s *Session) Show(target string, resp *types.AnalyzeResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.state = stateFor(target, resp)
}

// ShowError displays a stored failure message. Any request in flight is
// superseded.
func (s *Session) ShowError(target, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.state = State{Phase: PhaseError, URL: target, Err: msg}
}

// Cancel abandons the request in flight and returns to Idle
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return false
	}
	s.stopLocked()
	s.state = State{Phase: PhaseIdle, URL: s.target}
	return true
}

// stopLocked cancels the in-flight request and invalidates its sequence
func (s *Session) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

func stateFor(target string, resp *types.AnalyzeResponse) State {
	view := result.Build(resp)
	if view.Failed() {
		return State{Phase: PhaseError, URL: target, View: view, Err: view.Err}
	}
	return State{Phase: PhaseResult, URL: target, View: view}
}
