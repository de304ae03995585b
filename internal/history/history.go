package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/types"
)

// NewEntry records the outcome of one analyze call
func NewEntry(server, target string, res *executor.Result, callErr error) *types.HistoryEntry {
	entry := &types.HistoryEntry{
		Timestamp: time.Now(),
		Server:    server,
		URL:       target,
	}

	if callErr == nil && res == nil {
		callErr = errors.New("empty response")
	}
	if callErr != nil {
		entry.RequestID = uuid.NewString()
		entry.Status = types.StatusError
		entry.Error = result.RequestErrorPrefix + callErr.Error()
		return entry
	}

	entry.RequestID = res.RequestID
	entry.Duration = res.Duration
	entry.ResponseJSON = string(res.Body)

	view := result.Build(res.Response)
	if view.Failed() {
		entry.Status = types.StatusError
		entry.Error = view.Err
		return entry
	}

	entry.Status = types.StatusResult
	entry.Title = view.Title
	return entry
}

// Response decodes the stored response body. Entries recorded after a
// transport failure have none.
func Response(entry *types.HistoryEntry) (*types.AnalyzeResponse, error) {
	if strings.TrimSpace(entry.ResponseJSON) == "" {
		return nil, errors.New("no stored response")
	}

	var resp types.AnalyzeResponse
	if err := json.Unmarshal([]byte(entry.ResponseJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode stored response: %w", err)
	}
	return &resp, nil
}

// entrySource adapts entries for fuzzy matching over url and title
type entrySource []types.HistoryEntry

func (s entrySource) String(i int) string {
	return s[i].URL + " " + s[i].Title
}

func (s entrySource) Len() int {
	return len(s)
}

// Filter ranks entries by fuzzy match against query, best first.
// An empty query returns the entries unchanged.
func Filter(entries []types.HistoryEntry, query string) []types.HistoryEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	matches := fuzzy.FindFrom(query, entrySource(entries))
	filtered := make([]types.HistoryEntry, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, entries[match.Index])
	}
	return filtered
}

// Search loads every entry and filters it with query
func (m *Manager) Search(query string) ([]types.HistoryEntry, error) {
	entries, err := m.Load(0)
	if err != nil {
		return nil, err
	}
	return Filter(entries, query), nil
}
