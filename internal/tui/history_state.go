package tui

import (
	"sync"

	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/types"
)

// HistoryState encapsulates all history-related UI state
type HistoryState struct {
	mu sync.RWMutex

	entries    []types.HistoryEntry // Filtered entries shown in the list
	allEntries []types.HistoryEntry // Unfiltered entries for search
	index      int
	offset     int // First visible row

	searchQuery string
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		entries:    []types.HistoryEntry{},
		allEntries: []types.HistoryEntry{},
	}
}

// Load replaces the entries and reapplies the current query
func (s *HistoryState) Load(entries []types.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allEntries = entries
	s.applyLocked()
}

// GetEntries returns a copy of the visible entries
func (s *HistoryState) GetEntries() []types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.HistoryEntry, len(s.entries))
	copy(result, s.entries)
	return result
}

// Total returns the number of loaded entries before filtering
func (s *HistoryState) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.allEntries)
}

// GetIndex returns the current index
func (s *HistoryState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the selection by delta
func (s *HistoryState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}

	s.index += delta

	// Wrap around
	if s.index < 0 {
		s.index = len(s.entries) - 1
	} else if s.index >= len(s.entries) {
		s.index = 0
	}
}

// Window returns the visible slice bounds for a list of height rows,
// scrolling so the selection stays in view
func (s *HistoryState) Window(height int) (start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height < 1 {
		height = 1
	}
	if s.index < s.offset {
		s.offset = s.index
	}
	if s.index >= s.offset+height {
		s.offset = s.index - height + 1
	}
	end = s.offset + height
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.offset, end
}

// GetCurrentEntry returns the currently selected history entry
func (s *HistoryState) GetCurrentEntry() *types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 || s.index < 0 || s.index >= len(s.entries) {
		return nil
	}

	entry := s.entries[s.index]
	return &entry
}

// Remove drops an entry by id from both lists
func (s *HistoryState) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]types.HistoryEntry, 0, len(s.allEntries))
	for _, e := range s.allEntries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.allEntries = kept
	s.applyLocked()
}

// GetSearchQuery returns the search query
func (s *HistoryState) GetSearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// SetSearchQuery filters the entries with a fuzzy query
func (s *HistoryState) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == s.searchQuery {
		return
	}
	s.searchQuery = query
	s.index = 0
	s.offset = 0
	s.applyLocked()
}

// Reset clears entries, query and selection
func (s *HistoryState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = []types.HistoryEntry{}
	s.allEntries = []types.HistoryEntry{}
	s.index = 0
	s.offset = 0
	s.searchQuery = ""
}

func (s *HistoryState) applyLocked() {
	s.entries = history.Filter(s.allEntries, s.searchQuery)
	if s.index >= len(s.entries) {
		s.index = len(s.entries) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
}
