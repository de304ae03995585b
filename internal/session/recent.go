package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const maxRecentURLs = 10

// Recent is the persisted list of recently analyzed URLs
type Recent struct {
	path string
	URLs []string `json:"recentUrls"`
}

// LoadRecent reads the recent list from path. A missing file yields an
// empty list.
func LoadRecent(path string) (*Recent, error) {
	r := &Recent{path: path, URLs: []string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if r.URLs == nil {
		r.URLs = []string{}
	}
	return r, nil
}

// Add moves url to the front of the list, dropping duplicates, and saves
func (r *Recent) Add(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}

	next := []string{url}
	for _, u := range r.URLs {
		if u != url {
			next = append(next, u)
		}
	}
	if len(next) > maxRecentURLs {
		next = next[:maxRecentURLs]
	}

	r.URLs = next
	return r.save()
}

// List returns the URLs, most recent first
func (r *Recent) List() []string {
	return r.URLs
}

func (r *Recent) save() error {
	if r.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
