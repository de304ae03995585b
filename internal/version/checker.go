// Package version reports the build version and checks for newer releases.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Version is the build version, set with -ldflags "-X .../version.Version=1.2.3"
var Version = "0.1.0-dev"

const (
	// ReleasesURL is the latest-release endpoint queried by Check
	ReleasesURL  = "https://api.github.com/repos/studiowebux/pagescope/releases/latest"
	checkTimeout = 5 * time.Second
)

// Release describes the latest published release
type Release struct {
	Version   string // without the leading "v"
	URL       string
	Available bool // newer than the running version
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches the latest release from releasesURL and compares it with
// current
func Check(ctx context.Context, releasesURL, current string) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pagescope/"+current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var gh githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	latest := strings.TrimPrefix(gh.TagName, "v")
	return &Release{
		Version:   latest,
		URL:       gh.HTMLURL,
		Available: latest != "" && isNewerVersion(latest, strings.TrimPrefix(current, "v")),
	}, nil
}

// isNewerVersion reports whether latest > current, comparing numeric parts.
// Pre-release and build suffixes are ignored.
func isNewerVersion(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	n := max(len(latestParts), len(currentParts))
	for len(latestParts) < n {
		latestParts = append(latestParts, 0)
	}
	for len(currentParts) < n {
		currentParts = append(currentParts, 0)
	}

	for i := 0; i < n; i++ {
		if latestParts[i] != currentParts[i] {
			return latestParts[i] > currentParts[i]
		}
	}
	return false
}

func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		nums = append(nums, num)
	}
	return nums
}
