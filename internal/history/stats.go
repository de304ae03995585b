package history

import (
	"fmt"
	"time"

	"github.com/studiowebux/pagescope/internal/types"
)

// Stats aggregates the stored analyses of one URL
type Stats struct {
	URL           string
	TotalCalls    int
	SuccessCount  int
	ErrorCount    int
	AvgDurationMs float64
	MinDurationMs int64
	MaxDurationMs int64
	LastCalled    time.Time
	LastTitle     string
}

// SuccessRate returns the share of successful analyses in percent
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalCalls) * 100
}

// StatsPerURL groups history by URL, most recently analyzed first
func (m *Manager) StatsPerURL() ([]Stats, error) {
	query := `
		SELECT
			h.url,
			COUNT(*) AS total_calls,
			SUM(CASE WHEN h.status = ? THEN 1 ELSE 0 END) AS success_count,
			SUM(CASE WHEN h.status = ? THEN 1 ELSE 0 END) AS error_count,
			AVG(h.duration_ms) AS avg_duration,
			MIN(h.duration_ms) AS min_duration,
			MAX(h.duration_ms) AS max_duration,
			MAX(h.timestamp) AS last_called,
			COALESCE((
				SELECT t.title FROM history t
				WHERE t.url = h.url AND t.status = ? AND t.title != ''
				ORDER BY t.timestamp DESC, t.id DESC
				LIMIT 1
			), '') AS last_title
		FROM history h
		GROUP BY h.url
		ORDER BY last_called DESC, h.url
	`

	rows, err := m.db.Query(query, types.StatusResult, types.StatusError, types.StatusResult)
	if err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		var lastCalled string

		err := rows.Scan(
			&s.URL,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
			&s.LastTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}

		s.LastCalled = parseTimestamp(lastCalled)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
