package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/pagescope/internal/migrations"
	"github.com/studiowebux/pagescope/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned by Get for an unknown id
var ErrNotFound = errors.New("history entry not found")

// Manager stores analyses in SQLite
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save inserts entry and sets its ID
func (m *Manager) Save(entry *types.HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
		INSERT INTO history (
			request_id, timestamp, server, url, title, status, error, response_json, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := m.db.Exec(query,
		entry.RequestID,
		entry.Timestamp.Local().Format(timestampLayout),
		entry.Server,
		entry.URL,
		entry.Title,
		entry.Status,
		entry.Error,
		entry.ResponseJSON,
		entry.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read history id: %w", err)
	}
	entry.ID = id
	return nil
}

// Load returns the newest entries first. A limit of 0 or less loads all.
func (m *Manager) Load(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, request_id, timestamp, server, url, title, status, error, response_json, duration_ms
		FROM history
		ORDER BY timestamp DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns one entry by id
func (m *Manager) Get(id int64) (*types.HistoryEntry, error) {
	rows, err := m.db.Query(`
		SELECT id, request_id, timestamp, server, url, title, status, error, response_json, duration_ms
		FROM history
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &entries[0], nil
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var title, errorMsg, responseJSON sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&timestamp,
			&entry.Server,
			&entry.URL,
			&title,
			&entry.Status,
			&errorMsg,
			&responseJSON,
			&entry.Duration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Timestamp = parseTimestamp(timestamp)
		entry.Title = title.String
		entry.Error = errorMsg.String
		entry.ResponseJSON = responseJSON.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// parseTimestamp reads the stored local time, falling back to RFC3339
func parseTimestamp(raw string) time.Time {
	if t, err := time.ParseInLocation(timestampLayout, raw, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) Count() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
