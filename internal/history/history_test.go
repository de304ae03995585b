package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/types"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func successResult(t *testing.T, body string) *executor.Result {
	t.Helper()
	resp, err := executor.Decode([]byte(body))
	require.NoError(t, err)
	return &executor.Result{Response: resp, RequestID: "rid-1", Status: 200, Body: []byte(body), Duration: 42}
}

func TestNewEntry(t *testing.T) {
	ok := NewEntry("http://srv", "http://a", successResult(t, `{"url":"http://a","analysis":{"文章标题":"Hello"}}`), nil)
	require.Equal(t, types.StatusResult, ok.Status)
	require.Equal(t, "Hello", ok.Title)
	require.Equal(t, "rid-1", ok.RequestID)
	require.Equal(t, int64(42), ok.Duration)

	failed := NewEntry("http://srv", "http://a", successResult(t, `{"error":"bad url"}`), nil)
	require.Equal(t, types.StatusError, failed.Status)
	require.Equal(t, "bad url", failed.Error)

	transport := NewEntry("http://srv", "http://a", nil, errors.New("refused"))
	require.Equal(t, types.StatusError, transport.Status)
	require.Equal(t, "请求失败: refused", transport.Error)
	require.NotEmpty(t, transport.RequestID)
	require.Empty(t, transport.ResponseJSON)
}

func TestManager_CRUD(t *testing.T) {
	m := newManager(t)

	older := NewEntry("http://srv", "https://golang.org/doc", successResult(t, `{"analysis":{"文章标题":"Go docs"}}`), nil)
	older.Timestamp = time.Now().Add(-time.Hour)
	require.NoError(t, m.Save(older))
	require.NotZero(t, older.ID)

	newer := NewEntry("http://srv", "https://example.com/news", nil, errors.New("timeout"))
	require.NoError(t, m.Save(newer))

	count, err := m.Count()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	entries, err := m.Load(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, newer.ID, entries[0].ID)

	limited, err := m.Load(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	got, err := m.Get(older.ID)
	require.NoError(t, err)
	require.Equal(t, "Go docs", got.Title)
	resp, err := Response(got)
	require.NoError(t, err)
	require.Equal(t, types.NewText("Go docs"), resp.Analysis.Title)

	_, err = Response(&entries[0])
	require.Error(t, err)

	_, err = m.Get(9999)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Delete(older.ID))
	count, _ = m.Count()
	require.Equal(t, 1, count)

	require.NoError(t, m.Clear())
	count, _ = m.Count()
	require.Zero(t, count)
}

func TestSearch(t *testing.T) {
	m := newManager(t)
	for _, target := range []string{"https://golang.org/doc", "https://example.com/news", "https://go.dev/blog"} {
		require.NoError(t, m.Save(&types.HistoryEntry{RequestID: "r", Server: "s", URL: target, Status: types.StatusResult}))
	}

	all, err := m.Search("  ")
	require.NoError(t, err)
	require.Len(t, all, 3)

	found, err := m.Search("example")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "https://example.com/news", found[0].URL)

	none, err := m.Search("zzzz")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStatsPerURL(t *testing.T) {
	m := newManager(t)
	base := time.Now().Add(-time.Hour)

	entries := []*types.HistoryEntry{
		{URL: "https://a", Status: types.StatusResult, Title: "First", Duration: 10, Timestamp: base},
		{URL: "https://a", Status: types.StatusError, Error: "boom", Duration: 30, Timestamp: base.Add(time.Minute)},
		{URL: "https://a", Status: types.StatusResult, Title: "Second", Duration: 20, Timestamp: base.Add(2 * time.Minute)},
		{URL: "https://b", Status: types.StatusError, Error: "down", Duration: 5, Timestamp: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		e.RequestID, e.Server = "r", "s"
		require.NoError(t, m.Save(e))
	}

	stats, err := m.StatsPerURL()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, "https://b", stats[0].URL)
	require.Equal(t, 1, stats[0].ErrorCount)
	require.Empty(t, stats[0].LastTitle)
	require.Zero(t, stats[0].SuccessRate())

	a := stats[1]
	require.Equal(t, "https://a", a.URL)
	require.Equal(t, 3, a.TotalCalls)
	require.Equal(t, 2, a.SuccessCount)
	require.Equal(t, 1, a.ErrorCount)
	require.InDelta(t, 20.0, a.AvgDurationMs, 0.001)
	require.Equal(t, int64(10), a.MinDurationMs)
	require.Equal(t, int64(30), a.MaxDurationMs)
	require.Equal(t, "Second", a.LastTitle)
	require.InDelta(t, 66.67, a.SuccessRate(), 0.01)
}
