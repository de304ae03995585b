package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/types"
)

// ANSI color codes
const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
)

// HistoryList prints the newest entries
func HistoryList(w io.Writer, mgr *history.Manager, limit int, color bool) error {
	entries, err := mgr.Load(limit)
	if err != nil {
		return err
	}
	printEntries(w, entries, color)
	return nil
}

// HistorySearch prints the entries matching a fuzzy query
func HistorySearch(w io.Writer, mgr *history.Manager, query string, color bool) error {
	entries, err := mgr.Search(query)
	if err != nil {
		return err
	}
	printEntries(w, entries, color)
	return nil
}

// HistoryShow prints one stored analysis in the given output format.
// An id of 0 opens an interactive selector when stdin is a terminal.
func HistoryShow(w io.Writer, mgr *history.Manager, id int64, format string, color bool) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}

	if id == 0 {
		if !IsTerminal(os.Stdin) {
			return errors.New("history id required (non-interactive mode)")
		}
		entries, err := mgr.Load(500)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("history is empty")
		}
		if id, err = selectEntry(entries); err != nil {
			return err
		}
	}

	entry, err := mgr.Get(id)
	if err != nil {
		return err
	}

	resp, err := history.Response(entry)
	if err != nil {
		// Transport failures store only the message
		return fmt.Errorf("%w: %s", ErrFailed, entry.Error)
	}

	view := result.Build(resp)
	if view.Failed() {
		return fmt.Errorf("%w: %s", ErrFailed, view.Err)
	}

	res := &executor.Result{
		Response:  resp,
		RequestID: entry.RequestID,
		Body:      []byte(entry.ResponseJSON),
		Duration:  entry.Duration,
	}
	out, err := formatOutput(res, view, format, color)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// HistoryClear deletes every entry and reports how many were removed
func HistoryClear(w io.Writer, mgr *history.Manager) error {
	count, err := mgr.Count()
	if err != nil {
		return err
	}
	if err := mgr.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %d history entries\n", count)
	return nil
}

// HistoryStats prints per-URL aggregates of the stored analyses
func HistoryStats(w io.Writer, mgr *history.Manager) error {
	stats, err := mgr.StatsPerURL()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(w, "No history entries")
		return nil
	}

	fmt.Fprintf(w, "%5s  %6s  %6s  %8s  %8s  %8s  %s\n", "CALLS", "OK", "RATE", "AVG", "MIN", "MAX", "URL")
	for _, s := range stats {
		fmt.Fprintf(w, "%5d  %6d  %5.1f%%  %8s  %8s  %8s  %s\n",
			s.TotalCalls,
			s.SuccessCount,
			s.SuccessRate(),
			executor.FormatDuration(int64(s.AvgDurationMs)),
			executor.FormatDuration(s.MinDurationMs),
			executor.FormatDuration(s.MaxDurationMs),
			s.URL,
		)
	}
	return nil
}

func printEntries(w io.Writer, entries []types.HistoryEntry, color bool) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries")
		return
	}

	for _, e := range entries {
		status := e.Status
		label := e.Title
		if e.Status == types.StatusError {
			label = e.Error
		}
		if color {
			c := colorGreen
			if e.Status == types.StatusError {
				c = colorRed
			}
			status = c + fmt.Sprintf("%-6s", status) + colorReset
		} else {
			status = fmt.Sprintf("%-6s", status)
		}

		fmt.Fprintf(w, "%5d  %s  %s  %7s  %s  %s\n",
			e.ID,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			status,
			executor.FormatDuration(e.Duration),
			e.URL,
			label,
		)
	}
}
