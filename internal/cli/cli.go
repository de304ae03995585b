package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/filter"
	"github.com/studiowebux/pagescope/internal/highlight"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/logger"
	"github.com/studiowebux/pagescope/internal/result"
	"github.com/studiowebux/pagescope/internal/types"
)

// Output formats
const (
	FormatText      = "text"
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatFormatted = "formatted"
)

// Analyzer sends one analyze request
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*executor.Result, error)
}

// AnalyzeOptions contains options for analyzing URLs in CLI mode
type AnalyzeOptions struct {
	URLs         []string
	Server       string // recorded in history entries
	Analyzer     Analyzer
	History      *history.Manager // nil skips history
	Concurrency  int
	OutputFormat string // text, json, yaml, formatted
	Query        string // JMESPath query or $(shell command)
	SavePath     string
	Copy         bool
	Color        bool // highlight formatted output
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *slog.Logger
}

// outcome is the result of one URL, kept in argument order
type outcome struct {
	url  string
	res  *executor.Result
	err  error
	view result.View
}

// failure returns the user-visible error message, or "" on success
func (o outcome) failure() string {
	switch {
	case strings.TrimSpace(o.url) == "":
		return result.MissingURLMessage
	case o.err != nil:
		return result.RequestErrorPrefix + o.err.Error()
	default:
		return o.view.Err
	}
}

// ErrFailed is returned when at least one analysis failed
var ErrFailed = errors.New("analysis failed")

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	switch format {
	case "", FormatText, FormatJSON, FormatYAML, FormatFormatted:
		return nil
	}
	return fmt.Errorf("unknown output format %q (text/json/yaml/formatted)", format)
}

// Analyze analyzes every URL, prints the results in argument order and
// returns ErrFailed (wrapped) when any of them failed
func Analyze(ctx context.Context, opts AnalyzeOptions) error {
	if len(opts.URLs) == 0 {
		return errors.New(result.MissingURLMessage)
	}
	if err := ValidateFormat(opts.OutputFormat); err != nil {
		return err
	}
	if err := filter.Validate(opts.Query); err != nil {
		return err
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	outcomes := run(ctx, opts)

	var (
		outputs   []string
		formatted []string
		failed    int
	)
	for _, o := range outcomes {
		if msg := o.failure(); msg != "" {
			failed++
			if len(outcomes) > 1 {
				msg = fmt.Sprintf("%s: %s", o.url, msg)
			}
			fmt.Fprintln(opts.Stderr, msg)
			if o.err != nil {
				fmt.Fprintln(opts.Stderr, executor.Describe(o.err))
			}
			continue
		}

		out, err := render(ctx, o, opts)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
		formatted = append(formatted, o.view.Formatted)
	}

	if len(outputs) > 0 {
		if err := write(opts, strings.Join(outputs, "\n\n")+"\n"); err != nil {
			return err
		}
	}

	if opts.Copy && len(formatted) > 0 {
		if err := clipboard.WriteAll(strings.Join(formatted, "\n\n")); err != nil {
			fmt.Fprintf(opts.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
		}
	}

	if failed == 1 && len(outcomes) == 1 {
		return fmt.Errorf("%w: %s", ErrFailed, outcomes[0].failure())
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFailed, failed, len(outcomes))
	}
	return nil
}

// run sends the requests with bounded concurrency and saves history
func run(ctx context.Context, opts AnalyzeOptions) []outcome {
	outcomes := make([]outcome, len(opts.URLs))

	g, ctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, u := range opts.URLs {
		target := strings.TrimSpace(u)
		outcomes[i].url = target
		if target == "" {
			continue
		}

		g.Go(func() error {
			res, err := opts.Analyzer.Analyze(ctx, target)
			o := outcome{url: target, res: res, err: err}
			if err == nil {
				if res == nil {
					o.err = errors.New("empty response")
				} else {
					o.view = result.Build(res.Response)
				}
			}
			outcomes[i] = o

			opts.Logger.Debug("analyzed", "url", target, "failed", o.failure() != "")
			if opts.History != nil {
				entry := history.NewEntry(opts.Server, target, res, err)
				if saveErr := opts.History.Save(entry); saveErr != nil {
					opts.Logger.Warn("failed to save history", "url", target, "err", saveErr)
				}
			}
			// Failures are reported per URL, never abort the group
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// render formats one successful outcome
func render(ctx context.Context, o outcome, opts AnalyzeOptions) (string, error) {
	if opts.Query != "" {
		out, err := filter.Query(ctx, string(o.res.Body), opts.Query)
		if err != nil {
			return "", fmt.Errorf("query failed for %s: %w", o.url, err)
		}
		return strings.TrimRight(out, "\n"), nil
	}

	return formatOutput(o.res, o.view, opts.OutputFormat, opts.Color)
}

// formatOutput formats a response based on the output format
func formatOutput(res *executor.Result, view result.View, format string, color bool) (string, error) {
	switch format {
	case FormatJSON:
		return indentJSON(res)

	case FormatYAML:
		data, err := yaml.Marshal(res.Response)
		if err != nil {
			return "", fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil

	case FormatFormatted:
		if color && view.Shape != types.ShapeRaw {
			return highlight.JSON(view.Formatted), nil
		}
		return view.Formatted, nil

	default:
		return strings.TrimRight(result.Report(view), "\n"), nil
	}
}

// indentJSON re-indents the raw body, falling back to re-encoding the
// decoded response
func indentJSON(res *executor.Result) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Body, "", "  "); err == nil {
		return buf.String(), nil
	}

	data, err := json.MarshalIndent(res.Response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(data), nil
}

// write prints output or saves it to opts.SavePath
func write(opts AnalyzeOptions, output string) error {
	if opts.SavePath == "" {
		_, err := io.WriteString(opts.Stdout, output)
		return err
	}

	if err := os.WriteFile(opts.SavePath, []byte(output), 0644); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}
	fmt.Fprintf(opts.Stderr, "Output saved to %s\n", opts.SavePath)
	return nil
}

// IsTerminal reports whether f is a character device
func IsTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
