package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/pagescope/internal/cli"
	"github.com/studiowebux/pagescope/internal/config"
	"github.com/studiowebux/pagescope/internal/executor"
	"github.com/studiowebux/pagescope/internal/history"
	"github.com/studiowebux/pagescope/internal/keybinds"
	"github.com/studiowebux/pagescope/internal/logger"
	"github.com/studiowebux/pagescope/internal/mock"
	"github.com/studiowebux/pagescope/internal/session"
	"github.com/studiowebux/pagescope/internal/tui"
	"github.com/studiowebux/pagescope/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pagescope",
	Short: "pagescope - web page analysis client",
	Long: `pagescope submits web page URLs to an analysis service and shows the
extracted title, author, date, source, keywords and summary.

Run without arguments to start the interactive TUI.

Examples:
  pagescope                                  # Start interactive TUI
  pagescope analyze https://example.com      # Print a report
  pagescope analyze -o json url1 url2        # Analyze several URLs
  pagescope analyze -q 'analysis."文章标题"' url
  pagescope history list                     # Recent analyses
  pagescope mock                             # Local mock analysis server`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return runTUI(settings)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>...",
	Short: "Analyze one or more URLs and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("concurrency") {
			settings.Concurrency = flagConcurrency
		}

		log := logger.New(os.Stderr, "cli", settings.LogLevel)
		client := newClient(settings, log)

		var mgr *history.Manager
		if settings.HistoryEnabled && !flagNoHistory {
			if mgr, err = history.NewManager(config.DatabasePath); err != nil {
				log.Warn("history disabled", "err", err)
			} else {
				defer mgr.Close()
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Analyze(ctx, cli.AnalyzeOptions{
			URLs:         args,
			Server:       settings.Server,
			Analyzer:     client,
			History:      mgr,
			Concurrency:  settings.Concurrency,
			OutputFormat: flagOutput,
			Query:        flagQuery,
			SavePath:     flagSave,
			Copy:         flagCopy,
			Color:        flagSave == "" && cli.IsTerminal(os.Stdout),
			Logger:       log,
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.HistoryList(os.Stdout, mgr, flagLimit, cli.IsTerminal(os.Stdout))
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a stored analysis (interactive picker without id)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid history id %q", args[0])
			}
			id = n
		}
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.HistoryShow(os.Stdout, mgr, id, flagOutput, cli.IsTerminal(os.Stdout))
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search analyses by url and title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.HistorySearch(os.Stdout, mgr, args[0], cli.IsTerminal(os.Stdout))
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-URL call counts, success rate and durations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.HistoryStats(os.Stdout, mgr)
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.HistoryClear(os.Stdout, mgr)
		})
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local mock analysis server",
	Long: `Serve POST /analyze from fixtures so the client can be used offline.

Without --config a catch-all sample fixture is served. --init writes that
sample as a fixture file to start from. Captured requests are printed and
can be read with GET /logs and cleared with DELETE /logs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", config.ConfigFile, data)
		return nil
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Write the default keybindings to the keybinds file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if _, err := os.Stat(config.KeybindsFile); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), config.KeybindsFile); err != nil {
			return err
		}
		fmt.Printf("Keybindings written to %s\n", config.KeybindsFile)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("pagescope %s\n", version.Version)
		if !flagCheck {
			return nil
		}

		rel, err := version.Check(cmd.Context(), version.ReleasesURL, version.Version)
		if err != nil {
			return err
		}
		if rel.Available {
			fmt.Printf("New version available: %s (%s)\n", rel.Version, rel.URL)
		} else {
			fmt.Println("You are on the latest version")
		}
		return nil
	},
}

// Persistent flags
var (
	flagServer   string
	flagTimeout  time.Duration
	flagEnvFile  string
	flagInsecure bool
)

// Command flags
var (
	flagOutput      string
	flagQuery       string
	flagSave        string
	flagCopy        bool
	flagConcurrency int
	flagNoHistory   bool
	flagLimit       int
	flagMockConfig  string
	flagMockHost    string
	flagMockPort    int
	flagMockInit    string
	flagForce       bool
	flagCheck       bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Analysis service base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Request timeout, 0 for none (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from file (default .env when present)")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")

	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml/formatted)")
	analyzeCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(shell command) applied to the response JSON")
	analyzeCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save output to file")
	analyzeCmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the formatted result to the clipboard")
	analyzeCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", config.DefaultConcurrency, "Maximum parallel requests")
	analyzeCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not store results in history")

	historyListCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries, 0 for all")
	historyShowCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml/formatted)")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historySearchCmd, historyStatsCmd, historyClearCmd)

	mockCmd.Flags().StringVar(&flagMockConfig, "config", "", "Fixture file (YAML or JSON)")
	mockCmd.Flags().StringVar(&flagMockHost, "host", "", "Listen host (overrides fixture file)")
	mockCmd.Flags().IntVarP(&flagMockPort, "port", "p", 0, "Listen port (overrides fixture file)")
	mockCmd.Flags().StringVar(&flagMockInit, "init", "", "Write the sample fixture file (.yaml or .json) and exit")

	keybindsCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds file")
	mockCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing fixture file with --init")
	configCmd.AddCommand(keybindsCmd)

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	rootCmd.AddCommand(analyzeCmd, historyCmd, mockCmd, configCmd, versionCmd)
}

// loadSettings initializes the config directory and resolves settings from
// the config file, the env file, the environment and flags, in that order
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return nil, err
	}

	settings, err := config.Load(config.ConfigFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("server") {
		settings.Server = flagServer
	}
	if cmd.Flags().Changed("timeout") {
		settings.Timeout = flagTimeout
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func newClient(settings *config.Settings, log *slog.Logger) *executor.Client {
	return executor.New(executor.Options{
		Server:             settings.Server,
		Timeout:            settings.Timeout,
		Version:            version.Version,
		InsecureSkipVerify: flagInsecure,
		Logger:             log,
	})
}

// withHistory opens the history database for fn
func withHistory(cmd *cobra.Command, fn func(*history.Manager) error) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()
	return fn(mgr)
}

// runTUI starts the interactive TUI. Logs go to the log file because the
// terminal belongs to the TUI.
func runTUI(settings *config.Settings) error {
	log, closer, err := logger.NewFile(config.LogFile, "tui", settings.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	keys, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return fmt.Errorf("failed to load keybindings: %w", err)
	}

	recent, err := session.LoadRecent(config.SessionFile)
	if err != nil {
		log.Warn("recent urls unavailable", "err", err)
		recent = nil
	}

	var mgr *history.Manager
	if settings.HistoryEnabled {
		if mgr, err = history.NewManager(config.DatabasePath); err != nil {
			log.Warn("history disabled", "err", err)
			mgr = nil
		}
	}

	log.Info("starting tui", "server", settings.Server, "version", version.Version)
	return tui.Run(tui.Options{
		Settings: settings,
		Analyzer: newClient(settings, log),
		History:  mgr,
		Recent:   recent,
		Keys:     keys,
		Logger:   log,
		Version:  version.Version,
	})
}

// runMock serves fixtures until interrupted
func runMock(cmd *cobra.Command) error {
	if flagMockInit != "" {
		if _, err := os.Stat(flagMockInit); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", flagMockInit)
		}
		if err := mock.SaveConfig(mock.DefaultConfig(), flagMockInit); err != nil {
			return err
		}
		fmt.Printf("Fixture file written to %s\n", flagMockInit)
		return nil
	}

	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}
	log := logger.New(os.Stderr, "mock", os.Getenv("LOG_LEVEL"))

	cfg := mock.DefaultConfig()
	workdir, err := os.Getwd()
	if err != nil {
		return err
	}
	if flagMockConfig != "" {
		if cfg, err = mock.LoadConfig(flagMockConfig); err != nil {
			return err
		}
		workdir = filepath.Dir(flagMockConfig)
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = flagMockHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagMockPort
	}

	srv := mock.NewServer(cfg, workdir, log)
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Mock analysis server listening on %s (Ctrl+C to stop)\n", srv.GetAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.Watch(ctx, func(entry mock.RequestLog) {
		fmt.Printf("%s  %d  %-8s  %s  (%s)\n",
			entry.Timestamp.Format("15:04:05"),
			entry.Status,
			executor.FormatDuration(entry.Duration.Milliseconds()),
			entry.URL,
			entry.MatchedFixture,
		)
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Info("mock server stopped")
	return nil
}
