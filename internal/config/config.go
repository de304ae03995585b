package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultServer is where the analysis service listens by default
	DefaultServer = "http://127.0.0.1:5000"
	// DefaultConcurrency bounds parallel analyses in CLI mode
	DefaultConcurrency = 4
)

var (
	// ConfigDir is the global configuration directory (~/.pagescope)
	ConfigDir string

	// ConfigFile is the YAML settings file
	ConfigFile string

	// DatabasePath is the SQLite database file for history
	DatabasePath string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string

	// SessionFile keeps the recently analyzed URLs
	SessionFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string
)

const defaultConfig = `# pagescope settings
server: http://127.0.0.1:5000
# 0 disables the request timeout
timeout: 0s
history_enabled: true
render_markdown: false
concurrency: 4
log_level: info
`

// Initialize sets up the configuration directory and files
// It creates ~/.pagescope/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return InitializeAt(filepath.Join(homeDir, ".pagescope"))
}

// InitializeAt sets the global paths below dir and creates it
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "pagescope.db")
	LogFile = filepath.Join(ConfigDir, "pagescope.log")
	SessionFile = filepath.Join(ConfigDir, "session.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := os.WriteFile(ConfigFile, []byte(defaultConfig), FilePermissions); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// Settings are the user-tunable options
type Settings struct {
	Server         string        `yaml:"server"`
	Timeout        time.Duration `yaml:"timeout"`
	HistoryEnabled bool          `yaml:"history_enabled"`
	RenderMarkdown bool          `yaml:"render_markdown"`
	Concurrency    int           `yaml:"concurrency"`
	LogLevel       string        `yaml:"log_level"`
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Server:         DefaultServer,
		Timeout:        0,
		HistoryEnabled: true,
		RenderMarkdown: false,
		Concurrency:    DefaultConcurrency,
		LogLevel:       "info",
	}
}

// Load reads settings from a YAML file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := s.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadEnvFile loads variables from an env file into the process environment.
// An empty path tries ./.env and ignores it when absent.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from PAGESCOPE_* and LOG_LEVEL variables.
// A value that does not parse is an error rather than a silent default.
func (s *Settings) ApplyEnv() error {
	if v := getEnv("PAGESCOPE_SERVER"); v != "" {
		s.Server = v
	}
	if v := getEnv("PAGESCOPE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PAGESCOPE_TIMEOUT %q: %w", v, err)
		}
		s.Timeout = d
	}
	if v := getEnv("PAGESCOPE_HISTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PAGESCOPE_HISTORY %q: %w", v, err)
		}
		s.HistoryEnabled = b
	}
	if v := getEnv("PAGESCOPE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAGESCOPE_CONCURRENCY %q: %w", v, err)
		}
		s.Concurrency = n
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	return nil
}

// Validate checks the settings for values that cannot work
func (s *Settings) Validate() error {
	s.Server = strings.TrimRight(strings.TrimSpace(s.Server), "/")
	if s.Server == "" {
		return fmt.Errorf("server must not be empty")
	}
	if !strings.HasPrefix(s.Server, "http://") && !strings.HasPrefix(s.Server, "https://") {
		return fmt.Errorf("server %q must start with http:// or https://", s.Server)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	return nil
}

func getEnv(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
