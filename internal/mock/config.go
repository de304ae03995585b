package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := validateConfig(&config, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig validates the mock configuration
func validateConfig(config *Config, workdir string) error {
	if len(config.Fixtures) == 0 {
		return fmt.Errorf("no fixtures defined")
	}

	for i, f := range config.Fixtures {
		if f.Match == "" {
			return fmt.Errorf("fixture %d: match is required", i)
		}
		switch f.MatchType {
		case "", "exact", "prefix":
		case "regex":
			if _, err := regexp.Compile(f.Match); err != nil {
				return fmt.Errorf("fixture %d: invalid regex: %w", i, err)
			}
		default:
			return fmt.Errorf("fixture %d: matchType must be 'exact', 'prefix', or 'regex'", i)
		}
		if f.Body != "" && f.BodyFile != "" {
			return fmt.Errorf("fixture %d: set either body or bodyFile, not both", i)
		}
		if f.Body != "" && !json.Valid(jsonc.ToJSON([]byte(f.Body))) {
			return fmt.Errorf("fixture %d: body is not valid JSON", i)
		}
		if f.BodyFile != "" {
			p := f.BodyFile
			if !filepath.IsAbs(p) {
				p = filepath.Join(workdir, p)
			}
			if _, err := os.Stat(p); err != nil {
				return fmt.Errorf("fixture %d: body file: %w", i, err)
			}
		}
	}

	return nil
}

// SaveConfig saves a mock configuration to a file
func SaveConfig(config *Config, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
