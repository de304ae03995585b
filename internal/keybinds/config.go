package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config is the user's keybinding file. Each section maps an action to a
// comma-separated key list, e.g. {"result": {"copy": "y,c"}}.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Input   map[string]string `json:"input,omitempty"`
	Result  map[string]string `json:"result,omitempty"`
	History map[string]string `json:"history,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextInput:   c.Input,
		ContextResult:  c.Result,
		ContextHistory: c.History,
	}
}

// LoadConfig loads keybinding configuration from a JSON file. Comments and
// trailing commas are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// An action listed in the config replaces all of its default keys.
func ApplyConfig(registry *Registry, config *Config) error {
	for _, context := range Contexts {
		for actionStr, keyList := range config.sections()[context] {
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			action := Action(actionStr)
			registry.Unbind(context, action)

			for _, k := range strings.Split(keyList, ",") {
				k = strings.TrimSpace(k)
				if err := ValidateKey(k); err != nil {
					return fmt.Errorf("%s.%s: %w", context, actionStr, err)
				}
				registry.Register(context, k, action)
			}
		}
	}
	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	config, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	if result := NewValidator().ValidateRegistry(registry); result.HasErrors() {
		return nil, fmt.Errorf("invalid keybinds config:\n%s", result.String())
	}

	return registry, nil
}

// ExportDefaults renders the default registry as a config
func ExportDefaults() *Config {
	r := NewDefaultRegistry()
	config := &Config{Version: "1.0"}
	out := map[Context]map[string]string{}

	for _, context := range Contexts {
		section := map[string]string{}
		for _, k := range r.order[context] {
			action := string(r.bindings[context][k])
			if existing, ok := section[action]; ok {
				section[action] = existing + "," + k
			} else {
				section[action] = k
			}
		}
		out[context] = section
	}

	config.Global = out[ContextGlobal]
	config.Input = out[ContextInput]
	config.Result = out[ContextResult]
	config.History = out[ContextHistory]
	return config
}
