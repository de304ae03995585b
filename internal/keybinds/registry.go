package keybinds

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// order keeps registration order per context for help output
	order map[Context][]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]Action),
		order:    make(map[Context][]string),
	}
}

// Register adds a keybinding to the registry, replacing any previous
// action for the same key
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	if _, exists := r.bindings[context][key]; !exists {
		r.order[context] = append(r.order[context], key)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unbind removes every key bound to action in context
func (r *Registry) Unbind(context Context, action Action) {
	kept := r.order[context][:0]
	for _, k := range r.order[context] {
		if r.bindings[context][k] == action {
			delete(r.bindings[context], k)
			continue
		}
		kept = append(kept, k)
	}
	r.order[context] = kept
}

// Match attempts to match a key to an action in the given context.
// The specific context is checked before global.
func (r *Registry) Match(context Context, key string) (Action, bool) {
	if contextBindings, ok := r.bindings[context]; ok {
		if action, ok := contextBindings[key]; ok {
			return action, true
		}
	}

	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if action, ok := globalBindings[key]; ok {
			return action, true
		}
	}

	return "", false
}

// Keys returns the keys bound to an action in a context, falling back to
// global when the context has none
func (r *Registry) Keys(context Context, action Action) []string {
	keys := r.keysIn(context, action)
	if len(keys) == 0 && context != ContextGlobal {
		keys = r.keysIn(ContextGlobal, action)
	}
	return keys
}

func (r *Registry) keysIn(context Context, action Action) []string {
	var keys []string
	for _, k := range r.order[context] {
		if r.bindings[context][k] == action {
			keys = append(keys, k)
		}
	}
	return keys
}

// Binding builds a bubbles key binding with help text for an action
func (r *Registry) Binding(context Context, action Action, help string) key.Binding {
	keys := r.Keys(context, action)
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), help),
	)
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for context, keys := range r.order {
		for _, k := range keys {
			clone.Register(context, k, r.bindings[context][k])
		}
	}
	return clone
}
