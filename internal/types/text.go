package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Text is a display string decoded from any JSON value.
// Non-string values are stringified the way a browser concatenates them:
// arrays join with ",", objects become "[object Object]", null is empty.
// Truthy records whether the browser would treat the value as set, so an
// empty array is present and 0 or false are not.
type Text struct {
	Value  string
	Truthy bool
}

// NewText returns a Text that is present when s is non-empty
func NewText(s string) Text {
	return Text{Value: s, Truthy: s != ""}
}

// Present reports whether the field would be shown
func (t Text) Present() bool {
	return t.Truthy
}

// IsZero reports an absent field, for omitzero and yaml omitempty
func (t Text) IsZero() bool {
	return !t.Truthy
}

func (t Text) String() string {
	return t.Value
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	v, err := decodeAny(data)
	if err != nil {
		return fmt.Errorf("failed to decode text field: %w", err)
	}
	*t = Text{Value: stringify(v), Truthy: truthy(v)}
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values encode as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Truthy {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// MarshalYAML implements yaml.Marshaler
func (t Text) MarshalYAML() (interface{}, error) {
	return t.Value, nil
}

func decodeAny(data []byte) (interface{}, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// truthy follows browser truthiness: null, "", 0 and false are unset,
// arrays and objects are set even when empty
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		return err != nil || f != 0
	case bool:
		return val
	default:
		return true
	}
}

var keywordSeparators = regexp.MustCompile(`[,，、]`)

// Keywords holds the keywords field, which is either a delimited string
// or an ordered list
type Keywords struct {
	Raw    string
	List   []string
	IsList bool
}

// KeywordsFromString builds a string-form keywords value
func KeywordsFromString(s string) *Keywords {
	return &Keywords{Raw: s}
}

// KeywordsFromList builds a list-form keywords value
func KeywordsFromList(items ...string) *Keywords {
	if items == nil {
		items = []string{}
	}
	return &Keywords{List: items, IsList: true}
}

// Present reports whether the field would be shown. An empty list counts
// as present, an empty string does not.
func (k *Keywords) Present() bool {
	if k == nil {
		return false
	}
	return k.IsList || k.Raw != ""
}

// Items returns the untrimmed items: the list as-is, or the string split
// on its separators
func (k *Keywords) Items() []string {
	if k == nil {
		return nil
	}
	if k.IsList {
		return k.List
	}
	return keywordSeparators.Split(k.Raw, -1)
}

// Entries returns the trimmed, non-blank items in order
func (k *Keywords) Entries() []string {
	var entries []string
	for _, item := range k.Items() {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

// UnmarshalJSON implements json.Unmarshaler. Falsy scalars leave the
// field absent and falsy list items are blank.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	v, err := decodeAny(data)
	if err != nil {
		return fmt.Errorf("failed to decode keywords: %w", err)
	}

	switch val := v.(type) {
	case []interface{}:
		k.IsList = true
		k.List = make([]string, len(val))
		for i, item := range val {
			if truthy(item) {
				k.List[i] = stringify(item)
			}
		}
	default:
		if truthy(val) {
			k.Raw = stringify(val)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (k Keywords) MarshalJSON() ([]byte, error) {
	if k.IsList {
		return json.Marshal(k.List)
	}
	return json.Marshal(k.Raw)
}

// MarshalYAML implements yaml.Marshaler
func (k Keywords) MarshalYAML() (interface{}, error) {
	if k.IsList {
		return k.List, nil
	}
	return k.Raw, nil
}
