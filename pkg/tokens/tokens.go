// Package tokens holds the category-keyed design token set and the pure
// transforms around it: normalizing Figma variables, validating raw token
// files, merging sets and turning a set back into a variables payload.
package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Token categories produced by the default rules.
const (
	CategoryColors       = "colors"
	CategorySpacing      = "spacing"
	CategoryTypography   = "typography"
	CategoryBorderRadius = "borderRadius"
	CategoryShadows      = "shadows"
	CategoryOpacity      = "opacity"
)

// Token is a single named design value.
type Token struct {
	Value       any    `json:"value"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Set maps a category to its tokens by name.
type Set map[string]map[string]Token

// ValidationError carries every structural problem found in a raw token document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid tokens: " + e.Errors[0]
	}
	return fmt.Sprintf("invalid tokens: %d errors: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

// Count returns the number of tokens across all categories.
func (s Set) Count() int {
	n := 0
	for _, toks := range s {
		n += len(toks)
	}
	return n
}

// Categories returns the category names in sorted order.
func (s Set) Categories() []string {
	return sortedKeys(s)
}

// Names returns the token names of a category in sorted order.
func (s Set) Names(category string) []string {
	return sortedKeys(s[category])
}

// Export returns a copy of the set without empty categories,
// which is the form written to disk and served to clients.
func Export(s Set) Set {
	out := make(Set, len(s))
	for category, toks := range s {
		if len(toks) == 0 {
			continue
		}
		cp := make(map[string]Token, len(toks))
		for name, tok := range toks {
			cp[name] = tok
		}
		out[category] = cp
	}
	return out
}

// Decode parses a JSON token document without imposing the Set shape.
// Numbers are kept as json.Number so "24.5" stays "24.5".
func Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse tokens: %w", err)
	}
	return raw, nil
}

// FromRaw validates a decoded document and converts it to a Set.
// The returned error is a *ValidationError when the structure is wrong.
func FromRaw(raw map[string]any) (Set, error) {
	if errs := Validate(raw); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	set := make(Set, len(raw))
	for category, v := range raw {
		entries := v.(map[string]any)
		toks := make(map[string]Token, len(entries))
		for name, e := range entries {
			m := e.(map[string]any)
			toks[name] = Token{
				Value:       m["value"],
				Type:        cast.ToString(m["type"]),
				Description: cast.ToString(m["description"]),
			}
		}
		set[category] = toks
	}
	return set, nil
}

// Parse decodes and validates a JSON token document.
func Parse(data []byte) (Set, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// Load reads a token file from disk.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file: %w", err)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Marshal encodes the exported form of a set as indented JSON.
func Marshal(s Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(s)); err != nil {
		return nil, fmt.Errorf("failed to encode tokens: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the exported form of a set to path, creating parent directories.
func Save(path string, s Set) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create tokens directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tokens file: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
