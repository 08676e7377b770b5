// Package styledict converts token sets to and from the attribute-wrapped
// format consumed by Style Dictionary builds, and specializes built tokens
// for a target platform.
package styledict

import (
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// Supported platforms.
const (
	PlatformWeb     = "web"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Attributes describe where a built token came from.
type Attributes struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Item     string `json:"item"`
}

// Token is a token in build format.
type Token struct {
	Value       any         `json:"value"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Attributes  *Attributes `json:"attributes,omitempty"`
}

// Set maps a category to its built tokens by name.
type Set map[string]map[string]Token

// UIColor is an iOS color with components in [0,1].
type UIColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Field is a named default value.
type Field struct {
	Key   string
	Value any
}

// Defaults are the sub-fields filled into structured values when missing.
type Defaults struct {
	Typography []Field
	Shadow     []Field
}

// StandardDefaults is the default table used by the package-level functions.
var StandardDefaults = Defaults{
	Typography: []Field{
		{"fontFamily", "Inter"},
		{"fontWeight", 400},
		{"fontSize", 16},
		{"lineHeight", 1.5},
		{"letterSpacing", 0},
	},
	Shadow: []Field{
		{"x", 0},
		{"y", 0},
		{"blur", 0},
		{"spread", 0},
		{"color", "#000000"},
		{"type", "dropShadow"},
	},
}

// Transformer converts between token formats using a table of defaults.
type Transformer struct {
	Defaults Defaults
}

// New returns a Transformer using StandardDefaults.
func New() *Transformer {
	return &Transformer{Defaults: StandardDefaults}
}

var std = New()

// ToBuildFormat converts set using StandardDefaults.
func ToBuildFormat(set tokens.Set) Set { return std.ToBuildFormat(set) }

// Build converts set using StandardDefaults and specializes it for platform.
func Build(set tokens.Set, platform string) Set { return std.Build(set, platform) }

// ToBuildFormat wraps every token with its attributes and fills structured
// values: typography objects get every typography default, shadows become a
// list of shadow objects with defaults, and numeric radii gain "px".
// A token without a type takes its category as type. set is not modified.
func (t *Transformer) ToBuildFormat(set tokens.Set) Set {
	out := make(Set, len(set))
	for category, toks := range set {
		built := make(map[string]Token, len(toks))
		for name, tok := range toks {
			typ := tok.Type
			if typ == "" {
				typ = category
			}

			built[name] = Token{
				Value:       t.buildValue(category, deepCopy(tok.Value)),
				Type:        typ,
				Description: tok.Description,
				Attributes: &Attributes{
					Category: category,
					Type:     typ,
					Item:     name,
				},
			}
		}
		out[category] = built
	}
	return out
}

// Build is ToBuildFormat followed by ApplyPlatform.
func (t *Transformer) Build(set tokens.Set, platform string) Set {
	return ApplyPlatform(t.ToBuildFormat(set), platform)
}

func (t *Transformer) buildValue(category string, value any) any {
	switch category {
	case tokens.CategoryTypography:
		if m, ok := value.(map[string]any); ok {
			return withDefaults(m, t.Defaults.Typography)
		}
	case tokens.CategoryShadows:
		switch v := value.(type) {
		case map[string]any:
			return []any{withDefaults(v, t.Defaults.Shadow)}
		case []any:
			for i, item := range v {
				if m, ok := item.(map[string]any); ok {
					v[i] = withDefaults(m, t.Defaults.Shadow)
				}
			}
			return v
		}
	case tokens.CategoryBorderRadius:
		if tokens.IsNumber(value) {
			return tokens.FormatDimension(value)
		}
	}
	return value
}

// FromBuildFormat drops the attributes and keeps value, type and description.
// Defaults filled by ToBuildFormat are not removed, so typography and shadow
// tokens do not round-trip exactly.
func FromBuildFormat(set Set) tokens.Set {
	out := make(tokens.Set, len(set))
	for category, toks := range set {
		plain := make(map[string]tokens.Token, len(toks))
		for name, tok := range toks {
			typ := tok.Type
			if typ == "" {
				typ = category
			}
			plain[name] = tokens.Token{
				Value:       tok.Value,
				Type:        typ,
				Description: tok.Description,
			}
		}
		out[category] = plain
	}
	return out
}

func withDefaults(m map[string]any, fields []Field) map[string]any {
	for _, f := range fields {
		if _, ok := m[f.Key]; !ok {
			m[f.Key] = f.Value
		}
	}
	return m
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(x))
		for k, val := range x {
			cp[k] = deepCopy(val)
		}
		return cp
	case []any:
		cp := make([]any, len(x))
		for i, val := range x {
			cp[i] = deepCopy(val)
		}
		return cp
	}
	return v
}

func copySet(set Set) Set {
	out := make(Set, len(set))
	for category, toks := range set {
		cp := make(map[string]Token, len(toks))
		for name, tok := range toks {
			tok.Value = deepCopy(tok.Value)
			if tok.Attributes != nil {
				attrs := *tok.Attributes
				tok.Attributes = &attrs
			}
			cp[name] = tok
		}
		out[category] = cp
	}
	return out
}
