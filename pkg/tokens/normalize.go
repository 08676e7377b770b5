package tokens

import (
	"sort"
	"strings"

	"github.com/kataras/figma-ds-sync/pkg/figma"
)

// maxAliasDepth bounds VARIABLE_ALIAS chains so cycles terminate.
const maxAliasDepth = 8

// Rule assigns variables whose lowercased name contains any of Keywords to
// Category. Encode re-encodes the raw value; nil keeps it verbatim.
type Rule struct {
	Category string
	Type     string
	Keywords []string
	Encode   func(any) any
}

// Matches reports whether name contains one of the rule's keywords, ignoring case.
func (r Rule) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is the ordered rule table. The first matching rule wins, so a
// name containing "text" is a color even when it also contains "font".
var DefaultRules = []Rule{
	{
		Category: CategoryColors,
		Type:     "color",
		Keywords: []string{"color", "fill", "stroke", "bg", "background", "text"},
		Encode:   func(v any) any { return FormatColor(v) },
	},
	{
		Category: CategorySpacing,
		Type:     "dimension",
		Keywords: []string{"spacing", "space", "gap", "padding", "margin"},
		Encode:   func(v any) any { return FormatDimension(v) },
	},
	{
		Category: CategoryTypography,
		Type:     "typography",
		Keywords: []string{"font", "type", "text"},
	},
	{
		Category: CategoryBorderRadius,
		Type:     "dimension",
		Keywords: []string{"radius", "corner", "rounded"},
		Encode:   func(v any) any { return FormatDimension(v) },
	},
	{
		Category: CategoryShadows,
		Type:     "shadow",
		Keywords: []string{"shadow", "elevation"},
		Encode:   func(v any) any { return FormatShadow(v) },
	},
	{
		Category: CategoryOpacity,
		Type:     "number",
		Keywords: []string{"opacity", "alpha"},
	},
}

// Classify returns the first rule matching name.
func Classify(rules []Rule, name string) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(name) {
			return r, true
		}
	}
	return Rule{}, false
}

// NewSet returns a set holding an empty map for every rule category.
func NewSet(rules []Rule) Set {
	set := make(Set, len(rules))
	for _, r := range rules {
		if _, ok := set[r.Category]; !ok {
			set[r.Category] = make(map[string]Token)
		}
	}
	return set
}

// Normalize classifies every variable of every mode with DefaultRules.
func Normalize(meta figma.VariablesMeta) Set {
	return NormalizeWith(meta, DefaultRules)
}

// NormalizeWith classifies every variable bound in every mode of every
// collection and re-encodes its value. Variables without a value in a mode,
// and names no rule matches, are skipped. When several modes bind the same
// name the last mode wins. The result holds every rule category, empty or not.
func NormalizeWith(meta figma.VariablesMeta, rules []Rule) Set {
	set := NewSet(rules)

	for _, key := range sortedKeys(meta.VariableCollections) {
		coll := meta.VariableCollections[key]
		vars := collectionVariables(meta, key, coll)

		for _, mode := range coll.Modes {
			for _, v := range vars {
				value, ok := modeValue(meta, mode, v)
				if !ok {
					continue
				}

				rule, ok := Classify(rules, v.Name)
				if !ok {
					continue
				}

				if rule.Encode != nil {
					value = rule.Encode(value)
				}
				set[rule.Category][FormatName(v.Name)] = Token{
					Value:       value,
					Type:        rule.Type,
					Description: v.Description,
				}
			}
		}
	}

	return set
}

// collectionVariables resolves the variables of a collection in ID order.
// Metadata embedded in the collection wins over the top-level variables map.
func collectionVariables(meta figma.VariablesMeta, key string, coll figma.VariableCollection) []figma.Variable {
	ids := coll.VariableIDs.IDs
	if len(ids) == 0 && coll.VariableIDs.Meta == nil {
		collID := coll.ID
		if collID == "" {
			collID = key
		}
		for id, v := range meta.Variables {
			if v.VariableCollectionID == collID {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
	}

	vars := make([]figma.Variable, 0, len(ids))
	for _, id := range ids {
		v, ok := coll.VariableIDs.Meta[id]
		if !ok {
			v, ok = meta.Variables[id]
		}
		if !ok {
			continue
		}
		if v.ID == "" {
			v.ID = id
		}
		vars = append(vars, v)
	}
	return vars
}

// modeValue returns the value bound to v in mode, following aliases.
func modeValue(meta figma.VariablesMeta, mode figma.VariableMode, v figma.Variable) (any, bool) {
	value, ok := mode.Values[v.ID]
	if !ok {
		value, ok = v.ValuesByMode[mode.ModeID]
	}
	if !ok || value == nil {
		return nil, false
	}
	return resolveAlias(meta, value, mode.ModeID, 0)
}

func resolveAlias(meta figma.VariablesMeta, value any, modeID string, depth int) (any, bool) {
	m, ok := value.(map[string]any)
	if !ok || m["type"] != "VARIABLE_ALIAS" {
		return value, true
	}
	if depth >= maxAliasDepth {
		return nil, false
	}

	id, _ := m["id"].(string)
	target, ok := meta.Variables[id]
	if !ok {
		return nil, false
	}

	next, ok := target.ValuesByMode[modeID]
	if !ok {
		coll := meta.VariableCollections[target.VariableCollectionID]
		next, ok = target.ValuesByMode[coll.DefaultModeID]
	}
	if !ok || next == nil {
		return nil, false
	}
	return resolveAlias(meta, next, modeID, depth+1)
}
