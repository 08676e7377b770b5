package component

import (
	"regexp"
	"strings"
)

var variantSuffixPattern = regexp.MustCompile(`Primary|Secondary|Large|Small|Default`)

// PropertyDefinition is one entry of componentPropertyDefinitions.
type PropertyDefinition struct {
	Type           Kind     `json:"type"`
	DefaultValue   any      `json:"defaultValue,omitempty"`
	Description    string   `json:"description,omitempty"`
	VariantOptions []string `json:"variantOptions,omitempty"`
}

// Child is a component inside a component set.
type Child struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Properties Defaults `json:"componentProperties"`
}

// Spec is a Figma component or component set definition.
type Spec struct {
	Name                string                        `json:"name"`
	Type                string                        `json:"type"`
	Description         string                        `json:"description,omitempty"`
	PropertyDefinitions map[string]PropertyDefinition `json:"componentPropertyDefinitions"`
	Children            []Child                       `json:"children,omitempty"`
}

// ToComponentSpec builds the spec of a single component: one definition per
// prop with its kind, its default when there is one and its variant options
// when the prop is a variant.
func ToComponentSpec(rec *Record) (*Spec, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	spec := &Spec{
		Name:                rec.Name,
		Type:                "COMPONENT",
		PropertyDefinitions: make(map[string]PropertyDefinition, len(rec.Props)),
	}

	for name, prop := range rec.Props {
		def := PropertyDefinition{Type: prop.Kind}
		if v, ok := rec.Defaults.Get(name); ok {
			def.DefaultValue = v
		}
		if options, ok := rec.Variants[name]; ok {
			def.VariantOptions = options
		}
		spec.PropertyDefinitions[name] = def
	}

	return spec, nil
}

// ToComponentSetSpec builds a component set named after the first record.
// Variant options are unioned per prop in first-seen order, and every record
// becomes a child named "Name, prop=value, ..." from its non-empty defaults.
func ToComponentSetSpec(recs []*Record) (*Spec, error) {
	if len(recs) == 0 {
		return nil, ErrNoComponents
	}

	spec := &Spec{
		Name:                recs[0].Name,
		Type:                "COMPONENT_SET",
		PropertyDefinitions: make(map[string]PropertyDefinition),
		Children:            make([]Child, 0, len(recs)),
	}

	seen := make(map[string]map[string]bool)
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return nil, err
		}

		for _, prop := range sortedKeys(rec.Variants) {
			if seen[prop] == nil {
				seen[prop] = make(map[string]bool)
			}
			def := spec.PropertyDefinitions[prop]
			def.Type = KindVariant
			for _, option := range rec.Variants[prop] {
				if !seen[prop][option] {
					seen[prop][option] = true
					def.VariantOptions = append(def.VariantOptions, option)
				}
			}
			spec.PropertyDefinitions[prop] = def
		}

		spec.Children = append(spec.Children, Child{
			Name:       variantName(rec.Name, rec.Defaults),
			Type:       "COMPONENT",
			Properties: rec.Defaults,
		})
	}

	return spec, nil
}

func variantName(base string, defaults Defaults) string {
	parts := []string{base}
	for _, def := range defaults {
		if def.Value != "" {
			parts = append(parts, def.Name+"="+def.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// GroupByBaseName buckets records by name with the words Primary, Secondary,
// Large, Small and Default removed. Names without those words form their own
// bucket.
func GroupByBaseName(recs []*Record) map[string][]*Record {
	groups := make(map[string][]*Record)
	for _, rec := range recs {
		base := strings.TrimSpace(variantSuffixPattern.ReplaceAllString(rec.Name, ""))
		groups[base] = append(groups[base], rec)
	}
	return groups
}
