package component

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

var (
	componentNameStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	componentNameSplit = regexp.MustCompile(`[-_\s]+`)
)

// GenerateReact renders a TSX skeleton for a Figma component definition:
// a <Name>Props interface, a React.FC with destructured defaults and a root
// element with a kebab-case class name.
func GenerateReact(def *Spec) string {
	name := PascalCase(def.Name)
	if name == "" {
		name = "Component"
	}

	type prop struct {
		name, tsType, description, fallback string
		optional                            bool
	}

	var props []prop
	hasChildren := false
	for _, key := range sortedKeys(def.PropertyDefinitions) {
		pd := def.PropertyDefinitions[key]
		// Figma suffixes non-variant property names with "#<id>".
		ident := tokens.FormatName(strings.SplitN(key, "#", 2)[0])
		if ident == "" {
			continue
		}
		if ident == "children" {
			hasChildren = true
		}

		p := prop{
			name:        ident,
			tsType:      tsType(pd),
			description: pd.Description,
		}
		if pd.DefaultValue != nil {
			p.fallback = tsLiteral(pd.DefaultValue)
			p.optional = true
		}
		props = append(props, p)
	}

	if len(def.Children) > 0 && !hasChildren {
		props = append(props, prop{name: "children", tsType: "React.ReactNode", optional: true})
		hasChildren = true
	}

	var b strings.Builder
	b.WriteString("import React from 'react';\n\n")

	fmt.Fprintf(&b, "interface %sProps {\n", name)
	for _, p := range props {
		if p.description != "" {
			fmt.Fprintf(&b, "  /** %s */\n", p.description)
		}
		optional := ""
		if p.optional {
			optional = "?"
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", p.name, optional, p.tsType)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export const %s: React.FC<%sProps> = ({\n", name, name)
	for i, p := range props {
		b.WriteString("  ")
		b.WriteString(p.name)
		if p.fallback != "" {
			b.WriteString(" = ")
			b.WriteString(p.fallback)
		}
		if i < len(props)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}) => {\n")
	b.WriteString("  return (\n")
	fmt.Fprintf(&b, "    <div className=\"%s\">\n", KebabCase(name))
	if hasChildren {
		b.WriteString("      {children}\n")
	} else {
		b.WriteString("      <span>Component content</span>\n")
	}
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("};\n")

	return b.String()
}

func tsType(pd PropertyDefinition) string {
	switch pd.Type {
	case KindText:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindInstanceSwap:
		return "React.ReactNode"
	case KindVariant:
		if len(pd.VariantOptions) == 0 {
			return "string"
		}
		options := make([]string, len(pd.VariantOptions))
		for i, o := range pd.VariantOptions {
			options[i] = "'" + strings.ReplaceAll(o, "'", "\\'") + "'"
		}
		return strings.Join(options, " | ")
	}
	return "any"
}

func tsLiteral(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(x, "'", "\\'") + "'"
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// PascalCase turns a Figma layer name into a component identifier.
func PascalCase(name string) string {
	name = componentNameStrip.ReplaceAllString(name, "")
	var b strings.Builder
	for _, word := range strings.Fields(componentNameSplit.ReplaceAllString(name, " ")) {
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// KebabCase turns a PascalCase identifier into a CSS class name.
func KebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
