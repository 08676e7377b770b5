package formatter

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

type section struct {
	category string
	title    string
	prefix   string
}

var sections = []section{
	{tokens.CategoryColors, "Color Palette", "color"},
	{tokens.CategorySpacing, "Spacing", "space"},
	{tokens.CategoryTypography, "Typography", "font"},
	{tokens.CategoryBorderRadius, "Border Radius", "radius"},
	{tokens.CategoryShadows, "Shadows", "shadow"},
	{tokens.CategoryOpacity, "Opacity", "opacity"},
}

// typographyFields lists the sub-fields of a typography value in output order.
var typographyFields = []struct{ key, suffix, unit string }{
	{"fontFamily", "family", ""},
	{"fontSize", "size", "px"},
	{"fontWeight", "weight", ""},
	{"lineHeight", "leading", ""},
	{"letterSpacing", "tracking", "px"},
}

// ToMarkdown renders a token set as a markdown document of CSS custom
// properties, one fenced block per category. Categories outside the standard
// six are appended in name order.
func ToMarkdown(set tokens.Set, title string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Design Tokens - %s\n\n", title))
	sb.WriteString(fmt.Sprintf("This document lists the %d design tokens of the project as CSS custom properties.\n\n", set.Count()))

	all := append([]section(nil), sections...)
	known := make(map[string]bool, len(sections))
	for _, s := range sections {
		known[s.category] = true
	}
	for _, category := range set.Categories() {
		if !known[category] {
			all = append(all, section{category, category, toKebabCase(category)})
		}
	}

	for _, s := range all {
		toks := set[s.category]
		if len(toks) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
		sb.WriteString("```css\n")
		for _, name := range set.Names(s.category) {
			tok := toks[name]
			if tok.Description != "" {
				sb.WriteString(fmt.Sprintf("/* %s */\n", tok.Description))
			}
			writeVars(&sb, s.prefix+"-"+toKebabCase(name), tok.Value)
		}
		sb.WriteString("```\n\n")
	}

	return sb.String()
}

func writeVars(sb *strings.Builder, varName string, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		sb.WriteString(fmt.Sprintf("--%s: %s;\n", varName, cssValue(value)))
		return
	}

	done := make(map[string]bool)
	for _, f := range typographyFields {
		v, ok := m[f.key]
		if !ok {
			continue
		}
		done[f.key] = true
		out := cssValue(v)
		if f.key == "fontFamily" {
			out = fmt.Sprintf("'%s', system-ui, -apple-system, sans-serif", out)
		} else if f.unit != "" && tokens.IsNumber(v) {
			out += f.unit
		}
		sb.WriteString(fmt.Sprintf("--%s-%s: %s;\n", varName, f.suffix, out))
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if !done[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("--%s-%s: %s;\n", varName, toKebabCase(k), cssValue(m[k])))
	}
}

func cssValue(v any) string {
	return tokens.FormatValue(v)
}

// ComponentsToMarkdown renders a table of extracted components and their props.
func ComponentsToMarkdown(recs []*component.Record) string {
	var sb strings.Builder

	sb.WriteString("# Components\n\n")
	for _, rec := range recs {
		sb.WriteString(fmt.Sprintf("## %s\n\n", rec.Name))
		if rec.SourcePath != "" {
			sb.WriteString(fmt.Sprintf("Source: `%s`\n\n", rec.SourcePath))
		}

		sb.WriteString("| Prop | Type | Figma | Required | Default |\n")
		sb.WriteString("|------|------|-------|----------|---------|\n")

		names := make([]string, 0, len(rec.Props))
		for name := range rec.Props {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			p := rec.Props[name]
			def, _ := rec.Defaults.Get(name)
			required := "no"
			if p.Required {
				required = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s | %s |\n",
				name, strings.ReplaceAll(p.Type, "|", "\\|"), p.Kind, required, def))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// toKebabCase converts a token or node name to kebab-case for CSS variable
// names. camelCase humps, spaces and underscores become hyphens; any other
// character outside [a-z0-9-] is dropped.
func toKebabCase(s string) string {
	var result strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
			prevLower = false
		case r == ' ' || r == '_' || r == '-':
			result.WriteByte('-')
			prevLower = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			prevLower = true
		}
	}

	return result.String()
}
