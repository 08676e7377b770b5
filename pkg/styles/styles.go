// Package styles derives tokens from the published styles of a Figma file.
// It serves files that predate variables, or tokens whose variables endpoint
// is not available to the caller's plan.
package styles

import (
	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// Style types as reported by the file endpoint.
const (
	StyleFill   = "FILL"
	StyleText   = "TEXT"
	StyleEffect = "EFFECT"
)

// Extract walks the document and turns every node bound to a published
// FILL, TEXT or EFFECT style into a color, typography or shadow token named
// after the style. The first node found for a style defines its value.
// Styles that no node uses carry no value in the file and are skipped.
func Extract(fileResp *figma.FileResponse) tokens.Set {
	set := tokens.NewSet(tokens.DefaultRules)
	seen := make(map[string]bool)
	extractFromNode(&fileResp.Document, fileResp.Styles, seen, set)
	return set
}

func extractFromNode(node *figma.Node, published map[string]figma.Style, seen map[string]bool, set tokens.Set) {
	for key, styleID := range node.Styles {
		style, ok := published[styleID]
		if !ok || seen[styleID] {
			continue
		}

		name := tokens.FormatName(style.Name)
		if name == "" {
			continue
		}

		var (
			category string
			tok      tokens.Token
			found    bool
		)

		switch style.StyleType {
		case StyleFill:
			paints := node.Fills
			if key == "stroke" || key == "strokes" {
				paints = node.Strokes
			}
			if value, ok := solidColor(paints); ok {
				category, found = tokens.CategoryColors, true
				tok = tokens.Token{Value: tokens.FormatColor(value), Type: "color"}
			}
		case StyleText:
			if node.Style != nil {
				category, found = tokens.CategoryTypography, true
				tok = tokens.Token{Value: typography(node.Style), Type: "typography"}
			}
		case StyleEffect:
			if value, ok := shadow(node.Effects); ok {
				category, found = tokens.CategoryShadows, true
				tok = tokens.Token{Value: tokens.FormatShadow(value), Type: "shadow"}
			}
		}

		if !found {
			continue
		}
		tok.Description = style.Description
		set[category][name] = tok
		seen[styleID] = true
	}

	for i := range node.Children {
		extractFromNode(&node.Children[i], published, seen, set)
	}
}

// solidColor returns the first visible solid paint as an {r,g,b,a} value,
// with the paint opacity folded into alpha.
func solidColor(paints []figma.Paint) (map[string]any, bool) {
	for _, p := range paints {
		if p.Type != "SOLID" || p.Color == nil || !p.IsVisible() {
			continue
		}

		alpha := p.Color.A
		if p.Opacity != nil {
			alpha *= *p.Opacity
		}
		return map[string]any{"r": p.Color.R, "g": p.Color.G, "b": p.Color.B, "a": alpha}, true
	}
	return nil, false
}

func typography(ts *figma.TypeStyle) map[string]any {
	return map[string]any{
		"fontFamily":    ts.FontFamily,
		"fontWeight":    ts.FontWeight,
		"fontSize":      ts.FontSize,
		"lineHeight":    ts.LineHeightPx,
		"letterSpacing": ts.LetterSpacing,
	}
}

func shadow(effects []figma.Effect) (map[string]any, bool) {
	for _, effect := range effects {
		if (effect.Type != "DROP_SHADOW" && effect.Type != "INNER_SHADOW") || !effect.Visible {
			continue
		}

		value := map[string]any{
			"blur":   effect.Radius,
			"spread": effect.Spread,
		}
		if effect.Offset != nil {
			value["x"] = effect.Offset.X
			value["y"] = effect.Offset.Y
		}
		if c := effect.Color; c != nil {
			value["color"] = map[string]any{"r": c.R, "g": c.G, "b": c.B, "a": c.A}
		}
		return value, true
	}
	return nil, false
}
