package styles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

const fileJSON = `{
  "name": "Design System",
  "styles": {
    "S:1": {"key": "k1", "name": "Brand/Primary", "styleType": "FILL", "description": "main brand"},
    "S:2": {"key": "k2", "name": "Heading Large", "styleType": "TEXT"},
    "S:3": {"key": "k3", "name": "Card Shadow", "styleType": "EFFECT"},
    "S:4": {"key": "k4", "name": "Unused", "styleType": "FILL"},
    "S:5": {"key": "k5", "name": "Overlay", "styleType": "FILL"}
  },
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [{
      "id": "1:1", "name": "Page", "type": "CANVAS",
      "children": [
        {"id": "2:1", "name": "Button", "type": "RECTANGLE", "styles": {"fill": "S:1"},
         "fills": [{"type": "SOLID", "visible": false, "color": {"r": 1, "g": 1, "b": 1, "a": 1}},
                   {"type": "SOLID", "color": {"r": 0.1, "g": 0.4, "b": 0.7, "a": 1}}]},
        {"id": "2:2", "name": "Title", "type": "TEXT", "styles": {"text": "S:2"},
         "style": {"fontFamily": "Inter", "fontWeight": 700, "fontSize": 32, "lineHeightPx": 40, "letterSpacing": 0}},
        {"id": "2:3", "name": "Card", "type": "FRAME", "styles": {"effect": "S:3"},
         "effects": [{"type": "DROP_SHADOW", "visible": true, "radius": 8, "spread": 0,
                      "offset": {"x": 0, "y": 2}, "color": {"r": 0, "g": 0, "b": 0, "a": 0.25}}]},
        {"id": "2:4", "name": "Scrim", "type": "RECTANGLE", "styles": {"fill": "S:5"},
         "fills": [{"type": "SOLID", "opacity": 0.5, "color": {"r": 0, "g": 0, "b": 0, "a": 1}}]},
        {"id": "2:5", "name": "Other", "type": "RECTANGLE", "styles": {"fill": "S:1"},
         "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0, "a": 1}}]}
      ]
    }]
  }
}`

func TestExtract(t *testing.T) {
	var file figma.FileResponse
	require.NoError(t, json.Unmarshal([]byte(fileJSON), &file))

	set := Extract(&file)

	assert.Len(t, set, 6)
	assert.Equal(t, tokens.Token{Value: "#1966b2", Type: "color", Description: "main brand"}, set[tokens.CategoryColors]["brandprimary"])
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", set[tokens.CategoryColors]["overlay"].Value)
	assert.NotContains(t, set[tokens.CategoryColors], "unused")

	assert.Equal(t, map[string]any{
		"fontFamily":    "Inter",
		"fontWeight":    700.0,
		"fontSize":      32.0,
		"lineHeight":    40.0,
		"letterSpacing": 0.0,
	}, set[tokens.CategoryTypography]["headingLarge"].Value)

	assert.Equal(t, "0px 2px 8px 0px rgba(0, 0, 0, 0.25)", set[tokens.CategoryShadows]["cardShadow"].Value)
	assert.Equal(t, 4, set.Count())
}
