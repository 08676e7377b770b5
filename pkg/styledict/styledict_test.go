package styledict

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestToBuildFormatAttributes(t *testing.T) {
	set := tokens.Set{
		tokens.CategoryColors:  {"primary": {Value: "#1966b2", Type: "color", Description: "brand"}},
		tokens.CategorySpacing: {"base": {Value: "16px"}},
	}

	built := ToBuildFormat(set)

	assert.Equal(t, Token{
		Value:       "#1966b2",
		Type:        "color",
		Description: "brand",
		Attributes:  &Attributes{Category: "colors", Type: "color", Item: "primary"},
	}, built["colors"]["primary"])

	// missing type falls back to the category
	assert.Equal(t, "spacing", built["spacing"]["base"].Type)
	assert.Equal(t, "spacing", built["spacing"]["base"].Attributes.Type)
}

func TestToBuildFormatStructuredDefaults(t *testing.T) {
	typo := map[string]any{"fontSize": 24, "textCase": "upper"}
	set := tokens.Set{
		tokens.CategoryTypography:   {"heading": {Value: typo, Type: "typography"}},
		tokens.CategoryShadows:      {"card": {Value: map[string]any{"y": 2, "blur": 4}}, "flat": {Value: "none"}},
		tokens.CategoryBorderRadius: {"sm": {Value: 4}, "md": {Value: "8px"}},
	}

	built := ToBuildFormat(set)

	assert.Equal(t, map[string]any{
		"fontFamily":    "Inter",
		"fontWeight":    400,
		"fontSize":      24,
		"lineHeight":    1.5,
		"letterSpacing": 0,
		"textCase":      "upper",
	}, built["typography"]["heading"].Value)

	assert.Equal(t, []any{map[string]any{
		"x": 0, "y": 2, "blur": 4, "spread": 0, "color": "#000000", "type": "dropShadow",
	}}, built["shadows"]["card"].Value)
	assert.Equal(t, "none", built["shadows"]["flat"].Value)

	assert.Equal(t, "4px", built["borderRadius"]["sm"].Value)
	assert.Equal(t, "8px", built["borderRadius"]["md"].Value)

	// input untouched
	assert.Len(t, typo, 2)
}

func TestShadowListDefaults(t *testing.T) {
	set := tokens.Set{tokens.CategoryShadows: {"stack": {Value: []any{
		map[string]any{"x": 1},
		map[string]any{"color": "#ff0000", "type": "innerShadow"},
	}}}}

	got := ToBuildFormat(set)["shadows"]["stack"].Value.([]any)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].(map[string]any)["x"])
	assert.Equal(t, "dropShadow", got[0].(map[string]any)["type"])
	assert.Equal(t, "innerShadow", got[1].(map[string]any)["type"])
	assert.Equal(t, 0, got[1].(map[string]any)["blur"])
}

func TestCustomDefaults(t *testing.T) {
	tr := &Transformer{Defaults: Defaults{Typography: []Field{{"fontFamily", "Roboto"}}}}
	set := tokens.Set{tokens.CategoryTypography: {"body": {Value: map[string]any{}}}}

	got := tr.ToBuildFormat(set)["typography"]["body"].Value
	assert.Equal(t, map[string]any{"fontFamily": "Roboto"}, got)
}

func TestRoundTripPlainTokens(t *testing.T) {
	set := tokens.Set{
		tokens.CategoryColors:  {"primary": {Value: "#1966b2", Type: "color", Description: "brand"}},
		tokens.CategorySpacing: {"base": {Value: "16px", Type: "dimension"}},
	}

	assert.Equal(t, set, FromBuildFormat(ToBuildFormat(set)))
}

func TestRoundTripIsLossyForTypography(t *testing.T) {
	set := tokens.Set{tokens.CategoryTypography: {"body": {Value: map[string]any{"fontSize": 14}, Type: "typography"}}}

	back := FromBuildFormat(ToBuildFormat(set))
	assert.NotEqual(t, set, back)
	assert.Equal(t, "Inter", back["typography"]["body"].Value.(map[string]any)["fontFamily"])
}

func TestApplyPlatform(t *testing.T) {
	built := ToBuildFormat(tokens.Set{
		tokens.CategoryColors: {
			"red":     {Value: "#FF0000", Type: "color"},
			"overlay": {Value: "#80000000", Type: "color"},
			"odd":     {Value: "#fff", Type: "color"},
			"css":     {Value: "rgba(0, 0, 0, 0.5)", Type: "color"},
		},
		tokens.CategorySpacing: {"base": {Value: "#FF0000"}},
	})

	ios := ApplyPlatform(built, PlatformIOS)
	assert.Equal(t, UIColor{R: 1, G: 0, B: 0, A: 1}, ios["colors"]["red"].Value)
	assert.Equal(t, UIColor{R: 0, G: 0, B: 0, A: 0.502}, ios["colors"]["overlay"].Value)
	assert.Equal(t, UIColor{A: 1}, ios["colors"]["odd"].Value)
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", ios["colors"]["css"].Value)
	assert.Equal(t, "#FF0000", ios["spacing"]["base"].Value)

	android := ApplyPlatform(built, PlatformAndroid)
	assert.Equal(t, "#FFFF0000", android["colors"]["red"].Value)
	assert.Equal(t, "#80000000", android["colors"]["overlay"].Value)
	assert.Equal(t, "#fff", android["colors"]["odd"].Value)

	web := ApplyPlatform(built, "windows")
	assert.Equal(t, built, web)

	// the input is never rewritten
	assert.Equal(t, "#FF0000", built["colors"]["red"].Value)
}

func TestHexToUIColor(t *testing.T) {
	assert.Equal(t, UIColor{R: 0.102, G: 0.4, B: 0.698, A: 1}, HexToUIColor("1a66b2"))
	assert.Equal(t, UIColor{A: 1}, HexToUIColor("#zzzzzz"))
	assert.Equal(t, UIColor{A: 1}, HexToUIColor(""))
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"colors": {"primary": {"value": "#111111"}, "accent": {"value": "#222222"}}}`)
	b := writeFile(t, dir, "b.json", `{"colors": {"primary": {"value": "#333333"}}, "spacing": {"base": {"value": "4px"}}}`)

	merged, skipped, err := MergeFiles(a, filepath.Join(dir, "missing.json"), b)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Equal(t, "#333333", merged["colors"]["primary"].Value)
	assert.Equal(t, "#222222", merged["colors"]["accent"].Value)
	assert.Equal(t, "4px", merged["spacing"]["base"].Value)
}

func TestMergeFilesSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"colors": {"primary": {"value": "#111111"}}}`)
	bad := writeFile(t, dir, "bad.json", `{"colors": {"primary": {"type": "color"}}, "spacing": {"md": {"value": "8px"}}}`)
	late := writeFile(t, dir, "late.json", `{"spacing": {"lg": {"value": "16px"}}}`)

	merged, skipped, err := MergeFiles(good, bad, late)
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	var verr *tokens.ValidationError
	require.ErrorAs(t, skipped[0], &verr)
	assert.Contains(t, skipped[0].Error(), "bad.json")
	assert.Contains(t, skipped[0].Error(), "missing 'value' field")

	assert.Equal(t, "#111111", merged["colors"]["primary"].Value)
	assert.Equal(t, "16px", merged["spacing"]["lg"].Value)
	assert.NotContains(t, merged["spacing"], "md")
}

func TestMergeFilesMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.json", `{"colors": `)

	_, _, err := MergeFiles(broken)
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	ok := writeFile(t, dir, "config.json", `{"source": ["tokens/**/*.json"], "platforms": {"css": {}}}`)
	assert.Empty(t, ValidateConfig(ok))

	partial := writeFile(t, dir, "partial.js", `module.exports = { source: ["tokens/**/*.json"] }`)
	assert.Equal(t, []string{"Missing required field: platforms"}, ValidateConfig(partial))

	missing := filepath.Join(dir, "nope.json")
	assert.Equal(t, []string{"Configuration file not found: " + missing}, ValidateConfig(missing))
}

func TestWriteBuild(t *testing.T) {
	dir := t.TempDir()
	set := tokens.Set{tokens.CategoryColors: {"red": {Value: "#FF0000", Type: "color"}}}

	paths, err := WriteBuild(dir, set, PlatformWeb, PlatformAndroid)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "web", "tokens.json"),
		filepath.Join(dir, "android", "tokens.json"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)

	var got map[string]map[string]Token
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "#FFFF0000", got["colors"]["red"].Value)
	assert.Equal(t, "red", got["colors"]["red"].Attributes.Item)
}
