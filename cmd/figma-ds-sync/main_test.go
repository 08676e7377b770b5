package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/config"
)

func TestTokenFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"spacing.json", "colors.json", "brand/dark.json", "notes.md"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	}

	files, err := tokenFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "brand", "dark.json"),
		filepath.Join(dir, "colors.json"),
		filepath.Join(dir, "spacing.json"),
	}, files)

	files, err = tokenFiles(dir, "brand", "brand/**")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "colors.json"),
		filepath.Join(dir, "spacing.json"),
	}, files)
}

func TestOutputIgnore(t *testing.T) {
	dir := t.TempDir()
	tokensDir := filepath.Join(dir, "tokens")

	ignore, err := outputIgnore(tokensDir, filepath.Join(dir, "build"))
	require.NoError(t, err)
	assert.Empty(t, ignore)

	ignore, err = outputIgnore(tokensDir, filepath.Join(tokensDir, "dist", "build"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/build", "dist/build/**"}, ignore)

	_, err = outputIgnore(tokensDir, tokensDir+string(filepath.Separator))
	assert.Error(t, err)
}

func TestDecodeSpecs(t *testing.T) {
	specs, err := decodeSpecs([]byte(`  {"name": "Card", "type": "COMPONENT", "componentPropertyDefinitions": {"title": {"type": "TEXT"}}}`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Card", specs[0].Name)
	assert.Equal(t, component.KindText, specs[0].PropertyDefinitions["title"].Type)

	specs, err = decodeSpecs([]byte(`[{"name": "A"}, {"name": "B"}]`))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "B", specs[1].Name)

	_, err = decodeSpecs([]byte(`[{"name":`))
	assert.Error(t, err)
}

func TestScanConfigOverrides(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, component.DefaultScanConfig(), scanConfig(cfg))

	cfg.Components.Include = []string{"**/*.tsx"}
	sc := scanConfig(cfg)
	assert.Equal(t, []string{"**/*.tsx"}, sc.Include)
	assert.Equal(t, component.DefaultScanConfig().Exclude, sc.Exclude)
}
