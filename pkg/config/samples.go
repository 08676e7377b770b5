package config

import (
	"path/filepath"

	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// SampleTokens are the starter token files written by init, keyed by file name.
var SampleTokens = map[string]tokens.Set{
	"colors.json": {
		tokens.CategoryColors: {
			"primary":    {Value: "#1E40AF", Type: "color"},
			"secondary":  {Value: "#7C3AED", Type: "color"},
			"neutral100": {Value: "#F3F4F6", Type: "color"},
			"neutral900": {Value: "#111827", Type: "color"},
		},
	},
	"spacing.json": {
		tokens.CategorySpacing: {
			"xs": {Value: "4px", Type: "dimension"},
			"sm": {Value: "8px", Type: "dimension"},
			"md": {Value: "16px", Type: "dimension"},
			"lg": {Value: "24px", Type: "dimension"},
			"xl": {Value: "32px", Type: "dimension"},
		},
	},
}

// WriteSamples writes SampleTokens into dir and returns the written paths
// in name order.
func WriteSamples(dir string) ([]string, error) {
	names := []string{"colors.json", "spacing.json"}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := tokens.Save(p, SampleTokens[name]); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
