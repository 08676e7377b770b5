package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/config"
	"github.com/kataras/figma-ds-sync/pkg/formatter"
	"github.com/kataras/figma-ds-sync/pkg/preview"

	"github.com/spf13/cobra"
)

func componentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Extract component specs from React sources and generate React skeletons from Figma specs",
	}
	cmd.AddCommand(componentsScanCmd(), componentsSpecCmd(), componentsGenerateCmd(), componentsRemoteCmd())
	return cmd
}

func scanConfig(cfg *config.Config) component.ScanConfig {
	sc := component.DefaultScanConfig()
	if len(cfg.Components.Include) > 0 {
		sc.Include = cfg.Components.Include
	}
	if len(cfg.Components.Exclude) > 0 {
		sc.Exclude = cfg.Components.Exclude
	}
	return sc
}

// scanComponents extracts every component with props under the directory
// given in args, or the configured components directory.
func scanComponents(args []string) []*component.Record {
	cfg := loadConfig()
	dir := cfg.Components.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	scanner, err := component.NewScanner(scanConfig(cfg), logger)
	if err != nil {
		fail("%v", err)
	}

	recs, err := scanner.Scan(dir)
	if err != nil {
		fail("%v", err)
	}
	return recs
}

func componentsScanCmd() *cobra.Command {
	var markdown string

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the components and props found in a source directory",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			recs := scanComponents(args)

			cyan.Printf("Found %d component(s)\n\n", len(recs))
			for _, rec := range recs {
				fmt.Printf("  • %-24s %2d prop(s)  %s\n", rec.Name, len(rec.Props), rec.SourcePath)
			}

			if markdown != "" {
				if err := os.WriteFile(markdown, []byte(formatter.ComponentsToMarkdown(recs)), 0644); err != nil {
					fail("%v", err)
				}
				green.Printf("\n✓ Wrote component reference to %s\n", markdown)
			}
		},
	}

	cmd.Flags().StringVar(&markdown, "markdown", "", "Write a markdown table of the components to this file")
	return cmd
}

func componentsSpecCmd() *cobra.Command {
	var (
		output string
		asSet  bool
	)

	cmd := &cobra.Command{
		Use:   "spec [dir]",
		Short: "Build Figma component definitions from React sources",
		Long:  "Build one COMPONENT definition per extracted component, or with --set one COMPONENT_SET per group of components sharing a base name (ButtonPrimary, ButtonLarge -> Button)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			recs := scanComponents(args)
			if len(recs) == 0 {
				fail("no components with props found")
			}

			var specs []*component.Spec
			if asSet {
				groups := component.GroupByBaseName(recs)
				for _, base := range slices.Sorted(maps.Keys(groups)) {
					spec, err := component.ToComponentSetSpec(groups[base])
					if err != nil {
						fail("%v", err)
					}
					specs = append(specs, spec)
				}
			} else {
				for _, rec := range recs {
					spec, err := component.ToComponentSpec(rec)
					if err != nil {
						fail("%v", err)
					}
					specs = append(specs, spec)
				}
			}

			data, err := encodeIndent(specs)
			if err != nil {
				fail("%v", err)
			}
			if output == "" {
				os.Stdout.Write(data)
				return
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				fail("%v", err)
			}
			green.Printf("✓ Wrote %d spec(s) to %s\n", len(specs), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the specs to this file instead of stdout")
	cmd.Flags().BoolVar(&asSet, "set", false, "Group variants into component sets")
	return cmd
}

func componentsGenerateCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "generate <spec.json>",
		Short: "Generate React component skeletons from Figma component definitions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fail("%v", err)
			}
			specs, err := decodeSpecs(data)
			if err != nil {
				fail("%s: %v", args[0], err)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				fail("%v", err)
			}
			for _, spec := range specs {
				name := component.PascalCase(spec.Name)
				if name == "" {
					name = "Component"
				}
				out := filepath.Join(outDir, name+".tsx")
				if err := os.WriteFile(out, []byte(component.GenerateReact(spec)), 0644); err != nil {
					fail("%v", err)
				}
				green.Printf("✓ %s\n", out)
			}
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Directory for the generated .tsx files")
	return cmd
}

func componentsRemoteCmd() *cobra.Command {
	var (
		previewDir string
		format     string
		scales     []float64
	)

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "List the components published from the Figma file",
		Run: func(cmd *cobra.Command, args []string) {
			syncer, err := newSyncer(loadConfig(), &cliLogger{})
			if err != nil {
				fail("%v. Set it in %s or use the flags.", err, envFile)
			}
			ctx := context.Background()

			comps, err := syncer.Components(ctx)
			if err != nil {
				fail("%v", err)
			}

			cyan.Printf("%d published component(s)\n\n", len(comps))
			for _, c := range comps {
				fmt.Printf("  • %-32s %s\n", c.Name, c.NodeID)
			}

			if previewDir == "" {
				return
			}
			res, err := syncer.ExportPreviews(ctx, preview.Config{Format: format, Scales: scales, OutputDir: previewDir})
			if err != nil {
				fail("%v", err)
			}
			green.Printf("\n✓ Exported %d preview(s) to %s\n", len(res.Assets), previewDir)
		},
	}

	cmd.Flags().StringVar(&previewDir, "previews", "", "Download rendered previews of the components into this directory")
	cmd.Flags().StringVar(&format, "format", "png", "Preview format: png, jpg, svg, pdf")
	cmd.Flags().Float64SliceVar(&scales, "scale", []float64{1}, "Preview scales for raster formats, e.g. 1,2")
	return cmd
}

// decodeSpecs accepts a single definition or an array of them.
func decodeSpecs(data []byte) ([]*component.Spec, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var specs []*component.Spec
		if err := json.Unmarshal(data, &specs); err != nil {
			return nil, err
		}
		return specs, nil
	}

	var spec component.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return []*component.Spec{&spec}, nil
}

func encodeIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
